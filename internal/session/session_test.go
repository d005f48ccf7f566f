package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

var helloSheet = enigma.KeySheet{
	Rotors:       []string{"II", "IV", "V"},
	RingSettings: []int{1, 20, 11},
	Reflector:    "B",
	Plugboard:    "AV BS CG DL FU HZ IN KM OW RX",
	Display:      "AAA",
}

var basicSheet = enigma.KeySheet{
	Rotors:    []string{"I", "II", "III"},
	Reflector: "B",
}

// memRecorder keeps events in memory.
type memRecorder struct {
	mu       sync.Mutex
	sessions []Info
	presses  []Press
	displays []DisplayChange
	failOn   int64 // fail RecordPress at this seq
}

func (r *memRecorder) RecordSession(_ context.Context, info Info) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, info)
	return nil
}

func (r *memRecorder) RecordPress(_ context.Context, _ string, p Press) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != 0 && p.Seq == r.failOn {
		return errors.New("disk full")
	}
	r.presses = append(r.presses, p)
	return nil
}

func (r *memRecorder) RecordDisplay(_ context.Context, _ string, d DisplayChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.displays = append(r.displays, d)
	return nil
}

func mustSession(t *testing.T, ks enigma.KeySheet, opts ...Option) *Session {
	t.Helper()
	s, err := New(context.Background(), ks, opts...)
	require.NoError(t, err)
	return s
}

func TestNew_DefaultIDIsUUIDv7(t *testing.T) {
	s := mustSession(t, basicSheet)
	parsed, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNew_InvalidKeySheet(t *testing.T) {
	rec := &memRecorder{}
	_, err := New(context.Background(), enigma.KeySheet{
		Rotors:    []string{"I", "II", "IX"},
		Reflector: "B",
	}, WithRecorder(rec))
	require.Error(t, err)
	assert.Equal(t, enigma.ErrCodeUnknownComponent, enigma.ConfigErrorCodeOf(err))
	assert.Empty(t, rec.sessions, "invalid sessions are not journaled")
}

func TestNew_RecordsSession(t *testing.T) {
	rec := &memRecorder{}
	s := mustSession(t, helloSheet,
		WithIDGenerator(NewFixedGenerator("s-1")),
		WithRecorder(rec))

	require.Len(t, rec.sessions, 1)
	assert.Equal(t, "s-1", rec.sessions[0].ID)
	assert.Equal(t, helloSheet, rec.sessions[0].KeySheet)
	assert.Equal(t, helloSheet, s.KeySheet())
}

func TestPress(t *testing.T) {
	s := mustSession(t, basicSheet)
	ctx := context.Background()

	p, err := s.Press(ctx, 'A')
	require.NoError(t, err)
	assert.Equal(t, Press{Seq: 1, Input: 'A', Output: 'B', Display: "AAB"}, p)

	p, err = s.Press(ctx, 'a')
	require.NoError(t, err)
	assert.Equal(t, Press{Seq: 2, Input: 'A', Output: 'D', Display: "AAC"}, p)
}

func TestPress_InvalidKey(t *testing.T) {
	s := mustSession(t, basicSheet)

	for _, key := range []byte{'1', ' ', '-', 0, 0xC4} {
		_, err := s.Press(context.Background(), key)
		assert.ErrorIs(t, err, ErrInvalidKey)
	}
	assert.Equal(t, "AAA", s.Display(), "rejected keys do not step the rotors")
}

func TestPress_CancelledContext(t *testing.T) {
	s := mustSession(t, basicSheet)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Press(ctx, 'A')
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "AAA", s.Display())
}

func TestType_HelloWorld(t *testing.T) {
	rec := &memRecorder{}
	s := mustSession(t, helloSheet, WithRecorder(rec))

	presses, err := s.Type(context.Background(), "Hello, World!")
	require.NoError(t, err)
	assert.Equal(t, "PBRVANVOCZ", Lamps(presses))
	assert.Equal(t, "AAK", s.Display())
	assert.Equal(t, presses, rec.presses)

	for i, p := range presses {
		assert.Equal(t, int64(i+1), p.Seq)
	}
}

func TestMachine(t *testing.T) {
	s := mustSession(t, helloSheet)
	assert.Equal(t, "B II-IV-V 01-20-11 AAA", s.Machine())

	_, err := s.Type(context.Background(), "HELLO")
	require.NoError(t, err)
	assert.Equal(t, "B II-IV-V 01-20-11 AAF", s.Machine())
}

func TestType_Replacement(t *testing.T) {
	s := mustSession(t, basicSheet)
	presses, err := s.Type(context.Background(), "Grüße aus Köln!", enigma.WithReplacement('X'))
	require.NoError(t, err)
	assert.Equal(t, "XCFWBXKALIJIFCSXMB", Lamps(presses))
}

func TestType_Involution(t *testing.T) {
	ctx := context.Background()
	enc := mustSession(t, helloSheet)
	dec := mustSession(t, helloSheet)

	ciphertext, err := enc.Type(ctx, "HELLOWORLD")
	require.NoError(t, err)
	plaintext, err := dec.Type(ctx, Lamps(ciphertext))
	require.NoError(t, err)
	assert.Equal(t, "HELLOWORLD", Lamps(plaintext))
}

func TestType_RecordFailureStopsTyping(t *testing.T) {
	rec := &memRecorder{failOn: 3}
	s := mustSession(t, basicSheet, WithIDGenerator(NewFixedGenerator("s-1")), WithRecorder(rec))

	presses, err := s.Type(context.Background(), "AAAAA")
	require.Error(t, err)
	assert.True(t, IsRecordError(err))
	assert.Contains(t, err.Error(), "session s-1: record seq 3")

	require.Len(t, presses, 3, "the failed press still happened")
	assert.Equal(t, "BDZ", Lamps(presses))
	assert.Len(t, rec.presses, 2)
	assert.Equal(t, "AAD", s.Display())
}

func TestSetDisplay(t *testing.T) {
	rec := &memRecorder{}
	s := mustSession(t, basicSheet, WithRecorder(rec))
	ctx := context.Background()

	_, err := s.Type(ctx, "AAAAA")
	require.NoError(t, err)

	d, err := s.SetDisplay(ctx, "aaa")
	require.NoError(t, err)
	assert.Equal(t, DisplayChange{Seq: 6, Display: "AAA"}, d)
	assert.Equal(t, "AAA", s.Display())
	require.Equal(t, []DisplayChange{{Seq: 6, Display: "AAA"}}, rec.displays)

	// Resetting the display repeats the message key.
	presses, err := s.Type(ctx, "AAAAA")
	require.NoError(t, err)
	assert.Equal(t, "BDZGO", Lamps(presses))
	assert.Equal(t, int64(7), presses[0].Seq)
}

func TestSetDisplay_Invalid(t *testing.T) {
	rec := &memRecorder{}
	s := mustSession(t, basicSheet, WithRecorder(rec))

	_, err := s.SetDisplay(context.Background(), "AA")
	require.Error(t, err)
	assert.Equal(t, enigma.ErrCodeInvalidDisplay, enigma.ConfigErrorCodeOf(err))
	assert.Empty(t, rec.displays)
}

func TestClose(t *testing.T) {
	s := mustSession(t, basicSheet)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Press(context.Background(), 'A')
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.SetDisplay(context.Background(), "AAA")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestKeySheet_ReturnsCopy(t *testing.T) {
	s := mustSession(t, helloSheet)
	ks := s.KeySheet()
	ks.Rotors[0] = "I"
	ks.RingSettings[0] = 9
	assert.Equal(t, helloSheet, s.KeySheet())
}

func TestSession_ConcurrentPressesAreSerialized(t *testing.T) {
	rec := &memRecorder{}
	s := mustSession(t, basicSheet, WithRecorder(rec))

	var wg sync.WaitGroup
	for _i := 0; _i < 8; _i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _i := 0; _i < 10; _i++ {
				_, err := s.Press(context.Background(), 'A')
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, rec.presses, 80)
	for i, p := range rec.presses {
		assert.Equal(t, int64(i+1), p.Seq, "recorder sees presses in seq order")
	}

	// The interleaving does not matter: 80 presses of A from AAA.
	want := mustSession(t, basicSheet)
	presses, err := want.Type(context.Background(), string(make80A()))
	require.NoError(t, err)
	assert.Equal(t, Lamps(presses), Lamps(rec.presses))
	assert.Equal(t, want.Display(), s.Display())
}

func make80A() []byte {
	b := make([]byte, 80)
	for i := range b {
		b[i] = 'A'
	}
	return b
}
