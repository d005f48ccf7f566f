package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// Info describes a session when it is opened.
type Info struct {
	ID       string
	KeySheet enigma.KeySheet
}

// Press is one journaled key press.
type Press struct {
	Seq     int64
	Input   byte
	Output  byte
	Display string // window letters after the press
}

// DisplayChange is one journaled display override.
type DisplayChange struct {
	Seq     int64
	Display string
}

// Recorder receives session events in seq order. Implementations must not
// retain the session; calls are made while the session lock is held.
type Recorder interface {
	RecordSession(ctx context.Context, info Info) error
	RecordPress(ctx context.Context, sessionID string, p Press) error
	RecordDisplay(ctx context.Context, sessionID string, d DisplayChange) error
}

// Session owns one machine for one operator.
type Session struct {
	mu       sync.Mutex
	id       string
	keySheet enigma.KeySheet
	machine  *enigma.Machine
	clock    *Clock
	recorder Recorder
	logger   *slog.Logger
	closed   bool
}

// Option configures a Session.
type Option func(*options)

type options struct {
	ids      IDGenerator
	recorder Recorder
	logger   *slog.Logger
}

// WithIDGenerator sets the session ID source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithRecorder journals every event of the session to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New builds a machine from ks and opens a session on it. With a recorder,
// the session is journaled before New returns.
func New(ctx context.Context, ks enigma.KeySheet, opts ...Option) (*Session, error) {
	o := options{ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	m, err := enigma.FromKeySheet(ks)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       o.ids.Generate(),
		keySheet: m.KeySheet(),
		machine:  m,
		clock:    NewClock(),
		recorder: o.recorder,
	}
	s.logger = o.logger.With("session", s.id)

	if s.recorder != nil {
		if err := s.recorder.RecordSession(ctx, Info{ID: s.id, KeySheet: s.keySheet}); err != nil {
			return nil, &RecordError{SessionID: s.id, Err: err}
		}
	}
	s.logger.Debug("session opened", "machine", m.String())
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// KeySheet returns the settings the session was opened with, including the
// starting display.
func (s *Session) KeySheet() enigma.KeySheet {
	ks := s.keySheet
	ks.Rotors = append([]string(nil), ks.Rotors...)
	ks.RingSettings = append([]int(nil), ks.RingSettings...)
	return ks
}

// Machine describes the machine in its current state, e.g.
// "B II-IV-V 01-20-11 AAF".
func (s *Session) Machine() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.String()
}

// Display returns the current window letters.
func (s *Session) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Display()
}

// Press enciphers one letter. Lower case is accepted. Anything else returns
// ErrInvalidKey and leaves the machine untouched.
func (s *Session) Press(ctx context.Context, letter byte) (Press, error) {
	if err := ctx.Err(); err != nil {
		return Press{}, err
	}
	if !enigma.IsLetter(letter) {
		return Press{}, fmt.Errorf("%w: %q", ErrInvalidKey, letter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.press(ctx, letter)
}

func (s *Session) press(ctx context.Context, letter byte) (Press, error) {
	if s.closed {
		return Press{}, ErrClosed
	}

	out := s.machine.KeyPress(letter)
	i, _ := enigma.Index(letter)
	p := Press{
		Seq:     s.clock.Next(),
		Input:   enigma.Letter(i),
		Output:  out,
		Display: s.machine.Display(),
	}
	s.logger.Debug("key press",
		"seq", p.Seq,
		"in", string(p.Input),
		"out", string(p.Output),
		"display", p.Display)

	if s.recorder != nil {
		if err := s.recorder.RecordPress(ctx, s.id, p); err != nil {
			return p, &RecordError{SessionID: s.id, Seq: p.Seq, Err: err}
		}
	}
	return p, nil
}

// Type normalizes text and presses each resulting key in order. On error the
// presses completed so far are returned with it.
func (s *Session) Type(ctx context.Context, text string, opts ...enigma.TextOption) ([]Press, error) {
	keys := enigma.Keys(text, opts...)
	presses := make([]Press, 0, len(keys))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return presses, err
		}
		p, err := s.press(ctx, k)
		if err != nil {
			if p.Seq != 0 {
				presses = append(presses, p)
			}
			return presses, err
		}
		presses = append(presses, p)
	}
	return presses, nil
}

// SetDisplay turns the rotors to display without stepping and journals the
// change.
func (s *Session) SetDisplay(ctx context.Context, display string) (DisplayChange, error) {
	if err := ctx.Err(); err != nil {
		return DisplayChange{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return DisplayChange{}, ErrClosed
	}
	if err := s.machine.SetDisplay(display); err != nil {
		return DisplayChange{}, err
	}

	d := DisplayChange{Seq: s.clock.Next(), Display: s.machine.Display()}
	s.logger.Debug("display set", "seq", d.Seq, "display", d.Display)
	if s.recorder != nil {
		if err := s.recorder.RecordDisplay(ctx, s.id, d); err != nil {
			return d, &RecordError{SessionID: s.id, Seq: d.Seq, Err: err}
		}
	}
	return d, nil
}

// Close ends the session. Later operations return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		s.logger.Debug("session closed", "events", s.clock.Current())
	}
	return nil
}

// Lamps joins the output letters of presses.
func Lamps(presses []Press) string {
	b := make([]byte, len(presses))
	for i, p := range presses {
		b[i] = p.Output
	}
	return string(b)
}
