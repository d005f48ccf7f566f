package enigma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustStack(t *testing.T, names []string, display string) *RotorStack {
	t.Helper()
	rotors := make([]*Rotor, len(names))
	for i, name := range names {
		p, ok := Index(display[i])
		require.True(t, ok)
		rotors[i] = mustRotor(t, name, 0, p)
	}
	s, err := NewRotorStack(rotors)
	require.NoError(t, err)
	return s
}

func displayOf(s *RotorStack) string {
	b := make([]byte, s.Len())
	for i, p := range s.Positions() {
		b[i] = Letter(p)
	}
	return string(b)
}

func TestRotorStack_RightmostAlwaysSteps(t *testing.T) {
	s := mustStack(t, []string{"I", "II", "III"}, "AAA")
	s.Step()
	assert.Equal(t, "AAB", displayOf(s))
	s.Step()
	assert.Equal(t, "AAC", displayOf(s))
}

func TestRotorStack_SingleStepCarry(t *testing.T) {
	// III carries at V: the press that moves it off V moves the middle rotor.
	s := mustStack(t, []string{"I", "II", "III"}, "AAU")
	s.Step()
	assert.Equal(t, "AAV", displayOf(s))
	s.Step()
	assert.Equal(t, "ABW", displayOf(s))
	s.Step()
	assert.Equal(t, "ABX", displayOf(s))
}

func TestRotorStack_LongRun(t *testing.T) {
	// Three carries out of the right rotor (V->W at presses 22, 48 and 74).
	s := mustStack(t, []string{"I", "II", "III"}, "AAA")
	for i := 0; i < 80; i++ {
		s.Step()
	}
	assert.Equal(t, "ADC", displayOf(s))
}

func TestRotorStack_DoubleStep(t *testing.T) {
	// Middle rotor II one position before its notch E, right rotor at its
	// notch V: the middle rotor reaches E, then moves again together with
	// the left rotor on the very next press.
	s := mustStack(t, []string{"I", "II", "III"}, "ADV")

	s.Step()
	assert.Equal(t, "AEW", displayOf(s))
	assert.True(t, s.Rotor(1).AtNotch())

	s.Step()
	assert.Equal(t, "BFX", displayOf(s), "middle and left rotors must both advance")

	s.Step()
	assert.Equal(t, "BFY", displayOf(s))
}

func TestRotorStack_DoubleStepFromADU(t *testing.T) {
	s := mustStack(t, []string{"I", "II", "III"}, "ADU")
	var got []string
	for i := 0; i < 3; i++ {
		s.Step()
		got = append(got, displayOf(s))
	}
	assert.Equal(t, []string{"ADV", "AEW", "BFX"}, got)
}

func TestRotorStack_FullRevolution(t *testing.T) {
	// 26 presses from AAA: the right rotor comes back to A and carries the
	// middle rotor exactly once (at V -> W). The left rotor never moves.
	s := mustStack(t, []string{"I", "II", "III"}, "AAA")
	start := s.Positions()
	for i := 0; i < AlphabetSize; i++ {
		s.Step()
	}
	end := s.Positions()
	assert.Equal(t, start[2], end[2], "rightmost rotor returns to start")
	assert.Equal(t, start[1]+1, end[1], "middle rotor advanced once")
	assert.Equal(t, start[0], end[0], "left rotor untouched")
	assert.Equal(t, "ABA", displayOf(s))
}

func TestRotorStack_LeftRotorNotchIsInert(t *testing.T) {
	// The leftmost of three rotors has no pawl on its left, so sitting on
	// its own notch does nothing.
	s := mustStack(t, []string{"I", "II", "III"}, "QAA")
	s.Step()
	assert.Equal(t, "QAB", displayOf(s))
}

func TestRotorStack_GreekWheelNeverSteps(t *testing.T) {
	s := mustStack(t, []string{"Beta", "I", "II", "III"}, "AQEV")
	s.Step()
	// Left of the three pawled rotors moves (middle at notch), greek wheel stays.
	assert.Equal(t, "ARFW", displayOf(s))
	for i := 0; i < 5000; i++ {
		s.Step()
	}
	assert.Equal(t, 0, s.Positions()[0])
}

func TestRotorStack_TwoRotors(t *testing.T) {
	// With two pawls there is no double step: only the carry remains.
	s := mustStack(t, []string{"II", "III"}, "EV")
	s.Step()
	assert.Equal(t, "FW", displayOf(s))
	s.Step()
	assert.Equal(t, "FX", displayOf(s))
}

func TestRotorStack_TransitRoundTrip(t *testing.T) {
	s := mustStack(t, []string{"II", "IV", "V"}, "BLA")
	for sig := 0; sig < AlphabetSize; sig++ {
		assert.Equal(t, sig, s.TransitBackward(s.TransitForward(sig)))
	}
}

func TestRotorStack_SetPositions(t *testing.T) {
	s := mustStack(t, []string{"I", "II", "III"}, "AAA")

	require.NoError(t, s.SetPositions([]int{1, 2, 3}))
	assert.Equal(t, "BCD", displayOf(s))

	err := s.SetPositions([]int{1, 2})
	assert.Equal(t, ErrCodeCountMismatch, ConfigErrorCodeOf(err))

	err = s.SetPositions([]int{0, 26, 0})
	assert.Equal(t, ErrCodeOutOfRange, ConfigErrorCodeOf(err))
	assert.Equal(t, "BCD", displayOf(s), "rejected update leaves positions untouched")
}

func TestNewRotorStack_Empty(t *testing.T) {
	_, err := NewRotorStack(nil)
	assert.Equal(t, ErrCodeCountMismatch, ConfigErrorCodeOf(err))
}
