package enigma

import (
	"fmt"
	"strings"
)

// Config is the low-level machine description: explicit wirings and
// zero-based indices. Most callers use FromKeySheet instead.
type Config struct {
	// Rotors in mounting order, leftmost first.
	Rotors []RotorSpec

	// RingSettings are zero-based, aligned with Rotors.
	RingSettings []int

	Reflector ReflectorSpec

	// PlugboardPairs are disjoint index pairs; nil means no plugs.
	PlugboardPairs [][2]int

	// Positions are the zero-based starting positions, aligned with Rotors.
	// Empty means every rotor starts at A.
	Positions []int
}

// Machine is one Enigma: plugboard, rotor stack and reflector.
//
// A Machine changes state only through KeyPress (which steps the stack) and
// SetDisplay (which overwrites positions). It is not safe for concurrent use.
type Machine struct {
	plugboard *Plugboard
	stack     *RotorStack
	reflector *Reflector
}

// New validates cfg and builds a machine.
func New(cfg Config) (*Machine, error) {
	if len(cfg.Rotors) == 0 {
		return nil, newConfigError(ErrCodeCountMismatch, "rotors", "", "at least one rotor is required")
	}
	if len(cfg.RingSettings) != len(cfg.Rotors) {
		return nil, newConfigError(ErrCodeCountMismatch, "ring_settings", "",
			"got %d ring settings for %d rotors", len(cfg.RingSettings), len(cfg.Rotors))
	}
	positions := cfg.Positions
	if len(positions) == 0 {
		positions = make([]int, len(cfg.Rotors))
	}
	if len(positions) != len(cfg.Rotors) {
		return nil, newConfigError(ErrCodeCountMismatch, "positions", "",
			"got %d positions for %d rotors", len(positions), len(cfg.Rotors))
	}

	rotors := make([]*Rotor, len(cfg.Rotors))
	for i, spec := range cfg.Rotors {
		r, err := NewRotor(spec, cfg.RingSettings[i], positions[i])
		if err != nil {
			return nil, fmt.Errorf("rotor %d: %w", i, err)
		}
		rotors[i] = r
	}
	stack, err := NewRotorStack(rotors)
	if err != nil {
		return nil, err
	}

	reflector, err := NewReflector(cfg.Reflector)
	if err != nil {
		return nil, err
	}

	plugboard, err := NewPlugboard(cfg.PlugboardPairs)
	if err != nil {
		return nil, err
	}

	return &Machine{
		plugboard: plugboard,
		stack:     stack,
		reflector: reflector,
	}, nil
}

// KeyPress steps the rotors and enciphers one letter. Lower-case input is
// accepted; the result is always upper case and never equals the input.
//
// Panics if letter is not an ASCII letter. Callers validate keys first
// (ProcessText and session.Session do).
func (m *Machine) KeyPress(letter byte) byte {
	s, ok := Index(letter)
	if !ok {
		panic(fmt.Sprintf("enigma: key %q is not a letter", letter))
	}
	return Letter(m.pressIndex(s))
}

func (m *Machine) pressIndex(s int) int {
	m.stack.Step()
	s = m.plugboard.Swap(s)
	s = m.stack.TransitForward(s)
	s = m.reflector.Reflect(s)
	s = m.stack.TransitBackward(s)
	return m.plugboard.Swap(s)
}

// Display returns the rotor window letters, leftmost first.
func (m *Machine) Display() string {
	positions := m.stack.Positions()
	b := make([]byte, len(positions))
	for i, p := range positions {
		b[i] = Letter(p)
	}
	return string(b)
}

// SetDisplay turns the rotors to the given window letters without stepping.
// The string needs one letter per rotor; case is ignored.
func (m *Machine) SetDisplay(display string) error {
	positions, err := parseDisplay(display, m.stack.Len())
	if err != nil {
		return err
	}
	return m.stack.SetPositions(positions)
}

// Positions returns the zero-based rotor positions, leftmost first.
func (m *Machine) Positions() []int {
	return m.stack.Positions()
}

// RotorNames returns the mounted rotors' names, leftmost first.
func (m *Machine) RotorNames() []string {
	names := make([]string, m.stack.Len())
	for i := range names {
		names[i] = m.stack.Rotor(i).Name()
	}
	return names
}

// RingSettings returns the zero-based ring settings, leftmost first.
func (m *Machine) RingSettings() []int {
	rings := make([]int, m.stack.Len())
	for i := range rings {
		rings[i] = m.stack.Rotor(i).Ring()
	}
	return rings
}

// ReflectorName returns the mounted reflector's name.
func (m *Machine) ReflectorName() string {
	return m.reflector.Name()
}

// PlugboardPairs returns the plugboard in letter notation.
func (m *Machine) PlugboardPairs() string {
	return m.plugboard.Pairs()
}

// Clone returns an independent machine in the same state.
func (m *Machine) Clone() *Machine {
	return &Machine{
		plugboard: m.plugboard, // immutable
		stack:     m.stack.clone(),
		reflector: m.reflector, // immutable
	}
}

// String summarizes the machine setup, e.g. "B II-IV-V 01-20-11 AAA".
func (m *Machine) String() string {
	rings := m.RingSettings()
	ringParts := make([]string, len(rings))
	for i, r := range rings {
		ringParts[i] = fmt.Sprintf("%02d", r+1)
	}
	return fmt.Sprintf("%s %s %s %s",
		m.ReflectorName(),
		strings.Join(m.RotorNames(), "-"),
		strings.Join(ringParts, "-"),
		m.Display())
}

func parseDisplay(display string, n int) ([]int, error) {
	if len(display) != n {
		return nil, newConfigError(ErrCodeInvalidDisplay, "display", display,
			"need %d letters, got %d", n, len(display))
	}
	positions := make([]int, n)
	for i := 0; i < n; i++ {
		p, ok := Index(display[i])
		if !ok {
			return nil, newConfigError(ErrCodeInvalidDisplay, "display", display,
				"symbol %q is not a letter", display[i])
		}
		positions[i] = p
	}
	return positions, nil
}
