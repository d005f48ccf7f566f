package enigma

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySheet is one day's machine settings as printed on a key sheet.
type KeySheet struct {
	// Rotors are catalog names, leftmost first, e.g. ["II", "IV", "V"].
	Rotors []string `json:"rotors" yaml:"rotors"`

	// RingSettings are 1-based (1 = A), as printed. Empty means all 1.
	RingSettings []int `json:"ring_settings,omitempty" yaml:"ring_settings,omitempty"`

	// Reflector is a catalog name, e.g. "B".
	Reflector string `json:"reflector" yaml:"reflector"`

	// Plugboard uses either letter or numeric notation, see ParsePlugboard.
	Plugboard string `json:"plugboard,omitempty" yaml:"plugboard,omitempty"`

	// Display is the starting window, one letter per rotor. Empty means all A.
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// ParseRotors splits a rotor list such as "II IV V" or "Beta,II,IV,I".
func ParseRotors(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '-'
	})
}

// ParseRingSettings reads ring settings written as 1-based numbers
// ("1 20 11", "01-20-11") or as letters ("A T K", "ATK"). The result is
// 1-based in both cases.
func ParseRingSettings(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '-'
	})
	// "ATK" with no separators
	if len(fields) == 1 && len(fields[0]) > 1 && allLetters(fields[0]) {
		word := fields[0]
		fields = make([]string, len(word))
		for i := range word {
			fields[i] = word[i : i+1]
		}
	}

	rings := make([]int, 0, len(fields))
	for _, f := range fields {
		if len(f) == 1 && IsLetter(f[0]) {
			i, _ := Index(f[0])
			rings = append(rings, i+1)
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, newConfigError(ErrCodeOutOfRange, "ring_settings", f,
				"ring setting must be a letter or a number 1..%d", AlphabetSize)
		}
		rings = append(rings, n)
	}
	return rings, nil
}

// FromKeySheet resolves ks against the historical catalog and builds a
// machine turned to ks.Display.
//
// Three- and four-rotor machines are accepted. A four-rotor machine needs a
// greek wheel (Beta or Gamma) in the leftmost slot and a thin reflector;
// greek wheels and thin reflectors are rejected anywhere else.
func FromKeySheet(ks KeySheet) (*Machine, error) {
	n := len(ks.Rotors)
	if n != 3 && n != 4 {
		return nil, newConfigError(ErrCodeCountMismatch, "rotors", strings.Join(ks.Rotors, " "),
			"key sheets name 3 or 4 rotors, got %d", n)
	}

	specs := make([]RotorSpec, n)
	seen := make(map[string]bool, n)
	for i, name := range ks.Rotors {
		spec, err := LookupRotor(name)
		if err != nil {
			return nil, newConfigError(ErrCodeUnknownComponent, fmt.Sprintf("rotors[%d]", i), name, "unknown rotor")
		}
		if seen[spec.Name] {
			return nil, newConfigError(ErrCodeInvalidCombination, "rotors", name,
				"rotor mounted more than once")
		}
		seen[spec.Name] = true
		greekSlot := n == 4 && i == 0
		if IsGreekWheel(spec.Name) != greekSlot {
			if greekSlot {
				return nil, newConfigError(ErrCodeInvalidCombination, "rotors[0]", name,
					"the leftmost rotor of a four-rotor machine must be Beta or Gamma")
			}
			return nil, newConfigError(ErrCodeInvalidCombination, fmt.Sprintf("rotors[%d]", i), name,
				"greek wheels only fit the leftmost slot of a four-rotor machine")
		}
		specs[i] = spec
	}

	reflector, err := LookupReflector(ks.Reflector)
	if err != nil {
		return nil, err
	}
	if IsThinReflector(reflector.Name) != (n == 4) {
		return nil, newConfigError(ErrCodeInvalidCombination, "reflector", ks.Reflector,
			"thin reflectors pair with four rotors, standard reflectors with three")
	}

	rings := make([]int, n)
	switch len(ks.RingSettings) {
	case 0:
	case n:
		for i, r := range ks.RingSettings {
			if r < 1 || r > AlphabetSize {
				return nil, newConfigError(ErrCodeOutOfRange, "ring_settings", strconv.Itoa(r),
					"ring setting must be in 1..%d", AlphabetSize)
			}
			rings[i] = r - 1
		}
	default:
		return nil, newConfigError(ErrCodeCountMismatch, "ring_settings", "",
			"got %d ring settings for %d rotors", len(ks.RingSettings), n)
	}

	pairs, err := ParsePlugboard(ks.Plugboard)
	if err != nil {
		return nil, err
	}

	var positions []int
	if ks.Display != "" {
		positions, err = parseDisplay(ks.Display, n)
		if err != nil {
			return nil, err
		}
	}

	return New(Config{
		Rotors:         specs,
		RingSettings:   rings,
		Reflector:      reflector,
		PlugboardPairs: pairs,
		Positions:      positions,
	})
}

// KeySheet reconstructs the key sheet of m's current state.
func (m *Machine) KeySheet() KeySheet {
	rings := m.RingSettings()
	for i := range rings {
		rings[i]++
	}
	return KeySheet{
		Rotors:       m.RotorNames(),
		RingSettings: rings,
		Reflector:    m.ReflectorName(),
		Plugboard:    m.PlugboardPairs(),
		Display:      m.Display(),
	}
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsLetter(s[i]) {
			return false
		}
	}
	return true
}
