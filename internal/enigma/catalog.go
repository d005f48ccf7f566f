package enigma

import (
	"sort"
	"strings"
)

// Historical wheel and reflector wirings (Wehrmacht, Luftwaffe and
// Kriegsmarine M3/M4). Keyed by the name printed on key sheets.
var (
	rotorCatalog = map[string]RotorSpec{
		"I":     {Name: "I", Wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", Notches: "Q"},
		"II":    {Name: "II", Wiring: "AJDKSIRUXBLHWTMCQGZNPYFVOE", Notches: "E"},
		"III":   {Name: "III", Wiring: "BDFHJLCPRTXVZNYEIWGAKMUSQO", Notches: "V"},
		"IV":    {Name: "IV", Wiring: "ESOVPZJAYQUIRHXLNFTGKDCMWB", Notches: "J"},
		"V":     {Name: "V", Wiring: "VZBRGITYUPSDNHLXAWMJQOFECK", Notches: "Z"},
		"VI":    {Name: "VI", Wiring: "JPGVOUMFYQBENHZRDKASXLICTW", Notches: "ZM"},
		"VII":   {Name: "VII", Wiring: "NZJHGRCXMYSWBOUFAIVLPEKQDT", Notches: "ZM"},
		"VIII":  {Name: "VIII", Wiring: "FKQHTLXOCBJSPDZRAMEWNIUYGV", Notches: "ZM"},
		"Beta":  {Name: "Beta", Wiring: "LEYJVCNIXWPBQMDRTAKZGFUHOS"},
		"Gamma": {Name: "Gamma", Wiring: "FSOKANUERHMBTIYCWLQPZXVGJD"},
	}

	reflectorCatalog = map[string]ReflectorSpec{
		"A":      {Name: "A", Wiring: "EJMZALYXVBWFCRQUONTSPIKHGD"},
		"B":      {Name: "B", Wiring: "YRUHQSLDPXNGOKMIEBFZCWVJAT"},
		"C":      {Name: "C", Wiring: "FVPJIAOYEDRZXWGCTKUQSBNMHL"},
		"B-Thin": {Name: "B-Thin", Wiring: "ENKQAUYWJICOPBLMDXZVFTHRGS"},
		"C-Thin": {Name: "C-Thin", Wiring: "RDOBJNTKVEHMLFCWZAXGYIPSUQ"},
	}
)

// catalogOrder lists rotors in their conventional order for display.
var catalogOrder = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "Beta", "Gamma"}

// LookupRotor returns the catalog entry for a rotor name. Names match
// case-insensitively ("beta" finds Beta).
func LookupRotor(name string) (RotorSpec, error) {
	spec, ok := rotorCatalog[canonicalName(name, catalogOrder)]
	if !ok {
		return RotorSpec{}, newConfigError(ErrCodeUnknownComponent, "rotors", name, "unknown rotor")
	}
	return spec, nil
}

// LookupReflector returns the catalog entry for a reflector name, matched
// case-insensitively.
func LookupReflector(name string) (ReflectorSpec, error) {
	spec, ok := reflectorCatalog[canonicalName(name, ReflectorNames())]
	if !ok {
		return ReflectorSpec{}, newConfigError(ErrCodeUnknownComponent, "reflector", name, "unknown reflector")
	}
	return spec, nil
}

// RotorNames lists the catalog rotors in conventional order.
func RotorNames() []string {
	out := make([]string, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}

// ReflectorNames lists the catalog reflectors sorted by name.
func ReflectorNames() []string {
	out := make([]string, 0, len(reflectorCatalog))
	for name := range reflectorCatalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsGreekWheel reports whether name is a non-stepping fourth wheel.
func IsGreekWheel(name string) bool {
	return name == "Beta" || name == "Gamma"
}

// IsThinReflector reports whether name is a reflector made for the M4.
func IsThinReflector(name string) bool {
	return name == "B-Thin" || name == "C-Thin"
}

func canonicalName(name string, known []string) string {
	for _, k := range known {
		if strings.EqualFold(k, name) {
			return k
		}
	}
	return name
}
