package enigma

// RotorSpec describes a wheel independent of how it is mounted: its wiring
// and the display letters at which it carries the next wheel along.
type RotorSpec struct {
	Name    string
	Wiring  string
	Notches string // display letters, e.g. "Q" or "ZM"; empty for greek wheels
}

// Rotor is a mounted wheel: wiring plus ring setting, current position and
// notches.
//
// position is the display index (the letter in the window). The wiring sees
// the signal shifted by (position - ring), so two rotors with equal
// (position - ring) encipher identically but step at different times.
//
// INVARIANT: ring and position are always in [0, 26).
type Rotor struct {
	name     string
	wiring   Permutation
	ring     int
	position int
	notches  uint32 // bit i set: notch at display index i
}

// NewRotor mounts spec with the given ring setting and starting position
// (both zero-based indices).
func NewRotor(spec RotorSpec, ring, position int) (*Rotor, error) {
	wiring, err := PermutationFromMapping(spec.Wiring)
	if err != nil {
		return nil, withField(err, "rotor "+spec.Name)
	}
	if ring < 0 || ring >= AlphabetSize {
		return nil, newConfigError(ErrCodeOutOfRange, "rotor "+spec.Name, "",
			"ring setting %d outside [0,%d)", ring, AlphabetSize)
	}
	if position < 0 || position >= AlphabetSize {
		return nil, newConfigError(ErrCodeOutOfRange, "rotor "+spec.Name, "",
			"position %d outside [0,%d)", position, AlphabetSize)
	}

	var notches uint32
	for i := 0; i < len(spec.Notches); i++ {
		n, ok := Index(spec.Notches[i])
		if !ok {
			return nil, newConfigError(ErrCodeInvalidWiring, "rotor "+spec.Name, spec.Notches,
				"notch %q is not a letter", spec.Notches[i])
		}
		notches |= 1 << n
	}

	return &Rotor{
		name:     spec.Name,
		wiring:   wiring,
		ring:     ring,
		position: position,
		notches:  notches,
	}, nil
}

func (r *Rotor) offset() int {
	return mod26(r.position - r.ring)
}

// TranslateForward passes a signal toward the reflector.
func (r *Rotor) TranslateForward(signal int) int {
	o := r.offset()
	return mod26(r.wiring.Forward(mod26(signal+o)) - o)
}

// TranslateBackward passes a signal back from the reflector.
func (r *Rotor) TranslateBackward(signal int) int {
	o := r.offset()
	return mod26(r.wiring.Backward(mod26(signal+o)) - o)
}

// Step advances the rotor by one position.
func (r *Rotor) Step() {
	r.position = mod26(r.position + 1)
}

// AtNotch reports whether the current position is one of the notches.
func (r *Rotor) AtNotch() bool {
	return r.notches&(1<<r.position) != 0
}

// Name returns the catalog name the rotor was built from.
func (r *Rotor) Name() string { return r.name }

// Ring returns the zero-based ring setting.
func (r *Rotor) Ring() int { return r.ring }

// Position returns the zero-based display position.
func (r *Rotor) Position() int { return r.position }

func (r *Rotor) clone() *Rotor {
	cp := *r
	return &cp
}
