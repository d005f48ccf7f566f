package enigma

// maxPawls is the number of stepping pawls on the historical machines. On a
// four-rotor machine the leftmost (greek) wheel has no pawl and never moves.
const maxPawls = 3

// RotorStack is the ordered set of rotors between plugboard and reflector.
// Index 0 is the leftmost, slowest rotor; the last index is the rightmost,
// fastest rotor that the signal enters first.
type RotorStack struct {
	rotors []*Rotor
	pawls  int
	flags  []bool // scratch for Step, len(rotors)
}

// NewRotorStack takes ownership of rotors, leftmost first.
func NewRotorStack(rotors []*Rotor) (*RotorStack, error) {
	if len(rotors) == 0 {
		return nil, newConfigError(ErrCodeCountMismatch, "rotors", "", "at least one rotor is required")
	}
	pawls := len(rotors)
	if pawls > maxPawls {
		pawls = maxPawls
	}
	return &RotorStack{
		rotors: rotors,
		pawls:  pawls,
		flags:  make([]bool, len(rotors)),
	}, nil
}

// Len returns the number of rotors.
func (s *RotorStack) Len() int { return len(s.rotors) }

// Rotor returns the rotor at index i, leftmost first.
func (s *RotorStack) Rotor(i int) *Rotor { return s.rotors[i] }

// Step advances the stack once, as the keyboard does before every
// encipherment.
//
// For the pawled rotor at distance d from the right:
//   - d == 0 always steps;
//   - d > 0 steps if its right neighbour is at a notch;
//   - a rotor that has a pawl on its left as well (the middle rotor) also
//     steps when it is itself at a notch. That pawl pushes the notch and
//     drags the rotor along with its left neighbour: the double step.
//
// All flags are computed from pre-step positions before any rotor moves.
func (s *RotorStack) Step() {
	n := len(s.rotors)
	for i := range s.flags {
		s.flags[i] = false
	}
	for d := 0; d < s.pawls; d++ {
		i := n - 1 - d
		if d == 0 {
			s.flags[i] = true
			continue
		}
		carry := s.rotors[i+1].AtNotch()
		doubleStep := d < s.pawls-1 && s.rotors[i].AtNotch()
		s.flags[i] = carry || doubleStep
	}
	for i, step := range s.flags {
		if step {
			s.rotors[i].Step()
		}
	}
}

// TransitForward carries a signal from the plugboard side to the reflector
// side, rightmost rotor first.
func (s *RotorStack) TransitForward(signal int) int {
	for i := len(s.rotors) - 1; i >= 0; i-- {
		signal = s.rotors[i].TranslateForward(signal)
	}
	return signal
}

// TransitBackward carries a signal from the reflector back to the plugboard
// side, leftmost rotor first.
func (s *RotorStack) TransitBackward(signal int) int {
	for _, r := range s.rotors {
		signal = r.TranslateBackward(signal)
	}
	return signal
}

// Positions returns the current rotor positions, leftmost first.
func (s *RotorStack) Positions() []int {
	out := make([]int, len(s.rotors))
	for i, r := range s.rotors {
		out[i] = r.position
	}
	return out
}

// SetPositions overwrites every rotor position without stepping. Nothing is
// changed if any value is rejected.
func (s *RotorStack) SetPositions(positions []int) error {
	if len(positions) != len(s.rotors) {
		return newConfigError(ErrCodeCountMismatch, "positions", "",
			"got %d positions for %d rotors", len(positions), len(s.rotors))
	}
	for i, p := range positions {
		if p < 0 || p >= AlphabetSize {
			return newConfigError(ErrCodeOutOfRange, "positions", "",
				"position %d of rotor %d outside [0,%d)", p, i, AlphabetSize)
		}
	}
	for i, p := range positions {
		s.rotors[i].position = p
	}
	return nil
}

func (s *RotorStack) clone() *RotorStack {
	rotors := make([]*Rotor, len(s.rotors))
	for i, r := range s.rotors {
		rotors[i] = r.clone()
	}
	return &RotorStack{
		rotors: rotors,
		pawls:  s.pawls,
		flags:  make([]bool, len(rotors)),
	}
}
