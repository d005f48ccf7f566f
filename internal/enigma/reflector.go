package enigma

// ReflectorSpec names a reflector wiring.
type ReflectorSpec struct {
	Name   string
	Wiring string
}

// Reflector sends the signal back through the rotors. It has no moving
// state.
//
// INVARIANT: the wiring is an involution with no fixed point, which is what
// keeps any letter from enciphering to itself.
type Reflector struct {
	name   string
	wiring Permutation
}

// NewReflector validates spec and builds the reflector.
func NewReflector(spec ReflectorSpec) (*Reflector, error) {
	wiring, err := PermutationFromMapping(spec.Wiring)
	if err != nil {
		return nil, withField(err, "reflector "+spec.Name)
	}
	if !wiring.IsInvolution() {
		return nil, newConfigError(ErrCodeInvalidWiring, "reflector "+spec.Name, spec.Wiring,
			"reflector wiring must be self-inverse")
	}
	if fixed := wiring.FixedPoints(); len(fixed) > 0 {
		return nil, newConfigError(ErrCodeInvalidWiring, "reflector "+spec.Name, spec.Wiring,
			"letter %c reflects to itself", Letter(fixed[0]))
	}
	return &Reflector{name: spec.Name, wiring: wiring}, nil
}

// Reflect maps a signal to its partner.
func (r *Reflector) Reflect(signal int) int {
	return r.wiring.Forward(signal)
}

// Name returns the reflector's catalog name.
func (r *Reflector) Name() string { return r.name }
