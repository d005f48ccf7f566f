package enigma

import (
	"strconv"
	"strings"
)

// Plugboard swaps letters in pairs before and after the rotor path.
//
// INVARIANT: the wiring is self-inverse, so Swap serves both legs.
type Plugboard struct {
	wiring Permutation
	pairs  [][2]int
}

// NewPlugboard builds a plugboard from disjoint index pairs. A nil or empty
// slice gives the identity board.
func NewPlugboard(pairs [][2]int) (*Plugboard, error) {
	wiring, err := PermutationFromPairs(pairs)
	if err != nil {
		return nil, withField(err, "plugboard")
	}
	cp := make([][2]int, len(pairs))
	copy(cp, pairs)
	return &Plugboard{wiring: wiring, pairs: cp}, nil
}

// ParsePlugboard reads plugboard settings in either key-sheet notation:
//
//	"AV BS CG DL FU HZ IN KM OW RX"   (Heer / Luftwaffe letters)
//	"1/22 2/19 3/7"                   (Kriegsmarine, 1-based numbers)
//
// Pairs are separated by whitespace. It checks syntax only; disjointness is
// checked by NewPlugboard.
func ParsePlugboard(settings string) ([][2]int, error) {
	fields := strings.Fields(settings)
	pairs := make([][2]int, 0, len(fields))
	for _, f := range fields {
		var a, b int
		if lhs, rhs, ok := strings.Cut(f, "/"); ok {
			x, errA := strconv.Atoi(lhs)
			y, errB := strconv.Atoi(rhs)
			if errA != nil || errB != nil || x < 1 || x > AlphabetSize || y < 1 || y > AlphabetSize {
				return nil, newConfigError(ErrCodeInvalidPair, "plugboard", f,
					"numeric pairs must be two numbers in 1..%d", AlphabetSize)
			}
			a, b = x-1, y-1
		} else {
			if len(f) != 2 {
				return nil, newConfigError(ErrCodeInvalidPair, "plugboard", f,
					"letter pairs must be exactly two letters")
			}
			var okA, okB bool
			a, okA = Index(f[0])
			b, okB = Index(f[1])
			if !okA || !okB {
				return nil, newConfigError(ErrCodeInvalidPair, "plugboard", f,
					"pair contains a non-letter")
			}
		}
		pairs = append(pairs, [2]int{a, b})
	}
	return pairs, nil
}

// Swap returns the letter wired to signal, or signal itself if unplugged.
func (p *Plugboard) Swap(signal int) int {
	return p.wiring.Forward(signal)
}

// Pairs renders the board in letter notation, in configuration order.
func (p *Plugboard) Pairs() string {
	parts := make([]string, len(p.pairs))
	for i, pr := range p.pairs {
		parts[i] = string([]byte{Letter(pr[0]), Letter(pr[1])})
	}
	return strings.Join(parts, " ")
}
