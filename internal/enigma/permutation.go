package enigma

import "fmt"

// Permutation is an invertible mapping over the alphabet.
//
// INVARIANT: forward is a bijection on [0, 26) and
// backward[forward[i]] == i for every i. The zero value is not valid;
// build permutations with PermutationFromMapping, PermutationFromPairs or
// IdentityPermutation.
type Permutation struct {
	forward  [AlphabetSize]uint8
	backward [AlphabetSize]uint8
}

// IdentityPermutation maps every letter to itself.
func IdentityPermutation() Permutation {
	var p Permutation
	for i := 0; i < AlphabetSize; i++ {
		p.forward[i] = uint8(i)
		p.backward[i] = uint8(i)
	}
	return p
}

// PermutationFromMapping builds a permutation from a 26-letter string where
// the i-th letter is the image of the i-th alphabet letter. Lower case is
// accepted.
func PermutationFromMapping(mapping string) (Permutation, error) {
	var p Permutation
	if len(mapping) != AlphabetSize {
		return p, newConfigError(ErrCodeInvalidWiring, "", mapping,
			"wiring must have %d letters, got %d", AlphabetSize, len(mapping))
	}

	var seen [AlphabetSize]bool
	for i := 0; i < AlphabetSize; i++ {
		j, ok := Index(mapping[i])
		if !ok {
			return p, newConfigError(ErrCodeInvalidWiring, "", mapping,
				"symbol %q at position %d is not in the alphabet", mapping[i], i)
		}
		if seen[j] {
			return p, newConfigError(ErrCodeInvalidWiring, "", mapping,
				"letter %c appears more than once", Letter(j))
		}
		seen[j] = true
		p.forward[i] = uint8(j)
		p.backward[j] = uint8(i)
	}
	return p, nil
}

// PermutationFromPairs builds a self-inverse permutation that swaps each
// pair and fixes every other letter.
func PermutationFromPairs(pairs [][2]int) (Permutation, error) {
	p := IdentityPermutation()
	var used [AlphabetSize]bool
	for _, pr := range pairs {
		a, b := pr[0], pr[1]
		if a < 0 || a >= AlphabetSize || b < 0 || b >= AlphabetSize {
			return p, newConfigError(ErrCodeInvalidPair, "", fmt.Sprintf("%d/%d", a, b),
				"pair index out of range")
		}
		name := string([]byte{Letter(a), Letter(b)})
		if a == b {
			return p, newConfigError(ErrCodeInvalidPair, "", name,
				"letter %c is paired with itself", Letter(a))
		}
		for _, x := range pr {
			if used[x] {
				return p, newConfigError(ErrCodeInvalidPair, "", name,
					"letter %c appears in more than one pair", Letter(x))
			}
			used[x] = true
		}
		p.forward[a], p.forward[b] = uint8(b), uint8(a)
		p.backward[a], p.backward[b] = uint8(b), uint8(a)
	}
	return p, nil
}

// Forward returns the image of i.
func (p Permutation) Forward(i int) int {
	return int(p.forward[i])
}

// Backward returns the pre-image of i.
func (p Permutation) Backward(i int) int {
	return int(p.backward[i])
}

// IsInvolution reports whether applying the permutation twice is the
// identity.
func (p Permutation) IsInvolution() bool {
	for i := 0; i < AlphabetSize; i++ {
		if p.forward[p.forward[i]] != uint8(i) {
			return false
		}
	}
	return true
}

// FixedPoints returns the indices that map to themselves, in order.
func (p Permutation) FixedPoints() []int {
	var fixed []int
	for i := 0; i < AlphabetSize; i++ {
		if p.forward[i] == uint8(i) {
			fixed = append(fixed, i)
		}
	}
	return fixed
}

// String renders the forward mapping as 26 letters.
func (p Permutation) String() string {
	b := make([]byte, AlphabetSize)
	for i := range b {
		b[i] = Letter(int(p.forward[i]))
	}
	return string(b)
}
