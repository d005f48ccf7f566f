package enigma

// AlphabetSize is the number of letters on the keyboard and on every wheel.
const AlphabetSize = 26

// Alphabet is the keyboard in index order.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// letterIndex maps a byte to its alphabet index plus one; zero means the
// byte is not a letter. Lower case folds onto upper case.
var letterIndex = func() [256]uint8 {
	var t [256]uint8
	for i := 0; i < AlphabetSize; i++ {
		t['A'+i] = uint8(i + 1)
		t['a'+i] = uint8(i + 1)
	}
	return t
}()

// Index returns the alphabet index of letter and whether it is a letter.
func Index(letter byte) (int, bool) {
	v := letterIndex[letter]
	if v == 0 {
		return 0, false
	}
	return int(v - 1), true
}

// Letter returns the upper-case letter at index i. i must be in [0, 26).
func Letter(i int) byte {
	return Alphabet[i]
}

// IsLetter reports whether b is an ASCII letter.
func IsLetter(b byte) bool {
	return letterIndex[b] != 0
}

// mod26 folds any integer into [0, 26).
func mod26(i int) int {
	i %= AlphabetSize
	if i < 0 {
		i += AlphabetSize
	}
	return i
}
