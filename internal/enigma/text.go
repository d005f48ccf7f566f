package enigma

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// German operators spelled umlauts out; everything else loses its accents.
var umlautReplacer = strings.NewReplacer(
	"Ä", "AE", "Ö", "OE", "Ü", "UE",
	"ä", "AE", "ö", "OE", "ü", "UE",
	"ß", "SS", "ẞ", "SS",
)

// Normalize prepares free text for the keyboard: composes the text (NFC),
// spells out umlauts and sharp s, strips remaining diacritics and upper-cases
// the result. Characters with no keyboard equivalent are kept as-is; the
// caller decides whether to skip or replace them.
func Normalize(text string) string {
	text = umlautReplacer.Replace(norm.NFC.String(text))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return strings.ToUpper(stripped)
}

type textOptions struct {
	replacement byte
	groups      int
}

// TextOption configures ProcessText.
type TextOption func(*textOptions)

// WithReplacement enciphers letter r in place of every character that is not
// on the keyboard, instead of skipping it. Historical traffic used X.
func WithReplacement(r byte) TextOption {
	return func(o *textOptions) {
		if i, ok := Index(r); ok {
			o.replacement = Letter(i)
		}
	}
}

// WithGroups splits the output into space-separated groups of n letters.
func WithGroups(n int) TextOption {
	return func(o *textOptions) {
		o.groups = n
	}
}

// Keys normalizes text and returns the keyboard letters it types, in order.
// Characters with no key are skipped, or replaced when WithReplacement is
// given. WithGroups has no effect here.
func Keys(text string, opts ...TextOption) []byte {
	o := applyTextOptions(opts)
	return o.keys(text)
}

// Group splits s into space-separated groups of n letters. n <= 0 returns s.
func Group(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/n)
	for i := 0; i < len(s); i += n {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i:min(i+n, len(s))])
	}
	return b.String()
}

// ProcessText normalizes text and presses every letter in order, returning
// the lamp letters. It is the validating counterpart of KeyPress.
func (m *Machine) ProcessText(text string, opts ...TextOption) string {
	o := applyTextOptions(opts)
	keys := o.keys(text)
	out := make([]byte, len(keys))
	for i, k := range keys {
		out[i] = m.KeyPress(k)
	}
	return Group(string(out), o.groups)
}

func applyTextOptions(opts []TextOption) textOptions {
	var o textOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o textOptions) keys(text string) []byte {
	normalized := Normalize(text)
	keys := make([]byte, 0, len(normalized))
	for _, r := range normalized {
		switch {
		case r < unicode.MaxASCII && IsLetter(byte(r)):
			keys = append(keys, byte(r))
		case o.replacement != 0:
			keys = append(keys, o.replacement)
		}
	}
	return keys
}
