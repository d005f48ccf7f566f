package enigma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_RotorsAreValid(t *testing.T) {
	for _, name := range RotorNames() {
		spec, err := LookupRotor(name)
		require.NoError(t, err)
		_, err = NewRotor(spec, 0, 0)
		assert.NoError(t, err, name)
	}
}

func TestCatalog_Names(t *testing.T) {
	assert.Equal(t, []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "Beta", "Gamma"}, RotorNames())
	assert.Equal(t, []string{"A", "B", "B-Thin", "C", "C-Thin"}, ReflectorNames())
}

func TestCatalog_Notches(t *testing.T) {
	want := map[string]string{"I": "Q", "II": "E", "III": "V", "IV": "J", "V": "Z", "VI": "ZM", "Beta": ""}
	for name, notches := range want {
		spec, err := LookupRotor(name)
		require.NoError(t, err)
		assert.Equal(t, notches, spec.Notches, name)
	}
}

func TestCatalog_Unknown(t *testing.T) {
	_, err := LookupRotor("IX")
	assert.Equal(t, ErrCodeUnknownComponent, ConfigErrorCodeOf(err))
	_, err = LookupReflector("Z")
	assert.Equal(t, ErrCodeUnknownComponent, ConfigErrorCodeOf(err))
}

func TestCatalog_RotorNamesIsACopy(t *testing.T) {
	names := RotorNames()
	names[0] = "changed"
	assert.Equal(t, "I", RotorNames()[0])
}
