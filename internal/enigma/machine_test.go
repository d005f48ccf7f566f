package enigma

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helloSheet is the setup of the original desktop simulator.
func helloSheet() KeySheet {
	return KeySheet{
		Rotors:       []string{"II", "IV", "V"},
		Reflector:    "B",
		RingSettings: []int{1, 20, 11},
		Plugboard:    barbarossaPlugs,
		Display:      "AAA",
	}
}

func mustMachine(t *testing.T, ks KeySheet) *Machine {
	t.Helper()
	m, err := FromKeySheet(ks)
	require.NoError(t, err)
	return m
}

func pressAll(m *Machine, text string) string {
	out := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = m.KeyPress(text[i])
	}
	return string(out)
}

func TestMachine_KnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		sheet KeySheet
		in    string
		want  string
	}{
		{
			name:  "I II III rings AAA",
			sheet: KeySheet{Rotors: []string{"I", "II", "III"}, Reflector: "B", Display: "AAA"},
			in:    "AAAAA",
			want:  "BDZGO",
		},
		{
			name:  "I II III rings BBB",
			sheet: KeySheet{Rotors: []string{"I", "II", "III"}, Reflector: "B", RingSettings: []int{2, 2, 2}, Display: "AAA"},
			in:    "AAAAA",
			want:  "EWTYX",
		},
		{
			name:  "I II III twenty presses",
			sheet: KeySheet{Rotors: []string{"I", "II", "III"}, Reflector: "B"},
			in:    strings.Repeat("A", 20),
			want:  "BDZGOWCXLTKSBTMCDLPB",
		},
		{
			name:  "desktop simulator setup",
			sheet: helloSheet(),
			in:    "HELLOWORLD",
			want:  "PBRVANVOCZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMachine(t, tt.sheet)
			assert.Equal(t, tt.want, pressAll(m, tt.in))
		})
	}
}

func TestMachine_Barbarossa(t *testing.T) {
	// Operation Barbarossa, 7 July 1941, first part.
	m := mustMachine(t, KeySheet{
		Rotors:       []string{"II", "IV", "V"},
		Reflector:    "B",
		RingSettings: []int{2, 21, 12},
		Plugboard:    barbarossaPlugs,
		Display:      "BLA",
	})

	ciphertext := "EDPUDNRGYSZRCXNUYTPOMRMBOFKTBZREZKMLXLVEFGUEYSIOZVEQMIKUBPMMYLKLTTDEISMDICAGYKUACTCDOMOHWXMUUIAUBSTSLRNBZSZWNRFXWFYSSXJZVIJHIDISHPRKLKAYUPADTXQSPINQMATLPIFSVKDASCTACDPBOPVHJK"
	want := "AUFKLXABTEILUNGXVONXKURTINOWAXKURTINOWAXNORDWESTLXSEBEZXSEBEZXUAFFLIEGERSTRASZERIQTUNGXDUBROWKIXDUBROWKIXOPOTSCHKAXOPOTSCHKAXUMXEINSAQTDREINULLXUHRANGETRETENXANGRIFFXINFXRGTX"

	assert.Equal(t, want, pressAll(m, ciphertext))
	assert.Equal(t, "BRS", m.Display())
}

func TestMachine_MessageInvolution(t *testing.T) {
	m1 := mustMachine(t, helloSheet())
	ciphertext := pressAll(m1, "HELLOWORLD")
	assert.Equal(t, "AAK", m1.Display())

	m2 := mustMachine(t, helloSheet())
	assert.Equal(t, "HELLOWORLD", pressAll(m2, ciphertext))
}

func TestMachine_Determinism(t *testing.T) {
	text := strings.Repeat("THEQUICKBROWNFOXJUMPSOVERTHELAZYDOG", 40)
	m1 := mustMachine(t, helloSheet())
	m2 := mustMachine(t, helloSheet())

	assert.Equal(t, pressAll(m1, text), pressAll(m2, text))
	assert.Equal(t, m1.Display(), m2.Display())
}

func TestMachine_NoSelfEncipherment(t *testing.T) {
	m := mustMachine(t, helloSheet())
	// Walk the machine through a full cycle of the right two rotors and,
	// at each state, check every letter on a clone.
	for press := 0; press < AlphabetSize*AlphabetSize; press++ {
		for s := 0; s < AlphabetSize; s++ {
			c := m.Clone()
			letter := Letter(s)
			assert.NotEqual(t, letter, c.KeyPress(letter))
		}
		m.KeyPress('A')
	}
}

func TestMachine_StateAlwaysAdvances(t *testing.T) {
	m := mustMachine(t, helloSheet())
	before := m.Display()
	m.KeyPress('X')
	assert.NotEqual(t, before, m.Display())
	assert.Equal(t, "AAB", m.Display())

	m.KeyPress('X')
	assert.Equal(t, "AAC", m.Display())
}

func TestMachine_LowerCaseInput(t *testing.T) {
	m1 := mustMachine(t, helloSheet())
	m2 := mustMachine(t, helloSheet())
	assert.Equal(t, pressAll(m1, "HELLO"), pressAll(m2, "hello"))
}

func TestMachine_KeyPressPanicsOnNonLetter(t *testing.T) {
	m := mustMachine(t, helloSheet())
	assert.Panics(t, func() { m.KeyPress('1') })
	assert.Equal(t, "AAA", m.Display(), "rejected key does not step")
}

func TestMachine_SetDisplay(t *testing.T) {
	m := mustMachine(t, helloSheet())
	require.NoError(t, m.SetDisplay("bla"))
	assert.Equal(t, "BLA", m.Display())
	assert.Equal(t, []int{1, 11, 0}, m.Positions())

	err := m.SetDisplay("AB")
	assert.Equal(t, ErrCodeInvalidDisplay, ConfigErrorCodeOf(err))
	err = m.SetDisplay("A1C")
	assert.Equal(t, ErrCodeInvalidDisplay, ConfigErrorCodeOf(err))
	assert.Equal(t, "BLA", m.Display())
}

func TestMachine_SetDisplayMatchesFreshMachine(t *testing.T) {
	used := mustMachine(t, helloSheet())
	pressAll(used, "SOMETRAFFIC")
	require.NoError(t, used.SetDisplay("AAA"))

	fresh := mustMachine(t, helloSheet())
	assert.Equal(t, pressAll(fresh, "HELLOWORLD"), pressAll(used, "HELLOWORLD"))
}

func TestMachine_Clone(t *testing.T) {
	m := mustMachine(t, helloSheet())
	c := m.Clone()
	pressAll(c, "ABC")
	assert.Equal(t, "AAA", m.Display())
	assert.Equal(t, "AAD", c.Display())
}

func TestMachine_String(t *testing.T) {
	m := mustMachine(t, helloSheet())
	assert.Equal(t, "B II-IV-V 01-20-11 AAA", m.String())
}

func TestNew_Validation(t *testing.T) {
	one, err := LookupRotor("I")
	require.NoError(t, err)
	refl, err := LookupReflector("B")
	require.NoError(t, err)

	tests := []struct {
		name string
		cfg  Config
		code ConfigErrorCode
	}{
		{
			name: "no rotors",
			cfg:  Config{Reflector: refl},
			code: ErrCodeCountMismatch,
		},
		{
			name: "ring count mismatch",
			cfg:  Config{Rotors: []RotorSpec{one, one}, RingSettings: []int{0}, Reflector: refl},
			code: ErrCodeCountMismatch,
		},
		{
			name: "position count mismatch",
			cfg:  Config{Rotors: []RotorSpec{one}, RingSettings: []int{0}, Positions: []int{0, 0}, Reflector: refl},
			code: ErrCodeCountMismatch,
		},
		{
			name: "ring out of range",
			cfg:  Config{Rotors: []RotorSpec{one}, RingSettings: []int{26}, Reflector: refl},
			code: ErrCodeOutOfRange,
		},
		{
			name: "position out of range",
			cfg:  Config{Rotors: []RotorSpec{one}, RingSettings: []int{0}, Positions: []int{-1}, Reflector: refl},
			code: ErrCodeOutOfRange,
		},
		{
			name: "bad rotor wiring",
			cfg:  Config{Rotors: []RotorSpec{{Name: "X", Wiring: "ABCDEFGHIJKLMNOPQRSTUVWXYY"}}, RingSettings: []int{0}, Reflector: refl},
			code: ErrCodeInvalidWiring,
		},
		{
			name: "bad reflector",
			cfg:  Config{Rotors: []RotorSpec{one}, RingSettings: []int{0}, Reflector: ReflectorSpec{Name: "R", Wiring: one.Wiring}},
			code: ErrCodeInvalidWiring,
		},
		{
			name: "duplicate plug",
			cfg:  Config{Rotors: []RotorSpec{one}, RingSettings: []int{0}, Reflector: refl, PlugboardPairs: [][2]int{{0, 1}, {0, 2}}},
			code: ErrCodeInvalidPair,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, IsConfigError(err))
			assert.Equal(t, tt.code, ConfigErrorCodeOf(err))
		})
	}
}
