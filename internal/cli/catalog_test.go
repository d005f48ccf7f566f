package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Text(t *testing.T) {
	out, _, err := executeCommand(t, "", "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "EKMFLGDQVZNTOWYHXUSPAIBRCJ")
	assert.Contains(t, out, "ZM")
	assert.Contains(t, out, "(greek)")
	assert.Contains(t, out, "(thin)")
}

func TestCatalog_JSON(t *testing.T) {
	out, _, err := executeCommand(t, "", "catalog", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data CatalogResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Rotors, 10)
	require.Len(t, resp.Data.Reflectors, 5)

	assert.Equal(t, CatalogRotor{Name: "I", Wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ", Notches: "Q"}, resp.Data.Rotors[0])
	assert.Equal(t, CatalogRotor{Name: "Beta", Wiring: "LEYJVCNIXWPBQMDRTAKZGFUHOS", Greek: true}, resp.Data.Rotors[8])

	thin := 0
	for _, r := range resp.Data.Reflectors {
		if r.Thin {
			thin++
		}
	}
	assert.Equal(t, 2, thin)
}

func TestCatalog_RejectsArgs(t *testing.T) {
	_, _, err := executeCommand(t, "", "catalog", "extra")
	require.Error(t, err)
}
