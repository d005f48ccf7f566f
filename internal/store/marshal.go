package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// marshalKeySheet converts a key sheet to JSON TEXT for storage.
// HTML escaping is disabled so stored sheets read the same as CLI output.
func marshalKeySheet(ks enigma.KeySheet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ks); err != nil {
		return "", fmt.Errorf("marshal key sheet: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalKeySheet parses JSON TEXT written by marshalKeySheet.
func unmarshalKeySheet(data string) (enigma.KeySheet, error) {
	var ks enigma.KeySheet
	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ks); err != nil {
		return enigma.KeySheet{}, fmt.Errorf("unmarshal key sheet: %w", err)
	}
	return ks, nil
}
