package keysheet

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// Document is the on-disk shape of a key sheet. List fields accept either a
// YAML sequence or a single space-separated string.
//
// Document is embedded by other file formats (harness scenarios) so that a
// key sheet reads the same everywhere.
type Document struct {
	Rotors       List   `yaml:"rotors"`
	Reflector    string `yaml:"reflector"`
	RingSettings List   `yaml:"ring_settings,omitempty"`
	Plugboard    List   `yaml:"plugboard,omitempty"`
	Display      string `yaml:"display,omitempty"`
}

// List is a YAML scalar or sequence of scalars.
type List []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = List{n.Value}
		return nil
	case yaml.SequenceNode:
		out := make(List, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: list items must be scalars", c.Line)
			}
			out = append(out, c.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list", n.Line)
	}
}

func (l List) joined() string {
	return strings.Join(l, " ")
}

// KeySheet converts the document to engine settings.
func (d Document) KeySheet() (enigma.KeySheet, error) {
	rings, err := enigma.ParseRingSettings(d.RingSettings.joined())
	if err != nil {
		return enigma.KeySheet{}, err
	}
	return enigma.KeySheet{
		Rotors:       enigma.ParseRotors(d.Rotors.joined()),
		RingSettings: rings,
		Reflector:    d.Reflector,
		Plugboard:    d.Plugboard.joined(),
		Display:      d.Display,
	}, nil
}

// DocumentFromKeySheet renders ks in the canonical document form.
func DocumentFromKeySheet(ks enigma.KeySheet) Document {
	rings := make(List, len(ks.RingSettings))
	for i, r := range ks.RingSettings {
		rings[i] = fmt.Sprintf("%d", r)
	}
	var plugs List
	if ks.Plugboard != "" {
		plugs = List{ks.Plugboard}
	}
	return Document{
		Rotors:       List(append([]string(nil), ks.Rotors...)),
		Reflector:    ks.Reflector,
		RingSettings: rings,
		Plugboard:    plugs,
		Display:      ks.Display,
	}
}

// DecodeYAML parses a YAML key sheet, rejecting unknown fields.
func DecodeYAML(data []byte) (enigma.KeySheet, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return enigma.KeySheet{}, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Err: err}
	}
	if len(doc.Rotors) == 0 || doc.Reflector == "" {
		return enigma.KeySheet{}, &LoadError{Code: ErrCodeSchemaViolation, Message: "rotors and reflector are required"}
	}
	ks, err := doc.KeySheet()
	if err != nil {
		return enigma.KeySheet{}, &LoadError{Code: ErrCodeSchemaViolation, Message: err.Error(), Err: err}
	}
	return ks, nil
}

// EncodeYAML renders ks as a YAML key sheet that DecodeYAML reads back.
func EncodeYAML(ks enigma.KeySheet) ([]byte, error) {
	return yaml.Marshal(DocumentFromKeySheet(ks))
}
