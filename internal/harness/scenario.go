package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/keysheet"
)

// DefaultSessionID is used when a scenario does not name one.
const DefaultSessionID = "test-session-default"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// KeySheet is the machine under test, in key sheet file syntax.
	KeySheet keysheet.Document `yaml:"keysheet"`

	// Steps run in order against one session.
	Steps []Step `yaml:"steps"`

	// Assertions validate the whole run after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// SessionID is a fixed session ID for deterministic traces.
	// If empty, DefaultSessionID is used.
	SessionID string `yaml:"session_id,omitempty"`
}

// Step is one operator action, optionally followed by checks.
//
// A step either types text or sets the display (not both). Expect checks the
// lamps of the typed text; ExpectDisplay checks the window after the step and
// may stand alone.
type Step struct {
	// Type is text to type. It is normalized like any free text.
	Type string `yaml:"type,omitempty"`

	// Replace is the letter typed for characters without a key. Empty skips
	// them.
	Replace string `yaml:"replace,omitempty"`

	// Expect is the expected lamp output of Type. Spaces are ignored.
	Expect string `yaml:"expect,omitempty"`

	// SetDisplay turns the rotors without stepping.
	SetDisplay string `yaml:"set_display,omitempty"`

	// ExpectDisplay is the expected window after the step.
	ExpectDisplay string `yaml:"expect_display,omitempty"`
}

// Assertion validates a property of the whole run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "no_self_map": No key lights its own lamp at any state the machine passed through
	// - "involution": A fresh machine deciphers every press back to its input
	// - "replay_clean": The journal replays without divergences
	// - "press_count": Exactly Count keys were pressed
	// - "final_display": The window after the last step equals Display
	Type string `yaml:"type"`

	// Count is the expected number of presses (used by press_count).
	Count int `yaml:"count,omitempty"`

	// Display is the expected final window (used by final_display).
	Display string `yaml:"display,omitempty"`
}

// Assertion type constants.
const (
	AssertNoSelfMap    = "no_self_map"
	AssertInvolution   = "involution"
	AssertReplayClean  = "replay_clean"
	AssertPressCount   = "press_count"
	AssertFinalDisplay = "final_display"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "expect_dispaly:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Machine settings are checked by Run, which reports the engine's own error.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.KeySheet.Rotors) == 0 || s.KeySheet.Reflector == "" {
		return fmt.Errorf("keysheet: rotors and reflector are required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step Step) error {
	switch {
	case step.Type != "" && step.SetDisplay != "":
		return fmt.Errorf("steps[%d]: type and set_display are mutually exclusive", index)
	case step.Type == "" && step.SetDisplay == "" && step.ExpectDisplay == "":
		return fmt.Errorf("steps[%d]: one of type, set_display or expect_display is required", index)
	case step.Expect != "" && step.Type == "":
		return fmt.Errorf("steps[%d]: expect requires type", index)
	case step.Replace != "" && step.Type == "":
		return fmt.Errorf("steps[%d]: replace requires type", index)
	}

	if step.Replace != "" && (len(step.Replace) != 1 || !enigma.IsLetter(step.Replace[0])) {
		return fmt.Errorf("steps[%d]: replace must be a single letter, got %q", index, step.Replace)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertNoSelfMap, AssertInvolution, AssertReplayClean:
	case AssertPressCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for press_count", index)
		}
	case AssertFinalDisplay:
		if a.Display == "" {
			return fmt.Errorf("assertions[%d]: display is required for final_display", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
