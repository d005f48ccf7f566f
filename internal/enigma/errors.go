package enigma

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid machine configuration.
//
// It is the only error kind the engine produces, and only from construction
// (New, FromKeySheet, component constructors) or SetDisplay. Once a Machine
// exists, key presses cannot fail.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode `json:"code"`

	// Field names the configuration item at fault (e.g. "rotors[1]",
	// "plugboard", "display").
	Field string `json:"field,omitempty"`

	// Value is the offending input as written, when there is one.
	Value string `json:"value,omitempty"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidWiring indicates a wiring string is not a permutation
	// of the alphabet, or a reflector is not a fixed-point-free involution.
	ErrCodeInvalidWiring ConfigErrorCode = "INVALID_WIRING"

	// ErrCodeInvalidPair indicates a malformed, duplicate or self-referential
	// plugboard pair.
	ErrCodeInvalidPair ConfigErrorCode = "INVALID_PAIR"

	// ErrCodeCountMismatch indicates rotors, ring settings and positions do
	// not line up.
	ErrCodeCountMismatch ConfigErrorCode = "COUNT_MISMATCH"

	// ErrCodeOutOfRange indicates a ring setting or position outside [0, 26).
	ErrCodeOutOfRange ConfigErrorCode = "OUT_OF_RANGE"

	// ErrCodeUnknownComponent indicates a rotor or reflector id missing from
	// the catalog.
	ErrCodeUnknownComponent ConfigErrorCode = "UNKNOWN_COMPONENT"

	// ErrCodeInvalidCombination indicates components that exist but cannot
	// be mounted together (greek wheel outside the leftmost slot, thin
	// reflector on a three-rotor machine, the same wheel twice).
	ErrCodeInvalidCombination ConfigErrorCode = "INVALID_COMBINATION"

	// ErrCodeInvalidDisplay indicates a display string with non-letters or
	// the wrong length.
	ErrCodeInvalidDisplay ConfigErrorCode = "INVALID_DISPLAY"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: %s: %s (%q)", e.Code, e.Field, e.Message, e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConfigError reports whether err is, or wraps, a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ConfigErrorCodeOf returns the code of the *ConfigError in err's chain, or
// the empty code if there is none.
func ConfigErrorCodeOf(err error) ConfigErrorCode {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func newConfigError(code ConfigErrorCode, field, value, format string, args ...any) *ConfigError {
	return &ConfigError{
		Code:    code,
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}

// withField returns err with Field set when err is a *ConfigError that has
// none yet. Used by composite constructors to point at the failing slot.
func withField(err error, field string) error {
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Field == "" {
		cp := *ce
		cp.Field = field
		return &cp
	}
	return err
}
