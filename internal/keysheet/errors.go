package keysheet

import (
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for key sheet loading.
const (
	ErrCodeReadFailed        = "READ_FAILED"
	ErrCodeParseFailed       = "PARSE_FAILED"
	ErrCodeSchemaViolation   = "SCHEMA_VIOLATION"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// LoadError reports a key sheet file that could not be read or decoded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
