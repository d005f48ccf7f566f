package session

import (
	"errors"
	"fmt"
)

// ErrInvalidKey is returned when a key press is not an ASCII letter.
var ErrInvalidKey = errors.New("invalid key")

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// RecordError wraps a journal failure. The machine has already stepped when a
// RecordError is returned; the press itself happened.
type RecordError struct {
	SessionID string
	Seq       int64
	Err       error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("session %s: record seq %d: %v", e.SessionID, e.Seq, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// IsRecordError reports whether err is or wraps a *RecordError.
func IsRecordError(err error) bool {
	var re *RecordError
	return errors.As(err, &re)
}
