package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/keysheet"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Test/validation failure (scenarios failed, replay divergences, etc.)
	ExitCommandError = 2 // Command error (invalid settings, database not found, etc.)
)

// Error codes for JSON error responses.
const (
	ErrCodeGeneric    = "E_GENERIC"
	ErrCodeConfig     = "E_CONFIG"
	ErrCodeKeySheet   = "E_KEYSHEET"
	ErrCodeDatabase   = "E_DATABASE"
	ErrCodeReplay     = "E_REPLAY"
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// DatabaseError reports a journal that could not be found or opened.
type DatabaseError struct {
	Path string // empty when no journal was configured
	Err  error
}

func (e *DatabaseError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string      `json:"status"`               // "ok" or "error"
	Data      interface{} `json:"data,omitempty"`       // success payload
	Error     *CLIError   `json:"error,omitempty"`      // error details
	SessionID string      `json:"session_id,omitempty"` // journaled session, if any
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E_CONFIG", "E_KEYSHEET", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		encoder := json.NewEncoder(f.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// errorCode classifies err for JSON error responses. Engine and key sheet
// errors carry their own codes in Details.
func errorCode(err error) (string, interface{}) {
	var cfgErr *enigma.ConfigError
	if errors.As(err, &cfgErr) {
		return ErrCodeConfig, cfgErr
	}
	var loadErr *keysheet.LoadError
	if errors.As(err, &loadErr) {
		return ErrCodeKeySheet, map[string]string{"code": loadErr.Code, "path": loadErr.Path}
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		if dbErr.Path == "" {
			return ErrCodeDatabase, nil
		}
		return ErrCodeDatabase, map[string]string{"path": dbErr.Path}
	}
	return ErrCodeGeneric, nil
}

// okMark and failMark are the status marks of text output. Color is dropped
// automatically when stdout is not a terminal or NO_COLOR is set.
func okMark() string {
	return color.GreenString("✓")
}

func failMark() string {
	return color.RedString("✗")
}

func heading(s string) string {
	return color.CyanString(s)
}
