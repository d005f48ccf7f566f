package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/keysheet"
)

// ValidationResult holds the outcome for one key sheet file.
type ValidationResult struct {
	File    string    `json:"file"`
	Valid   bool      `json:"valid"`
	Machine string    `json:"machine,omitempty"`
	Error   *CLIError `json:"error,omitempty"`

	// KeySheet is the key sheet re-rendered as canonical YAML (--print).
	KeySheet string `json:"keysheet,omitempty"`
}

// ValidateOptions holds validate command options.
type ValidateOptions struct {
	Print bool // Emit each valid key sheet in canonical YAML form
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <keysheet-file>...",
		Short: "Validate key sheet files",
		Long: `Load key sheet files and check that they describe a buildable machine.

Each file is parsed (.yaml, .yml or .cue), checked against the key sheet
schema and resolved against the rotor catalog. Every file is checked even
when an earlier one fails. With --print, each valid key sheet is written
back out as canonical YAML, which turns a CUE key sheet into a YAML one.

Exit codes:
  0 - All key sheets valid
  1 - At least one key sheet invalid`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Print, "print", false, "Print each valid key sheet as canonical YAML")

	return cmd
}

func runValidate(opts *RootOptions, vopts *ValidateOptions, files []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	results := make([]ValidationResult, 0, len(files))
	failed := 0
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		result := ValidateKeySheetFile(file, vopts.Print)
		if !result.Valid {
			failed++
		}
		results = append(results, result)
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: results}
		if failed > 0 {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeKeySheet,
				Message: fmt.Sprintf("%d of %d key sheet(s) invalid", failed, len(files)),
			}
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(formatter.Writer, "%s %s: %s\n", okMark(), r.File, r.Machine)
				if r.KeySheet != "" {
					writeIndented(formatter.Writer, r.KeySheet)
				}
				continue
			}
			fmt.Fprintf(formatter.Writer, "%s %s\n", failMark(), r.File)
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", r.Error.Code, r.Error.Message)
		}
	}

	if failed > 0 {
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d key sheet(s) invalid", failed, len(files)))
	}
	return nil
}

// ValidateKeySheetFile loads path and builds a machine from it. When render
// is set, a valid key sheet is also encoded back to YAML.
func ValidateKeySheetFile(path string, render bool) ValidationResult {
	result := ValidationResult{File: path}

	ks, err := keysheet.Load(path)
	if err == nil {
		var m *enigma.Machine
		m, err = enigma.FromKeySheet(ks)
		if err == nil {
			result.Valid = true
			result.Machine = m.String()
			if !render {
				return result
			}
			var data []byte
			if data, err = keysheet.EncodeYAML(ks); err == nil {
				result.KeySheet = string(data)
				return result
			}
			result.Valid = false
		}
	}

	code, details := errorCode(err)
	result.Error = &CLIError{Code: code, Message: err.Error(), Details: details}
	return result
}

func writeIndented(w io.Writer, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}
