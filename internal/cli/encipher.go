package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/session"
	"github.com/yan-zaretskiy/enigma-gui/internal/store"
)

// EncipherOptions holds flags for the encipher command.
type EncipherOptions struct {
	*RootOptions
	Machine  MachineFlags
	Replace  string // letter typed for characters without a key
	Groups   int    // output group size, 0 for none
	Database string // optional journal
}

// EncipherResult is the outcome of one encipher run.
type EncipherResult struct {
	Machine   string `json:"machine"`
	Input     string `json:"input"` // keys actually typed
	Output    string `json:"output"`
	Display   string `json:"display"`
	SessionID string `json:"session_id,omitempty"`
}

// NewEncipherCommand creates the encipher command.
func NewEncipherCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncipherOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "encipher [text...]",
		Aliases: []string{"enc", "decipher"},
		Short:   "Encipher (or decipher) text",
		Long: `Type text on a machine and print the lamp letters.

The machine is set up from flags or from a key sheet file. Text comes from
the arguments, or from stdin when there are none. Umlauts are spelled out,
accents are dropped, and characters without a key are skipped unless
--replace names a letter to type instead.

Enciphering is its own inverse: running the output through the same
settings gives back the input.

Exit codes:
  0 - Success
  2 - Command error (invalid settings, unreadable key sheet, etc.)

Examples:
  enigma encipher --rotors "II IV V" --rings "1 20 11" --plugboard "AV BS CG DL FU HZ IN KM OW RX" HELLOWORLD
  enigma encipher --keysheet day.yaml --display BLA --groups 5 < message.txt
  enigma encipher --replace X --db ./journal.db "Grüße aus Köln!"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncipher(opts, args, cmd)
		},
	}

	addMachineFlags(cmd, &opts.Machine)
	cmd.Flags().StringVar(&opts.Replace, "replace", "", "letter to type for characters without a key (default skip)")
	cmd.Flags().IntVar(&opts.Groups, "groups", 0, "split output into groups of n letters")
	cmd.Flags().StringVar(&opts.Database, "db", Env().Database, "journal the session to this SQLite database")

	return cmd
}

func runEncipher(opts *EncipherOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	textOpts, err := textOptions(opts.Replace, opts.Groups)
	if err != nil {
		return commandError(formatter, "invalid flags", err)
	}

	ks, err := opts.Machine.KeySheet(cmd)
	if err != nil {
		return commandError(formatter, "invalid key sheet", err)
	}

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return commandError(formatter, "failed to read stdin", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	sessOpts := []session.Option{session.WithLogger(slog.Default())}
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return commandError(formatter, "failed to open journal", &DatabaseError{Path: opts.Database, Err: err})
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		sessOpts = append(sessOpts, session.WithRecorder(st))
	}

	sess, err := session.New(ctx, ks, sessOpts...)
	if err != nil {
		return commandError(formatter, "invalid machine settings", err)
	}
	defer sess.Close()

	machine := sess.Machine()
	formatter.VerboseLog("machine: %s", machine)

	presses, err := sess.Type(ctx, text, textOpts...)
	if err != nil {
		return commandError(formatter, "failed to encipher", err)
	}

	input := make([]byte, len(presses))
	for i, p := range presses {
		input[i] = p.Input
	}
	result := EncipherResult{
		Machine: machine,
		Input:   string(input),
		Output:  enigma.Group(session.Lamps(presses), opts.Groups),
		Display: sess.Display(),
	}
	if opts.Database != "" {
		result.SessionID = sess.ID()
	}

	if opts.Format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result, SessionID: result.SessionID})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, result.Output)
	fmt.Fprintf(w, "%s %s\n", heading("Display:"), result.Display)
	if result.SessionID != "" {
		fmt.Fprintf(w, "%s %s\n", heading("Session:"), result.SessionID)
	}
	return nil
}

// textOptions validates --replace and --groups.
func textOptions(replace string, groups int) ([]enigma.TextOption, error) {
	var opts []enigma.TextOption
	if replace != "" {
		if len(replace) != 1 || !enigma.IsLetter(replace[0]) {
			return nil, fmt.Errorf("--replace must be a single letter, got %q", replace)
		}
		opts = append(opts, enigma.WithReplacement(replace[0]))
	}
	if groups < 0 {
		return nil, fmt.Errorf("--groups must be non-negative, got %d", groups)
	}
	return opts, nil
}

// commandError reports err in the configured format and returns an
// ExitError with ExitCommandError. In text mode the caller (main) prints it.
func commandError(f *OutputFormatter, message string, err error) error {
	if f.Format == "json" {
		code, details := errorCode(err)
		_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), details)
	}
	return WrapExitError(ExitCommandError, message, err)
}
