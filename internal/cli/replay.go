package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	SessionID string // optional - specific session only
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions      []*store.ReplayReport `json:"sessions"`
	TotalSessions int                   `json:"total_sessions"`
	AllClean      bool                  `json:"all_clean"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify them",
		Long: `Replay the journal and check every session against a fresh machine.

Each session's machine is rebuilt from its stored key sheet, every journaled
key press and display change is applied again in order, and the lamps and
windows are compared with what was recorded.

Exit codes:
  0 - All sessions replay cleanly
  1 - Divergences detected
  2 - Command error (database not found, etc.)

Examples:
  enigma replay --db ./journal.db
  enigma replay --db ./journal.db --session 0192f3a0-...
  enigma replay --db ./journal.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", Env().Database, "path to SQLite journal (default $ENIGMA_DB)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openJournal(opts.Database)
	if err != nil {
		return commandError(formatter, "failed to open journal", err)
	}
	defer st.Close()

	var reports []*store.ReplayReport
	if opts.SessionID != "" {
		report, err := st.ReplaySession(ctx, opts.SessionID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return commandError(formatter, fmt.Sprintf("session %s", opts.SessionID), err)
			}
			return commandError(formatter, fmt.Sprintf("failed to replay session %s", opts.SessionID), err)
		}
		reports = []*store.ReplayReport{report}
	} else {
		reports, err = st.ReplayAll(ctx)
		if err != nil {
			return commandError(formatter, "failed to replay journal", err)
		}
	}

	result := ReplayResult{
		Sessions:      reports,
		TotalSessions: len(reports),
		AllClean:      true,
	}
	for _, r := range reports {
		if !r.OK() {
			result.AllClean = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// openJournal opens an existing journal. Unlike store.Open it refuses to
// create a missing database. Errors are *DatabaseError.
func openJournal(path string) (*store.Store, error) {
	if path == "" {
		return nil, &DatabaseError{Err: errNoJournal}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &DatabaseError{Path: path, Err: fmt.Errorf("database not found: %w", err)}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &DatabaseError{Path: path, Err: err}
	}
	return st, nil
}

var errNoJournal = errors.New("no journal: pass --db or set ENIGMA_DB")

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	if result.Sessions == nil {
		result.Sessions = []*store.ReplayReport{}
	}
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllClean {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeReplay,
			Message: "replay diverged from journal",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllClean {
		return NewExitError(ExitFailure, "replay diverged from journal")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, r := range result.Sessions {
		status := okMark()
		if !r.OK() {
			status = failMark()
		}

		fmt.Fprintf(w, "%s Session: %s\n", status, r.SessionID)
		fmt.Fprintf(w, "  Machine: %s\n", r.Machine)
		if verbose {
			fmt.Fprintf(w, "  Events: %d\n", r.Events)
			fmt.Fprintf(w, "  Presses: %d\n", r.Presses)
			fmt.Fprintf(w, "  Final display: %s\n", r.FinalDisplay)
		} else {
			fmt.Fprintf(w, "  Events: %d presses, final display %s\n", r.Presses, r.FinalDisplay)
		}

		for _, d := range r.Divergences {
			fmt.Fprintf(w, "  %s\n", d)
		}
		fmt.Fprintln(w)
	}

	if result.AllClean {
		fmt.Fprintf(w, "%s All sessions replay cleanly\n", okMark())
		return nil
	}

	fmt.Fprintf(w, "%s Replay diverged from journal\n", failMark())
	return NewExitError(ExitFailure, "replay diverged from journal")
}
