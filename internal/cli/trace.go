package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yan-zaretskiy/enigma-gui/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	SessionID string
	Kind      string // optional - filter to "press" or "display"
}

// TraceEvent represents a single event in the trace timeline.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"` // "press" or "display"
	Input   string `json:"input,omitempty"`
	Output  string `json:"output,omitempty"`
	Display string `json:"display"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	SessionID string       `json:"session_id"`
	Machine   string       `json:"machine"`
	CreatedAt string       `json:"created_at"`
	Timeline  []TraceEvent `json:"timeline"`
	Stats     TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalEvents int    `json:"total_events"`
	Presses     int    `json:"presses"`
	Displays    int    `json:"displays"`
	Lamps       string `json:"lamps"` // output letters in order
}

// SessionSummary is one line of the session listing.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Machine   string `json:"machine"`
	CreatedAt string `json:"created_at"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a session",
		Long: `Show journaled sessions and their events.

Without --session, lists every session in the journal. With --session,
prints the session's timeline: each key press with the lamp it lit and
each display change, with the window letters after the event.

Examples:
  enigma trace --db ./journal.db
  enigma trace --db ./journal.db --session 0192f3a0-...
  enigma trace --db ./journal.db --session 0192f3a0-... --kind display --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", Env().Database, "path to SQLite journal (default $ENIGMA_DB)")
	cmd.Flags().StringVar(&opts.SessionID, "session", "", "session to trace (default: list sessions)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one event kind (press|display)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
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

	if opts.Kind != "" && opts.Kind != string(store.EventPress) && opts.Kind != string(store.EventDisplay) {
		return commandError(formatter, "invalid --kind",
			fmt.Errorf("%q: must be press or display", opts.Kind))
	}

	st, err := openJournal(opts.Database)
	if err != nil {
		return commandError(formatter, "failed to open journal", err)
	}
	defer st.Close()

	if opts.SessionID == "" {
		return listSessions(ctx, st, formatter)
	}

	rec, err := st.ReadSession(ctx, opts.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return commandError(formatter, fmt.Sprintf("session %s", opts.SessionID), err)
		}
		return commandError(formatter, "failed to read session", err)
	}
	events, err := st.ReadEvents(ctx, opts.SessionID)
	if err != nil {
		return commandError(formatter, "failed to read events", err)
	}

	result := TraceResult{
		SessionID: rec.ID,
		Machine:   rec.Machine,
		CreatedAt: rec.CreatedAt,
		Timeline:  buildTimeline(events, opts.Kind),
	}
	result.Stats = traceStats(events)

	if opts.Format == "json" {
		return outputTraceJSON(cmd, result)
	}
	return outputTraceText(cmd, result, opts.Verbose)
}

func listSessions(ctx context.Context, st *store.Store, f *OutputFormatter) error {
	records, err := st.ListSessions(ctx)
	if err != nil {
		return commandError(f, "failed to list sessions", err)
	}

	summaries := make([]SessionSummary, len(records))
	for i, rec := range records {
		summaries[i] = SessionSummary{SessionID: rec.ID, Machine: rec.Machine, CreatedAt: rec.CreatedAt}
	}

	if f.Format == "json" {
		return f.Success(summaries)
	}

	w := f.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%s  %s  %s\n", s.SessionID, s.CreatedAt, s.Machine)
	}
	return nil
}

// buildTimeline converts journal events to trace events, keeping only
// kindFilter when it is set.
func buildTimeline(events []store.EventRecord, kindFilter string) []TraceEvent {
	timeline := []TraceEvent{}
	for _, ev := range events {
		if kindFilter != "" && string(ev.Kind) != kindFilter {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:     ev.Seq,
			Type:    string(ev.Kind),
			Input:   ev.Input,
			Output:  ev.Output,
			Display: ev.Display,
		})
	}
	return timeline
}

// traceStats summarizes the unfiltered events.
func traceStats(events []store.EventRecord) TraceStats {
	stats := TraceStats{TotalEvents: len(events)}
	var lamps []byte
	for _, ev := range events {
		switch ev.Kind {
		case store.EventPress:
			stats.Presses++
			lamps = append(lamps, ev.Output...)
		case store.EventDisplay:
			stats.Displays++
		}
	}
	stats.Lamps = string(lamps)
	return stats
}

// outputTraceJSON outputs the trace result as JSON.
func outputTraceJSON(cmd *cobra.Command, result TraceResult) error {
	response := CLIResponse{
		Status:    "ok",
		Data:      result,
		SessionID: result.SessionID,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// outputTraceText outputs the trace result as text.
func outputTraceText(cmd *cobra.Command, result TraceResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Trace for Session: %s\n", result.SessionID)
	fmt.Fprintf(w, "Machine: %s\n", result.Machine)
	if verbose {
		fmt.Fprintf(w, "Created: %s\n", result.CreatedAt)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, heading("=== Timeline ==="))
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	} else {
		for _, event := range result.Timeline {
			formatTimelineEvent(w, event)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, heading("=== Stats ==="))
	fmt.Fprintf(w, "  Total Events: %d\n", result.Stats.TotalEvents)
	fmt.Fprintf(w, "  Presses:      %d\n", result.Stats.Presses)
	fmt.Fprintf(w, "  Displays:     %d\n", result.Stats.Displays)
	if verbose {
		fmt.Fprintf(w, "  Lamps:        %s\n", result.Stats.Lamps)
	}

	return nil
}

// formatTimelineEvent formats a single timeline event for text output.
func formatTimelineEvent(w io.Writer, event TraceEvent) {
	switch event.Type {
	case string(store.EventPress):
		fmt.Fprintf(w, "  [%d] KEY %s -> %s  %s\n", event.Seq, event.Input, event.Output, event.Display)
	case string(store.EventDisplay):
		fmt.Fprintf(w, "  [%d] SET %s\n", event.Seq, event.Display)
	}
}
