package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/session"
	"github.com/yan-zaretskiy/enigma-gui/internal/store"
)

// Harness is the test execution engine.
// It runs one scenario in one session with a fixed session ID.
type Harness struct {
	store   *store.Store
	session *session.Session
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory journal for isolation.
//
// Execution flow:
// 1. Create fresh in-memory journal
// 2. Build the machine from the scenario key sheet and open a session
// 3. Execute steps, checking expectations as they come
// 4. Evaluate assertions over the whole run
//
// Step and assertion failures are reported in the result. An error means
// the scenario could not run at all (bad key sheet, broken journal).
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ks, err := scenario.KeySheet.KeySheet()
	if err != nil {
		return nil, fmt.Errorf("invalid keysheet: %w", err)
	}

	sessionID := scenario.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	sess, err := session.New(ctx, ks,
		session.WithIDGenerator(session.NewFixedGenerator(sessionID)),
		session.WithRecorder(st),
		session.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("invalid keysheet: %w", err)
	}
	defer sess.Close()

	h := &Harness{
		store:   st,
		session: sess,
		logger:  logger,
	}

	result := NewResult()
	result.SessionID = sessionID
	result.Machine = machineSummary(sess.KeySheet())

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, err
	}
	result.FinalDisplay = sess.Display()

	actx := &AssertionContext{
		Ctx:       ctx,
		Store:     st,
		SessionID: sessionID,
		KeySheet:  sess.KeySheet(),
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSteps runs all steps and checks their expectations.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		switch {
		case step.Type != "":
			var opts []enigma.TextOption
			if step.Replace != "" {
				opts = append(opts, enigma.WithReplacement(step.Replace[0]))
			}
			presses, err := h.session.Type(ctx, step.Type, opts...)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			for _, p := range presses {
				result.AddPressTrace(p.Seq, p.Input, p.Output, p.Display)
			}

			lamps := session.Lamps(presses)
			if step.Expect != "" {
				if want := stripSpaces(step.Expect); !strings.EqualFold(lamps, want) {
					result.AddError(fmt.Sprintf("steps[%d]: expected %s, got %s", i, strings.ToUpper(want), lamps))
				}
			}
			h.logger.Info("step typed", "step", i, "keys", len(presses), "lamps", lamps)

		case step.SetDisplay != "":
			d, err := h.session.SetDisplay(ctx, step.SetDisplay)
			if err != nil {
				if enigma.IsConfigError(err) {
					result.AddError(fmt.Sprintf("steps[%d]: set_display: %v", i, err))
					continue
				}
				return fmt.Errorf("step %d: %w", i, err)
			}
			result.AddDisplayTrace(d.Seq, d.Display)
			h.logger.Info("display set", "step", i, "display", d.Display)
		}

		if step.ExpectDisplay != "" {
			if got := h.session.Display(); !strings.EqualFold(got, step.ExpectDisplay) {
				result.AddError(fmt.Sprintf("steps[%d]: expected display %s, got %s", i, strings.ToUpper(step.ExpectDisplay), got))
			}
		}
	}
	return nil
}

func machineSummary(ks enigma.KeySheet) string {
	m, err := enigma.FromKeySheet(ks)
	if err != nil {
		return ""
	}
	return m.String()
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
