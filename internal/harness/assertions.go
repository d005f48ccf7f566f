package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/store"
)

// AssertionContext provides what assertions need beyond the trace.
type AssertionContext struct {
	Ctx       context.Context
	Store     *store.Store
	SessionID string
	KeySheet  enigma.KeySheet // settings the session was opened with
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Events relevant to the failure
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nTrace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, formatEvent(event))
		}
	}

	return buf.String()
}

// EvaluateAssertions runs all assertions and returns their failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertNoSelfMap:
		return assertNoSelfMap(result.Trace, actx.KeySheet)
	case AssertInvolution:
		return assertInvolution(result.Trace, actx.KeySheet)
	case AssertReplayClean:
		return assertReplayClean(actx)
	case AssertPressCount:
		return assertPressCount(result.Trace, a.Count)
	case AssertFinalDisplay:
		if !strings.EqualFold(result.FinalDisplay, a.Display) {
			return &AssertionError{
				Type:     a.Type,
				Expected: strings.ToUpper(a.Display),
				Actual:   result.FinalDisplay,
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertNoSelfMap checks that no press lit the lamp of its own key, then
// replays the trace and tries every key at each state the machine passed
// through.
func assertNoSelfMap(trace []TraceEvent, ks enigma.KeySheet) error {
	var bad []TraceEvent
	for _, ev := range trace {
		if ev.Type == EventPress && ev.Input == ev.Output {
			bad = append(bad, ev)
		}
	}
	if len(bad) > 0 {
		return &AssertionError{
			Type:     AssertNoSelfMap,
			Expected: "no letter enciphers to itself",
			Actual:   fmt.Sprintf("%d self-mapped presses", len(bad)),
			Trace:    bad,
		}
	}

	m, err := enigma.FromKeySheet(ks)
	if err != nil {
		return err
	}
	for _, ev := range trace {
		switch ev.Type {
		case EventDisplay:
			if err := m.SetDisplay(ev.Display); err != nil {
				return err
			}
		case EventPress:
			if key, ok := selfMappedKey(m); ok {
				return &AssertionError{
					Type:     AssertNoSelfMap,
					Expected: "no letter enciphers to itself",
					Actual:   fmt.Sprintf("%c enciphers to itself at %s", key, m.Display()),
					Trace:    []TraceEvent{ev},
				}
			}
			m.KeyPress(ev.Input[0])
		}
	}
	return nil
}

// selfMappedKey presses every key on a copy of m and reports the first one
// that lights its own lamp.
func selfMappedKey(m *enigma.Machine) (byte, bool) {
	for key := byte('A'); key <= 'Z'; key++ {
		if m.Clone().KeyPress(key) == key {
			return key, true
		}
	}
	return 0, false
}

// assertInvolution replays the trace on a fresh machine, typing each output
// letter, and checks that the input letter lights up.
func assertInvolution(trace []TraceEvent, ks enigma.KeySheet) error {
	m, err := enigma.FromKeySheet(ks)
	if err != nil {
		return err
	}

	var bad []TraceEvent
	for _, ev := range trace {
		switch ev.Type {
		case EventDisplay:
			if err := m.SetDisplay(ev.Display); err != nil {
				return err
			}
		case EventPress:
			if got := string(m.KeyPress(ev.Output[0])); got != ev.Input {
				bad = append(bad, ev)
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertInvolution,
		Expected: "deciphering the output restores the input",
		Actual:   fmt.Sprintf("%d presses did not decipher back", len(bad)),
		Trace:    bad,
	}
}

// assertReplayClean replays the journal and requires zero divergences.
func assertReplayClean(actx *AssertionContext) error {
	report, err := actx.Store.ReplaySession(actx.Ctx, actx.SessionID)
	if err != nil {
		return err
	}
	if report.OK() {
		return nil
	}
	msgs := make([]string, len(report.Divergences))
	for i, d := range report.Divergences {
		msgs[i] = d.String()
	}
	return &AssertionError{
		Type:     AssertReplayClean,
		Expected: "journal replays without divergences",
		Actual:   strings.Join(msgs, "; "),
	}
}

// assertPressCount checks the number of key presses.
func assertPressCount(trace []TraceEvent, want int) error {
	got := 0
	for _, ev := range trace {
		if ev.Type == EventPress {
			got++
		}
	}
	if got == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertPressCount,
		Expected: fmt.Sprintf("%d presses", want),
		Actual:   fmt.Sprintf("%d presses", got),
	}
}

func formatEvent(ev TraceEvent) string {
	if ev.Type == EventPress {
		return fmt.Sprintf("press %s>%s %s", ev.Input, ev.Output, ev.Display)
	}
	return fmt.Sprintf("display %s", ev.Display)
}
