package harness

// Trace event types.
const (
	EventPress   = "press"
	EventDisplay = "display"
)

// TraceEvent is one journaled event of a scenario run.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Type    string `json:"type"` // "press" or "display"
	Input   string `json:"input,omitempty"`
	Output  string `json:"output,omitempty"`
	Display string `json:"display"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all step expectations and assertions hold.
	Pass bool `json:"pass"`

	// SessionID is the session the scenario ran in.
	SessionID string `json:"session_id"`

	// Machine summarizes the starting settings, e.g. "B II-IV-V 01-20-11 AAA".
	Machine string `json:"machine"`

	// Trace contains every press and display override in seq order.
	Trace []TraceEvent `json:"trace"`

	// FinalDisplay is the window after the last step.
	FinalDisplay string `json:"final_display"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddPressTrace adds a key press to the trace.
func (r *Result) AddPressTrace(seq int64, input, output byte, display string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     seq,
		Type:    EventPress,
		Input:   string(input),
		Output:  string(output),
		Display: display,
	})
}

// AddDisplayTrace adds a display override to the trace.
func (r *Result) AddDisplayTrace(seq int64, display string) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:     seq,
		Type:    EventDisplay,
		Display: display,
	})
}

// Presses returns the press events of the trace.
func (r *Result) Presses() []TraceEvent {
	var presses []TraceEvent
	for _, ev := range r.Trace {
		if ev.Type == EventPress {
			presses = append(presses, ev)
		}
	}
	return presses
}
