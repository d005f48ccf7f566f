package store

import (
	"context"
	"fmt"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
)

// Divergence is one difference between the journal and a fresh machine.
type Divergence struct {
	Seq   int64  `json:"seq"`
	Field string `json:"field"` // "seq", "input", "output", "display" or "event"
	Want  string `json:"want"`  // journaled value
	Got   string `json:"got"`   // replayed value
}

func (d Divergence) String() string {
	return fmt.Sprintf("seq %d: %s: journal %q, replay %q", d.Seq, d.Field, d.Want, d.Got)
}

// ReplayReport is the outcome of replaying one session.
type ReplayReport struct {
	SessionID    string       `json:"session_id"`
	Machine      string       `json:"machine"`
	Events       int          `json:"events"`
	Presses      int          `json:"presses"`
	FinalDisplay string       `json:"final_display"`
	Divergences  []Divergence `json:"divergences,omitempty"`
}

// OK reports whether the replay matched the journal exactly.
func (r *ReplayReport) OK() bool {
	return len(r.Divergences) == 0
}

// ReplaySession rebuilds the machine of session id from its stored key sheet,
// re-applies every journaled event in seq order and compares lamps and
// windows. Divergences are reported, not returned as errors; an error means
// the journal could not be read or its key sheet no longer builds a machine.
func (s *Store) ReplaySession(ctx context.Context, id string) (*ReplayReport, error) {
	rec, err := s.ReadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := enigma.FromKeySheet(rec.KeySheet)
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", id, err)
	}
	events, err := s.ReadEvents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", id, err)
	}

	report := &ReplayReport{
		SessionID: id,
		Machine:   m.String(),
		Events:    len(events),
	}
	diverge := func(seq int64, field, want, got string) {
		report.Divergences = append(report.Divergences, Divergence{Seq: seq, Field: field, Want: want, Got: got})
	}

	var lastSeq int64
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ev.Seq != lastSeq+1 {
			diverge(ev.Seq, "seq", fmt.Sprint(ev.Seq), fmt.Sprint(lastSeq+1))
		}
		lastSeq = ev.Seq

		switch ev.Kind {
		case EventPress:
			report.Presses++
			if len(ev.Input) != 1 || !enigma.IsLetter(ev.Input[0]) {
				diverge(ev.Seq, "input", ev.Input, "")
				continue
			}
			out := string(m.KeyPress(ev.Input[0]))
			if out != ev.Output {
				diverge(ev.Seq, "output", ev.Output, out)
			}
		case EventDisplay:
			if err := m.SetDisplay(ev.Display); err != nil {
				diverge(ev.Seq, "display", ev.Display, m.Display())
				continue
			}
		default:
			diverge(ev.Seq, "event", string(ev.Kind), "")
			continue
		}

		if got := m.Display(); got != ev.Display {
			diverge(ev.Seq, "display", ev.Display, got)
		}
	}

	report.FinalDisplay = m.Display()
	return report, nil
}

// ReplayAll replays every journaled session in the order ListSessions
// returns them.
func (s *Store) ReplayAll(ctx context.Context) ([]*ReplayReport, error) {
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]*ReplayReport, 0, len(sessions))
	for _, rec := range sessions {
		report, err := s.ReplaySession(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
