package store

import (
	"context"
	"fmt"

	"github.com/yan-zaretskiy/enigma-gui/internal/enigma"
	"github.com/yan-zaretskiy/enigma-gui/internal/session"
)

// SessionRecord is a journaled session.
type SessionRecord struct {
	ID        string
	KeySheet  enigma.KeySheet
	Machine   string // summary such as "B II-IV-V 01-20-11 AAA"
	CreatedAt string // RFC 3339, set by the database
}

// EventKind distinguishes journaled events.
type EventKind string

const (
	EventPress   EventKind = "press"
	EventDisplay EventKind = "display"
)

// EventRecord is one journaled event. Input and Output are set for presses
// only. Display is the window after the event.
type EventRecord struct {
	SessionID string
	Seq       int64
	Kind      EventKind
	Input     string
	Output    string
	Display   string
}

// WriteSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteSession(ctx context.Context, rec SessionRecord) error {
	ksJSON, err := marshalKeySheet(rec.KeySheet)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, keysheet, machine)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, ksJSON, rec.Machine)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WritePress journals a key press of session sessionID.
//
// Note: The session must exist (foreign key constraint).
// Note: A second event with the same seq is silently ignored (idempotent).
func (s *Store) WritePress(ctx context.Context, sessionID string, p session.Press) error {
	err := s.writeEvent(ctx, EventRecord{
		SessionID: sessionID,
		Seq:       p.Seq,
		Kind:      EventPress,
		Input:     string(p.Input),
		Output:    string(p.Output),
		Display:   p.Display,
	})
	if err != nil {
		return fmt.Errorf("write press: %w", err)
	}
	return nil
}

// WriteDisplaySet journals a display override of session sessionID.
func (s *Store) WriteDisplaySet(ctx context.Context, sessionID string, d session.DisplayChange) error {
	err := s.writeEvent(ctx, EventRecord{
		SessionID: sessionID,
		Seq:       d.Seq,
		Kind:      EventDisplay,
		Display:   d.Display,
	})
	if err != nil {
		return fmt.Errorf("write display: %w", err)
	}
	return nil
}

func (s *Store) writeEvent(ctx context.Context, ev EventRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (session_id, seq, kind, input, output, display)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, ev.SessionID, ev.Seq, string(ev.Kind), ev.Input, ev.Output, ev.Display)
	return err
}

// Store journals sessions it is attached to with session.WithRecorder.
var _ session.Recorder = (*Store)(nil)

// RecordSession implements session.Recorder.
func (s *Store) RecordSession(ctx context.Context, info session.Info) error {
	m, err := enigma.FromKeySheet(info.KeySheet)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return s.WriteSession(ctx, SessionRecord{
		ID:       info.ID,
		KeySheet: info.KeySheet,
		Machine:  m.String(),
	})
}

// RecordPress implements session.Recorder.
func (s *Store) RecordPress(ctx context.Context, sessionID string, p session.Press) error {
	return s.WritePress(ctx, sessionID, p)
}

// RecordDisplay implements session.Recorder.
func (s *Store) RecordDisplay(ctx context.Context, sessionID string, d session.DisplayChange) error {
	return s.WriteDisplaySet(ctx, sessionID, d)
}
