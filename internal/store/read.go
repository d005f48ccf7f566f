package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when no session has the requested ID.
var ErrSessionNotFound = errors.New("session not found")

// ListSessions returns all journaled sessions in the order they were
// first written. Sessions carry no deletes, so rowid order is insert order.
//
// Returns an empty slice (not nil) if the journal is empty.
func (s *Store) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, keysheet, machine, created_at
		FROM sessions
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []SessionRecord{}
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession returns one session. Wraps ErrSessionNotFound if id is unknown.
func (s *Store) ReadSession(ctx context.Context, id string) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, keysheet, machine, created_at
		FROM sessions
		WHERE id = ?
	`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("read session %s: %w", id, ErrSessionNotFound)
	}
	return rec, err
}

// ReadEvents returns the events of a session ordered by seq ASC.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, input, output, display
		FROM events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []EventRecord{}
	for rows.Next() {
		var ev EventRecord
		var kind string
		if err := rows.Scan(&ev.SessionID, &ev.Seq, &kind, &ev.Input, &ev.Output, &ev.Display); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var ksJSON string
	if err := row.Scan(&rec.ID, &ksJSON, &rec.Machine, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan session: %w", err)
	}
	ks, err := unmarshalKeySheet(ksJSON)
	if err != nil {
		return rec, fmt.Errorf("session %s: %w", rec.ID, err)
	}
	rec.KeySheet = ks
	return rec, nil
}
