package cli

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journalHello enciphers HELO into a fresh journal and returns the database
// path and session ID.
func journalHello(t *testing.T) (string, string) {
	t.Helper()
	db := filepath.Join(t.TempDir(), "journal.db")

	out, _, err := executeCommand(t, "", helloArgs("--db", db, "--format", "json", "HELO")...)
	require.NoError(t, err)

	var resp struct {
		Data      EncipherResult `json:"data"`
		SessionID string         `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, resp.Data.SessionID)
	assert.Equal(t, "PBRH", resp.Data.Output)
	return db, resp.SessionID
}

func TestEncipher_JournalTextOutput(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	out, _, err := executeCommand(t, "", "encipher", "--db", db, "AAA")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "BDZ\nDisplay: AAD\nSession: "), out)
}

func TestReplay_Clean(t *testing.T) {
	db, id := journalHello(t)

	out, _, err := executeCommand(t, "", "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 1 session(s)")
	assert.Contains(t, out, "✓ Session: "+id)
	assert.Contains(t, out, "Machine: B II-IV-V 01-20-11 AAA")
	assert.Contains(t, out, "Events: 4 presses, final display AAE")
	assert.Contains(t, out, "✓ All sessions replay cleanly")
}

func TestReplay_SingleSessionJSON(t *testing.T) {
	db, id := journalHello(t)

	out, _, err := executeCommand(t, "", "replay", "--db", db, "--session", id, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Sessions []struct {
				SessionID    string `json:"session_id"`
				Presses      int    `json:"presses"`
				FinalDisplay string `json:"final_display"`
			} `json:"sessions"`
			TotalSessions int  `json:"total_sessions"`
			AllClean      bool `json:"all_clean"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.AllClean)
	require.Len(t, resp.Data.Sessions, 1)
	assert.Equal(t, id, resp.Data.Sessions[0].SessionID)
	assert.Equal(t, 4, resp.Data.Sessions[0].Presses)
	assert.Equal(t, "AAE", resp.Data.Sessions[0].FinalDisplay)
}

func TestReplay_DetectsTampering(t *testing.T) {
	db, _ := journalHello(t)

	raw, err := sql.Open("sqlite3", db)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE events SET output = 'Q' WHERE seq = 2`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	out, _, err := executeCommand(t, "", "replay", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `seq 2: output: journal "Q", replay "B"`)
	assert.Contains(t, out, "✗ Replay diverged from journal")
}

func TestReplay_Errors(t *testing.T) {
	db, _ := journalHello(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no database", []string{"replay"}},
		{"missing database", []string{"replay", "--db", filepath.Join(t.TempDir(), "nope.db")}},
		{"unknown session", []string{"replay", "--db", db, "--session", "no-such-session"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestReplay_EmptyJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	// running a session with no keys creates the journal
	_, _, err := executeCommand(t, "", "run", "--db", db)
	require.NoError(t, err)

	out, _, err := executeCommand(t, "", "replay", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 1 session(s)")
	assert.Contains(t, out, "Events: 0 presses, final display AAA")
}

func TestTrace_Session(t *testing.T) {
	db, id := journalHello(t)

	out, _, err := executeCommand(t, "", "trace", "--db", db, "--session", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Trace for Session: "+id)
	assert.Contains(t, out, "Machine: B II-IV-V 01-20-11 AAA")
	assert.Contains(t, out, "[1] KEY H -> P  AAB")
	assert.Contains(t, out, "[4] KEY O -> H  AAE")
	assert.Contains(t, out, "Presses:      4")
}

func TestTrace_DisplayEvents(t *testing.T) {
	db := filepath.Join(t.TempDir(), "journal.db")
	_, _, err := executeCommand(t, "HELLO\n:display AAA\nHELLO\n",
		"run", "--rotors", "II IV V", "--rings", "1 20 11", "--plugboard", helloPlugs, "--db", db)
	require.NoError(t, err)

	out, _, err := executeCommand(t, "", "trace", "--db", db, "--format", "json")
	require.NoError(t, err)
	var list struct {
		Data []SessionSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Data, 1)
	id := list.Data[0].SessionID

	out, _, err = executeCommand(t, "", "trace", "--db", db, "--session", id, "--kind", "display", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []TraceEvent{{Seq: 6, Type: "display", Display: "AAA"}}, resp.Data.Timeline)
	assert.Equal(t, TraceStats{TotalEvents: 11, Presses: 10, Displays: 1, Lamps: "PBRVAPBRVA"}, resp.Data.Stats)

	_, _, err = executeCommand(t, "", "replay", "--db", db, "--session", id)
	require.NoError(t, err)
}

func TestTrace_ListSessions(t *testing.T) {
	db, id := journalHello(t)

	out, _, err := executeCommand(t, "", "trace", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "B II-IV-V 01-20-11 AAA")
}

func TestTrace_Errors(t *testing.T) {
	db, _ := journalHello(t)

	_, _, err := executeCommand(t, "", "trace", "--db", db, "--kind", "lamp")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeCommand(t, "", "trace", "--db", db, "--session", "no-such-session")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJournalErrors_JSON(t *testing.T) {
	db, _ := journalHello(t)
	missing := filepath.Join(t.TempDir(), "nope.db")
	unwritable := filepath.Join(t.TempDir(), "no-such-dir", "journal.db")

	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantPath string
	}{
		{"replay without journal", []string{"replay"}, ErrCodeDatabase, ""},
		{"replay missing journal", []string{"replay", "--db", missing}, ErrCodeDatabase, missing},
		{"trace missing journal", []string{"trace", "--db", missing}, ErrCodeDatabase, missing},
		{"trace session missing journal", []string{"trace", "--db", missing, "--session", "x"}, ErrCodeDatabase, missing},
		{"encipher unopenable journal", helloArgs("--db", unwritable, "HELLO"), ErrCodeDatabase, unwritable},
		{"replay unknown session", []string{"replay", "--db", db, "--session", "no-such-session"}, ErrCodeGeneric, ""},
		{"trace bad kind", []string{"trace", "--db", db, "--kind", "lamp"}, ErrCodeGeneric, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCommand(t, "", append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp struct {
				Status string `json:"status"`
				Error  struct {
					Code    string            `json:"code"`
					Message string            `json:"message"`
					Details map[string]string `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, resp.Error.Details["path"])
			}
		})
	}
}

func TestReplay_MissingJournalText(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.db")

	out, _, err := executeCommand(t, "", "replay", "--db", missing)
	require.Error(t, err)
	assert.Empty(t, out)

	var dbErr *DatabaseError
	require.ErrorAs(t, err, &dbErr)
	assert.Equal(t, missing, dbErr.Path)
	assert.Contains(t, err.Error(), "database not found")
}
