package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../harness/testdata"

// copyScenario copies a harness scenario into a fresh directory.
func copyScenario(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(scenariosDir, name+".yaml"))
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), data, 0644))
	return dir
}

func TestTest_AllScenariosPass(t *testing.T) {
	out, _, err := executeCommand(t, "", "test", scenariosDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ hello_world")
	assert.Contains(t, out, "✓ barbarossa")
	assert.Contains(t, out, "Test Summary: 6 passed, 0 failed, 6 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Filter(t *testing.T) {
	out, _, err := executeCommand(t, "", "test", scenariosDir, "--filter", "m4_*", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, "m4_thin", resp.Data.Scenarios[0].Name)
}

func TestTest_UpdateWritesGolden(t *testing.T) {
	dir := copyScenario(t, "hello_world")

	out, _, err := executeCommand(t, "", "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ hello_world (golden updated)")

	got, err := os.ReadFile(filepath.Join(dir, "golden", "hello_world.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join(scenariosDir, "golden", "hello_world.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	// golden files are not picked up as scenarios
	_, _, err = executeCommand(t, "", "test", dir)
	require.NoError(t, err)
}

func TestTest_GoldenMismatch(t *testing.T) {
	dir := copyScenario(t, "double_step")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "double_step.golden"), []byte("{}"), 0644))

	out, _, err := executeCommand(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ double_step")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTest_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(`
name: wrong
keysheet:
  rotors: [I, II, III]
  reflector: B
steps:
  - type: AAAAA
    expect: AAAAA
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	out, _, err := executeCommand(t, "", "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTest_MissingDir(t *testing.T) {
	_, _, err := executeCommand(t, "", "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_EmptyDir(t *testing.T) {
	out, _, err := executeCommand(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}
