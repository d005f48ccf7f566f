package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const helloPlugs = "AV BS CG DL FU HZ IN KM OW RX"

const helloYAML = `rotors: [II, IV, V]
reflector: B
ring_settings: [1, 20, 11]
plugboard: AV BS CG DL FU HZ IN KM OW RX
display: AAA
`

// executeCommand runs the root command with args and stdin, isolated from
// ENIGMA_* variables in the environment.
func executeCommand(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("ENIGMA_DB", "")
	t.Setenv("ENIGMA_FORMAT", "")
	ResetEnv()
	t.Cleanup(ResetEnv)

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
