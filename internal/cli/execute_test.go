package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Success(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := Execute([]string{"stats", "--db", dbPath(t)}, stdout, stderr)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "total")
}

func TestExecute_TextErrorOnStderr(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := Execute([]string{"dump", "users", "--db", dbPath(t)}, stdout, stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "Error [E002]")
	assert.Empty(t, stdout.String())
}

func TestExecute_JSONErrorOnStdout(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := Execute([]string{"reset", "--db", dbPath(t), "--format", "json"}, stdout, stderr)
	assert.Equal(t, ExitCommandError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCommand, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "--yes")
}
