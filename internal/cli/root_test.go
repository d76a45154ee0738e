package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	require.NotNil(t, cmd)
	assert.Equal(t, "ocsreport", cmd.Use)
	assert.Contains(t, cmd.Long, "OCS Inventory NG")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	commands := [][]string{
		{"run"},
		{"diff"},
		{"baseline"},
		{"baseline", "list"},
		{"baseline", "init"},
		{"test"},
		{"version"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	dryRun := runCmd.Flags().Lookup("dry-run")
	require.NotNil(t, dryRun)
	assert.Equal(t, "false", dryRun.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand(BuildInfo{})
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	for _, name := range []string{"update", "filter", "golden-dir"} {
		assert.NotNil(t, testCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := executeRoot(t, "version", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := executeRoot(t, "version", "--log-level", "chatty")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ocsreport 1.2.3 (commit abc1234, built 2025-06-02")

	out, err = executeRoot(t, "version", "--format", "json")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp["status"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, "1.2.3", data["version"])
	assert.Equal(t, "abc1234", data["commit"])
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeRoot(t, "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
