package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

const passingScenario = `name: passing
description: "B is new on h1"
baseline: [{ title: A, host: seed }]
snapshot:
  hosts: [{ id: "1", name: h1, software: [A, B] }]
assertions:
  - { type: new_titles, titles: [B] }
  - { type: mail_count, count: 1 }
`

const failingScenario = `name: failing
description: "expects the wrong host"
baseline: [{ title: A, host: seed }]
snapshot:
  hosts: [{ id: "1", name: h1, software: [A, B] }]
assertions:
  - { type: attributed, title: B, host: h2 }
`

func writeScenario(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644))
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := executeRoot(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := executeRoot(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := executeRoot(t, "test", t.TempDir(), "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := executeRoot(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")

	out, err = executeRoot(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(0), resp["data"].(map[string]any)["total"])
}

func TestTestCommandHarnessScenariosMatchGoldens(t *testing.T) {
	out, err := executeRoot(t, "test", harnessScenarios)
	require.NoError(t, err, "output:\n%s", out)
	assert.Contains(t, out, "✓ bootstrap")
	assert.Contains(t, out, "✓ new_and_removed")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := executeRoot(t, "test", harnessScenarios, "--filter", "new_*", "--format", "json")
	require.NoError(t, err)

	data := decodeResponse(t, out)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total"])
	scenarios := data["scenarios"].([]any)
	assert.Equal(t, "new_and_removed", scenarios[0].(map[string]any)["name"])
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, dir, "passing", passingScenario)
	writeScenario(t, dir, "failing", failingScenario)

	out, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, `attributed to "h1", want "h2"`)
	assert.Contains(t, out, "✓ passing")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")

	out, err = executeRoot(t, "test", dir, "--format", "json")
	require.Error(t, err)
	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "SCENARIOS_FAILED", resp["error"].(map[string]any)["code"])
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nassertions: [")

	out, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	writeScenario(t, dir, "passing", passingScenario)
	goldenPath := filepath.Join(root, "golden", "passing.golden")

	out, err := executeRoot(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ passing (golden updated)")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "passing"`)

	_, err = executeRoot(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err = executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandGoldenDirFlag(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scenarios")
	writeScenario(t, dir, "passing", passingScenario)
	goldenDir := filepath.Join(t.TempDir(), "elsewhere")

	_, err := executeRoot(t, "test", dir, "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(goldenDir, "passing.golden"))
	assert.NoError(t, err)
}
