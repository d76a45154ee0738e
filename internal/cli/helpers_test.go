package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fleet is a scratch deployment: a SQLite baseline, a YAML snapshot export
// standing in for the OCS database, and a config file pointing at both.
type fleet struct {
	dir      string
	config   string
	snapshot string
}

func newFleet(t *testing.T, emailYAML string) *fleet {
	t.Helper()
	dir := t.TempDir()
	f := &fleet{
		dir:      dir,
		config:   filepath.Join(dir, "ocsreport.yaml"),
		snapshot: filepath.Join(dir, "snapshot.yaml"),
	}

	if emailYAML == "" {
		emailYAML = "email:\n  enabled: false\n"
	}
	cfg := fmt.Sprintf(`database:
  driver: sqlite3
  dsn: %q
snapshot:
  file: %q
log:
  output: discard
%s`, filepath.Join(dir, "baseline.db"), f.snapshot, emailYAML)
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0644))
	return f
}

// hosts writes the snapshot export; each entry is "id:name:Title A,Title B".
func (f *fleet) hosts(t *testing.T, hosts ...string) {
	t.Helper()
	var b strings.Builder
	b.WriteString("hosts:\n")
	for _, h := range hosts {
		parts := strings.SplitN(h, ":", 3)
		require.Len(t, parts, 3, "host %q must be id:name:titles", h)
		fmt.Fprintf(&b, "  - id: %q\n    name: %q\n    software:\n", parts[0], parts[1])
		for _, title := range strings.Split(parts[2], ",") {
			fmt.Fprintf(&b, "      - %q\n", title)
		}
	}
	require.NoError(t, os.WriteFile(f.snapshot, []byte(b.String()), 0644))
}

// execute runs the root command with the fleet's config and returns stdout.
func (f *fleet) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeRoot(t, append(args, "--config", f.config)...)
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc1234", Date: "2025-06-02"})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeResponse parses a JSON CLIResponse with a generic payload.
func decodeResponse(t *testing.T, out string) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

// titlesOf extracts the "title" field of every object in a JSON array.
func titlesOf(t *testing.T, v any) []string {
	t.Helper()
	items, ok := v.([]any)
	require.True(t, ok, "expected array, got %T", v)
	titles := []string{}
	for _, item := range items {
		switch it := item.(type) {
		case string:
			titles = append(titles, it)
		case map[string]any:
			titles = append(titles, it["title"].(string))
		}
	}
	return titles
}
