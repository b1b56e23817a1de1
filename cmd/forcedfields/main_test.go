package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcedfields/forcedfields"
)

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRender(t *testing.T) {
	code, out, _ := runCmd(t, "render", "-backend", "mysql", "-auto-create", "-auto-update")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "type:     timestamp\n")
	assert.Contains(t, out, "db_type:  timestamp default current_timestamp on update current_timestamp\n")

	code, out, _ = runCmd(t, "render", "-backend", "postgresql", "-default", "2000-01-01 00:00:01")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "backend:  postgres\n")
	assert.Contains(t, out, "db_type:  timestamp without time zone default '2000-01-01 00:00:01'\n")

	code, out, _ = runCmd(t, "render", "-backend", "sqlite", "-auto-create")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "db_type:  datetime\n")
}

func TestRenderJSON(t *testing.T) {
	code, out, _ := runCmd(t, "render", "-backend", "mysql", "-auto-now", "-nullable", "-json")
	require.Equal(t, 0, code)

	start := bytes.IndexByte([]byte(out), '{')
	require.GreaterOrEqual(t, start, 0)
	var d forcedfields.Deconstruction
	require.NoError(t, json.Unmarshal([]byte(out[start:]), &d))
	assert.Equal(t, forcedfields.TimestampFieldPath, d.Path)
	assert.Equal(t, map[string]interface{}{"auto_update": true, "nullable": true}, d.Kwargs)
}

func TestRenderInvalidDefault(t *testing.T) {
	code, _, errOut := runCmd(t, "render", "-default", "soon")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "cannot parse default")
}

func TestCheck(t *testing.T) {
	code, out, _ := runCmd(t, "check", "-auto-create", "-nullable")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "no issues")

	code, out, _ = runCmd(t, "check", "-auto-create", "-auto-update")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, forcedfields.IDMutuallyExclusive)
	assert.NotContains(t, out, forcedfields.IDLegacyAutoNow)

	code, out, _ = runCmd(t, "check", "-name", "events.at", "-auto-create", "-auto-now")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "events.at: ("+forcedfields.IDLegacyAutoNow+")")
}

func TestUsage(t *testing.T) {
	code, _, errOut := runCmd(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Usage:")

	code, _, errOut = runCmd(t, "serve")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "serve"`)

	code, _, _ = runCmd(t, "render", "-h")
	assert.Equal(t, 0, code)
}

func TestMigrateAndInspect(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "forcedfields.yaml")
	cfg := "databases:\n  local:\n    driver: sqlite\n    dsn: " + filepath.Join(dir, "ff.db") + "\nlog:\n  level: silent\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	code, out, errOut := runCmd(t, "migrate", "-config", cfgPath, "-alias", "local", "-auto-create", "-insert")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "created ts_record_autocreate\n")
	assert.Contains(t, out, "ts_field_1")
	assert.Contains(t, out, "inserted id=1 ts_field_1=")
	assert.NotContains(t, out, "ts_field_1=<nil>")

	code, out, errOut = runCmd(t, "inspect", "-config", cfgPath, "-alias", "local", "-table", "ts_record_autocreate")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "COLUMN")
	assert.Contains(t, out, "datetime")

	code, _, errOut = runCmd(t, "migrate", "-config", cfgPath, "-alias", "local", "-auto-create")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "already exists")

	code, _, _ = runCmd(t, "migrate", "-config", cfgPath, "-alias", "local", "-auto-create", "-drop")
	assert.Equal(t, 0, code)

	code, _, errOut = runCmd(t, "inspect", "-config", cfgPath, "-alias", "local", "-table", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "record not found")

	code, _, errOut = runCmd(t, "inspect", "-config", cfgPath, "-alias", "nope", "-table", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown")
}
