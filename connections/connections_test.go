package connections_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcedfields/forcedfields/config"
	"github.com/forcedfields/forcedfields/connections"
	"github.com/forcedfields/forcedfields/dialect"
)

func TestOpenDefaultSQLite(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	conn, err := connections.Open(context.Background(), cfg, "sqlite")
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "sqlite", conn.Alias)
	assert.Equal(t, dialect.SQLite, conn.Dialect.Name())

	var one int
	require.NoError(t, conn.DB.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenFileSQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forcedfields.yaml")
	content := "databases:\n  local:\n    driver: sqlite\n    dsn: " + filepath.Join(dir, "local.db") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	conn, err := connections.Open(context.Background(), cfg, "local")
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "local", conn.Alias)
}

func TestOpenErrors(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	_, err = connections.Open(context.Background(), cfg, "missing")
	assert.ErrorIs(t, err, config.ErrUnknownAlias)

	_, err = connections.OpenDSN(context.Background(), "oracle-ish", "")
	assert.Error(t, err)
}
