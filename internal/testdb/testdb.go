// Package testdb opens the live databases named by FORCEDFIELDS_MYSQL_DSN
// and FORCEDFIELDS_POSTGRES_DSN for tests, skipping when they are unset.
package testdb

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/forcedfields/forcedfields/connections"
	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/schema"
)

// Backend is a live database a test can run against.
type Backend struct {
	Name   dialect.Backend
	Driver string
	EnvVar string
}

// Backends lists the live backends in the order tests visit them.
var Backends = []Backend{
	{Name: dialect.MySQL, Driver: "mysql", EnvVar: "FORCEDFIELDS_MYSQL_DSN"},
	{Name: dialect.Postgres, Driver: "pgx", EnvVar: "FORCEDFIELDS_POSTGRES_DSN"},
}

// Open connects to b, or skips the test when its DSN is not set.
func Open(t testing.TB, b Backend) *connections.Connection {
	t.Helper()
	dsn := os.Getenv(b.EnvVar)
	if dsn == "" {
		t.Skipf("%s not set", b.EnvVar)
	}

	conn, err := connections.OpenDSN(context.Background(), b.Driver, dsn)
	if err != nil {
		t.Fatalf("open %s: %v", b.Name, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// Naming returns a singular naming strategy with a random table prefix, so
// concurrent runs against one database do not collide.
func Naming() schema.NamingStrategy {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return schema.NamingStrategy{TablePrefix: "t" + prefix + "_", SingularTable: true}
}
