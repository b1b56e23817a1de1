// Package connections opens configured databases with the matching dialect.
package connections

import (
	"context"
	"database/sql"
	"fmt"

	// database/sql drivers, registered as "mysql", "pgx", "postgres" and
	// "sqlite"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/forcedfields/forcedfields/config"
	"github.com/forcedfields/forcedfields/dialect"
)

// Connection is an open database and the dialect that speaks to it. The
// caller owns DB and closes it.
type Connection struct {
	Alias   string
	Driver  string
	DB      *sql.DB
	Dialect dialect.Dialect
}

// Close closes the underlying database.
func (c *Connection) Close() error {
	return c.DB.Close()
}

// Open opens the database configured under alias and pings it.
func Open(ctx context.Context, cfg *config.Config, alias string) (*Connection, error) {
	dbCfg, err := cfg.Database(alias)
	if err != nil {
		return nil, err
	}

	conn, err := OpenDSN(ctx, dbCfg.Driver, dbCfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("database %q: %w", alias, err)
	}
	conn.Alias = alias

	if dbCfg.MaxIdleConns > 0 {
		conn.DB.SetMaxIdleConns(dbCfg.MaxIdleConns)
	}
	if dbCfg.MaxOpenConns > 0 {
		conn.DB.SetMaxOpenConns(dbCfg.MaxOpenConns)
	}
	if dbCfg.ConnMaxLifetime > 0 {
		conn.DB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}
	return conn, nil
}

// OpenDSN opens a database by driver name. The dialect is picked from the
// driver, so "pgx" and "postgres" both select PostgreSQL.
func OpenDSN(ctx context.Context, driver, dsn string) (*Connection, error) {
	d, ok := dialect.Lookup(driver)
	if !ok {
		return nil, fmt.Errorf("no dialect for driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if d.Name() == dialect.SQLite {
		// every connection to an in-memory database is a new database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &Connection{Alias: driver, Driver: driver, DB: db, Dialect: d}, nil
}
