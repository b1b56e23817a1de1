// Package migrator creates and inspects the tables of forcedfields models.
package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/forcedfields/forcedfields/checks"
	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/logger"
	"github.com/forcedfields/forcedfields/schema"
)

// ErrUnsupportedBackend is returned by introspection on backends without a
// known catalog.
var ErrUnsupportedBackend = errors.New("unsupported backend")

// Migrator migrator struct
type Migrator struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Logger  logger.Interface
	// Strict refuses to create tables whose schema reports serious issues.
	Strict bool
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithLogger sets the logger.
func WithLogger(l logger.Interface) Option {
	return func(m *Migrator) { m.Logger = l }
}

// WithStrict sets strict mode.
func WithStrict(strict bool) Option {
	return func(m *Migrator) { m.Strict = strict }
}

// New returns a Migrator logging to logger.Default.
func New(db *sql.DB, d dialect.Dialect, opts ...Option) *Migrator {
	m := &Migrator{DB: db, Dialect: d, Logger: logger.Default}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateTableSQL renders the CREATE TABLE statement of s.
func (m Migrator) CreateTableSQL(s *schema.Schema) string {
	columns := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		columns = append(columns, m.Dialect.Quote(field.DBName)+" "+m.columnDefinition(field))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", m.Dialect.Quote(s.Table), strings.Join(columns, ", "))
}

func (m Migrator) columnDefinition(field *schema.Field) string {
	def := field.DataTypeOf(m.Dialect)
	switch {
	case field.PrimaryKey:
		return def
	case !field.AllowsNull():
		return def + " NOT NULL"
	case field.IsTimestamp() && m.Dialect.Name() == dialect.MySQL:
		// without explicit_defaults_for_timestamp MySQL makes a bare
		// timestamp NOT NULL
		return def + " NULL"
	}
	return def
}

// CreateTable checks every schema, then creates the tables. Issues are
// logged as warnings; in strict mode serious issues abort before any DDL
// is sent.
func (m Migrator) CreateTable(ctx context.Context, schemas ...*schema.Schema) error {
	var errs []error
	for _, s := range schemas {
		issues := s.Check()
		for _, issue := range issues {
			m.Logger.Warn(ctx, "%s", issue.String())
		}
		if err := checks.AsError(issues); err != nil && m.Strict {
			errs = append(errs, fmt.Errorf("table %s: %w", s.Table, err))
		}
		m.warnUnenforced(ctx, s)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, s := range schemas {
		if err := m.exec(ctx, m.CreateTableSQL(s)); err != nil {
			return fmt.Errorf("create table %s: %w", s.Table, err)
		}
	}
	return nil
}

func (m Migrator) warnUnenforced(ctx context.Context, s *schema.Schema) {
	if dialect.SupportsOnUpdate(m.Dialect) {
		return
	}
	for _, field := range s.TimestampFields() {
		if field.Timestamp.AutoUpdate() {
			m.Logger.Warn(ctx, "%s.%s: auto_update is not enforced by %s, enable store emulation to refresh it on save", s.Table, field.DBName, m.Dialect.Name())
		}
	}
}

// DropTable drops the tables if they exist.
func (m Migrator) DropTable(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if err := m.exec(ctx, "DROP TABLE IF EXISTS "+m.Dialect.Quote(table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}

// HasTable reports whether table exists.
func (m Migrator) HasTable(ctx context.Context, table string) (bool, error) {
	c, err := catalogFor(m.Dialect)
	if err != nil {
		return false, err
	}

	var count int
	begin := time.Now()
	err = m.DB.QueryRowContext(ctx, c.hasTableSQL, table).Scan(&count)
	m.trace(ctx, begin, c.hasTableSQL, []interface{}{table}, 1, err)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ColumnTypes introspects the columns of table in declaration order.
func (m Migrator) ColumnTypes(ctx context.Context, table string) ([]ColumnType, error) {
	c, err := catalogFor(m.Dialect)
	if err != nil {
		return nil, err
	}

	query, args := c.columnsSQL(m.Dialect, table)
	begin := time.Now()
	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		m.trace(ctx, begin, query, args, 0, err)
		return nil, err
	}
	defer rows.Close()

	var columnTypes []ColumnType
	for rows.Next() {
		ct, err := c.scan(rows)
		if err != nil {
			m.trace(ctx, begin, query, args, int64(len(columnTypes)), err)
			return nil, err
		}
		columnTypes = append(columnTypes, ct)
	}
	err = rows.Err()
	m.trace(ctx, begin, query, args, int64(len(columnTypes)), err)
	if err == nil && len(columnTypes) == 0 {
		err = fmt.Errorf("table %s: %w", table, logger.ErrRecordNotFound)
	}
	return columnTypes, err
}

// ColumnType returns the introspected column of table named column.
func (m Migrator) ColumnType(ctx context.Context, table, column string) (ColumnType, error) {
	columnTypes, err := m.ColumnTypes(ctx, table)
	if err != nil {
		return ColumnType{}, err
	}
	for _, ct := range columnTypes {
		if ct.Name() == column {
			return ct, nil
		}
	}
	return ColumnType{}, fmt.Errorf("column %s.%s: %w", table, column, logger.ErrRecordNotFound)
}

func (m Migrator) exec(ctx context.Context, query string) error {
	begin := time.Now()
	result, err := m.DB.ExecContext(ctx, query)
	rows := int64(-1)
	if err == nil {
		if n, rerr := result.RowsAffected(); rerr == nil {
			rows = n
		}
	}
	m.trace(ctx, begin, query, nil, rows, err)
	return err
}

func (m Migrator) trace(ctx context.Context, begin time.Time, query string, args []interface{}, rows int64, err error) {
	m.Logger.Trace(ctx, begin, func() (string, int64) {
		return logger.Explain(ctx, m.Logger, m.Dialect.BindVar(1) != "?", query, args...), rows
	}, err)
}
