// Package store writes and reads rows of forcedfields models, applying the
// timestamp rules of each column on the way in.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/forcedfields/forcedfields/dialect"
	"github.com/forcedfields/forcedfields/errtranslator"
	"github.com/forcedfields/forcedfields/internal/stmtcache"
	"github.com/forcedfields/forcedfields/logger"
	"github.com/forcedfields/forcedfields/schema"
)

var (
	// ErrRecordNotFound is returned by Get for a missing row.
	ErrRecordNotFound = logger.ErrRecordNotFound
	// ErrUnknownColumn is returned for values naming no column.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrMissingPrimaryKey is returned when a schema has no primary key.
	ErrMissingPrimaryKey = errors.New("model has no primary key")
)

// Values maps column names to values. An absent key leaves the column
// unset; a nil value writes NULL.
type Values map[string]interface{}

// Store Store struct
type Store struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Logger  logger.Interface
	// NowFunc the function to be used when creating a new timestamp
	NowFunc func() time.Time
	// EmulateAutoUpdate refreshes auto_update columns on Update when the
	// dialect cannot do it in the schema.
	EmulateAutoUpdate bool
	Translator        errtranslator.ErrTranslator

	stmts  *stmtcache.Cache
	warned sync.Map
}

// Option configures a Store.
type Option func(*Store)

// WithLogger set logger.
func WithLogger(l logger.Interface) Option {
	return func(s *Store) { s.Logger = l }
}

// WithNowFunc set now func.
func WithNowFunc(fn func() time.Time) Option {
	return func(s *Store) { s.NowFunc = fn }
}

// WithEmulateAutoUpdate sets EmulateAutoUpdate.
func WithEmulateAutoUpdate(emulate bool) Option {
	return func(s *Store) { s.EmulateAutoUpdate = emulate }
}

// WithPrepareStmt caches prepared statements, at most size of them.
func WithPrepareStmt(size int) Option {
	return func(s *Store) { s.stmts = stmtcache.New(size, 0) }
}

// New returns a Store for db. Times are taken in UTC.
func New(db *sql.DB, d dialect.Dialect, opts ...Option) *Store {
	s := &Store{
		DB:         db,
		Dialect:    d,
		Logger:     logger.Default,
		NowFunc:    func() time.Time { return time.Now().UTC() },
		Translator: errtranslator.New(d.Name()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases cached prepared statements. The database stays open.
func (s *Store) Close() {
	if s.stmts != nil {
		s.stmts.Close()
	}
}

func (s *Store) now() time.Time {
	return s.NowFunc().Round(time.Microsecond)
}

func checkColumns(sch *schema.Schema, values Values) error {
	var unknown []string
	for name := range values {
		if _, ok := sch.FieldsByDBName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w %v in %s", ErrUnknownColumn, unknown, sch.Table)
	}
	return nil
}

// insertValue decides what an INSERT writes to a timestamp column. omit
// leaves the column to its schema default.
func (s *Store) insertValue(field *schema.Field, value interface{}, set bool, now time.Time) (_ interface{}, omit bool, err error) {
	ts := field.Timestamp
	if set {
		if value, err = ts.Clean(value); err != nil {
			return nil, false, err
		}
	}

	schemaDefault := ts.HasSchemaDefault(s.Dialect)
	if value == nil && schemaDefault && (ts.AutoCreate() || !set) {
		return nil, true, nil
	}

	value = ts.PreSave(value, now, true, !schemaDefault)
	if value == nil && !set {
		if def := ts.Default(); def != nil {
			value = *def
		}
	}
	return utc(value), false, nil
}

// Insert writes a row and returns its primary key, or 0 for a model
// without one. Timestamp values are cleaned before any SQL is sent, so an
// unparsable string fails with a *forcedfields.ValidationError.
func (s *Store) Insert(ctx context.Context, sch *schema.Schema, values Values) (int64, error) {
	if err := checkColumns(sch, values); err != nil {
		return 0, err
	}

	var (
		now     = s.now()
		columns []string
		binds   []string
		args    []interface{}
	)
	for _, field := range sch.Fields {
		value, set := values[field.DBName]
		if field.Timestamp != nil {
			v, omit, err := s.insertValue(field, value, set, now)
			if err != nil {
				return 0, err
			}
			if omit {
				continue
			}
			value, set = v, true
		}
		if !set {
			continue
		}
		args = append(args, value)
		columns = append(columns, s.Dialect.Quote(field.DBName))
		binds = append(binds, s.Dialect.BindVar(len(args)))
	}

	query := s.insertSQL(sch, columns, binds)
	pk := sch.PrimaryField
	if pk != nil && !s.Dialect.SupportLastInsertID() {
		query += " " + s.Dialect.ReturningStr(pk.DBName)
		var id int64
		err := s.scanRow(ctx, query, args, &id)
		if err != nil {
			return 0, s.Translator.Translate(err)
		}
		return id, nil
	}

	result, err := s.exec(ctx, query, args...)
	if err != nil {
		return 0, s.Translator.Translate(err)
	}
	if pk == nil {
		return 0, nil
	}
	return result.LastInsertId()
}

func (s *Store) insertSQL(sch *schema.Schema, columns, binds []string) string {
	table := s.Dialect.Quote(sch.Table)
	if len(columns) == 0 {
		if s.Dialect.Name() == dialect.MySQL {
			return "INSERT INTO " + table + " () VALUES ()"
		}
		return "INSERT INTO " + table + " DEFAULT VALUES"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(binds, ", "))
}

// Update writes values to the row with primary key id. Columns with
// auto_update are refreshed by the database where the dialect supports it,
// by the store when EmulateAutoUpdate is set, and otherwise left alone
// with a warning logged once per table. Updating a missing row is not an
// error.
func (s *Store) Update(ctx context.Context, sch *schema.Schema, id interface{}, values Values) error {
	if err := checkColumns(sch, values); err != nil {
		return err
	}
	pk := sch.PrimaryField
	if pk == nil {
		return fmt.Errorf("%w: %s", ErrMissingPrimaryKey, sch.Table)
	}

	var (
		now         = s.now()
		assignments []string
		args        []interface{}
	)
	for _, field := range sch.Fields {
		if field == pk {
			continue
		}
		value, set := values[field.DBName]
		if ts := field.Timestamp; ts != nil {
			if set {
				var err error
				if value, err = ts.Clean(value); err != nil {
					return err
				}
			}
			if ts.AutoUpdate() && !dialect.SupportsOnUpdate(s.Dialect) {
				if s.EmulateAutoUpdate {
					value, set = ts.PreSave(value, now, false, true), true
				} else {
					s.warnUnenforced(ctx, sch, field)
				}
			}
			value = utc(value)
		}
		if !set {
			continue
		}
		args = append(args, value)
		assignments = append(assignments, s.Dialect.Quote(field.DBName)+" = "+s.Dialect.BindVar(len(args)))
	}
	if len(assignments) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		s.Dialect.Quote(sch.Table), strings.Join(assignments, ", "), s.Dialect.Quote(pk.DBName), s.Dialect.BindVar(len(args)))
	if _, err := s.exec(ctx, query, args...); err != nil {
		return s.Translator.Translate(err)
	}
	return nil
}

func (s *Store) warnUnenforced(ctx context.Context, sch *schema.Schema, field *schema.Field) {
	key := sch.Table + "." + field.DBName
	if _, loaded := s.warned.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	s.Logger.Warn(ctx, "%s: auto_update is not refreshed on %s, set EmulateAutoUpdate to refresh it on save", key, s.Dialect.Name())
}

// Get reads the row with primary key id. Timestamp columns come back as
// UTC time.Time values or nil.
func (s *Store) Get(ctx context.Context, sch *schema.Schema, id interface{}) (Values, error) {
	pk := sch.PrimaryField
	if pk == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPrimaryKey, sch.Table)
	}

	columns := make([]string, 0, len(sch.Fields))
	dest := make([]interface{}, 0, len(sch.Fields))
	for _, field := range sch.Fields {
		columns = append(columns, s.Dialect.Quote(field.DBName))
		dest = append(dest, newScanner(field))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(columns, ", "), s.Dialect.Quote(sch.Table), s.Dialect.Quote(pk.DBName), s.Dialect.BindVar(1))
	if err := s.scanRow(ctx, query, []interface{}{id}, dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %v: %w", sch.Table, id, ErrRecordNotFound)
		}
		return nil, s.Translator.Translate(err)
	}

	values := make(Values, len(sch.Fields))
	for i, field := range sch.Fields {
		values[field.DBName] = dest[i].(scanner).value()
	}
	return values, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	begin := time.Now()
	var (
		result sql.Result
		err    error
	)
	if s.stmts != nil {
		var stmt *sql.Stmt
		if stmt, err = s.stmts.Prepare(ctx, s.DB, query); err == nil {
			result, err = stmt.ExecContext(ctx, args...)
		}
	} else {
		result, err = s.DB.ExecContext(ctx, query, args...)
	}

	rows := int64(-1)
	if err == nil {
		if n, rerr := result.RowsAffected(); rerr == nil {
			rows = n
		}
	}
	s.trace(ctx, begin, query, args, rows, err)
	return result, err
}

func (s *Store) scanRow(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	begin := time.Now()
	var row *sql.Row
	if s.stmts != nil {
		stmt, err := s.stmts.Prepare(ctx, s.DB, query)
		if err != nil {
			s.trace(ctx, begin, query, args, 0, err)
			return err
		}
		row = stmt.QueryRowContext(ctx, args...)
	} else {
		row = s.DB.QueryRowContext(ctx, query, args...)
	}

	err := row.Scan(dest...)
	rows := int64(1)
	if err != nil {
		rows = 0
	}
	s.trace(ctx, begin, query, args, rows, err)
	return err
}

func (s *Store) trace(ctx context.Context, begin time.Time, query string, args []interface{}, rows int64, err error) {
	s.Logger.Trace(ctx, begin, func() (string, int64) {
		return logger.Explain(ctx, s.Logger, s.Dialect.BindVar(1) != "?", query, args...), rows
	}, err)
}

func utc(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.UTC()
	}
	return v
}
