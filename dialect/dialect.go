package dialect

import (
	"strings"
	"sync"
	"time"
)

// Backend identifies a relational database engine.
type Backend string

const (
	MySQL     Backend = "mysql"
	Postgres  Backend = "postgres"
	SQLite    Backend = "sqlite"
	SQLServer Backend = "sqlserver"
	Oracle    Backend = "oracle"
)

var aliases = map[string]Backend{
	"mysql":      MySQL,
	"mariadb":    MySQL,
	"postgres":   Postgres,
	"postgresql": Postgres,
	"pgx":        Postgres,
	"pq":         Postgres,
	"sqlite":     SQLite,
	"sqlite3":    SQLite,
	"sqlserver":  SQLServer,
	"mssql":      SQLServer,
	"oracle":     Oracle,
	"godror":     Oracle,
}

// Normalize maps driver and engine names onto a Backend. Unknown names are
// lowercased and returned as is.
func Normalize(name string) Backend {
	name = strings.ToLower(strings.TrimSpace(name))
	if b, ok := aliases[name]; ok {
		return b
	}
	return Backend(name)
}

// Kind is the storage class of a non-timestamp column.
type Kind int

const (
	Invalid Kind = iota
	Bool
	Int
	Float
	String
	Bytes
	DateTime
)

// Dialect renders the SQL a backend needs for table definitions and rows.
type Dialect interface {
	Name() Backend
	Quote(key string) string
	BindVar(i int) string
	NowExpr() string
	// DateTimeType is the generic datetime column type of the backend.
	DateTimeType() string
	DataTypeOf(kind Kind, size int, primaryKey bool) string
	ReturningStr(key string) string
	SupportLastInsertID() bool
}

// TimestampRenderer is implemented by dialects that force a native
// TIMESTAMP column.
type TimestampRenderer interface {
	RenderTimestamp(opts TimestampOptions) ColumnTypeSpec
}

// OnUpdateSupporter reports whether a dialect can refresh a column on
// UPDATE at the schema level.
type OnUpdateSupporter interface {
	SupportsOnUpdate() bool
}

// TimestampOptions is the rendering input of a timestamp column.
type TimestampOptions struct {
	AutoCreate bool
	AutoUpdate bool
	Nullable   bool
	Default    *time.Time
}

// DefaultLayout formats explicit default values.
const DefaultLayout = "2006-01-02 15:04:05"

// ColumnTypeSpec is a rendered column type and its default clause.
type ColumnTypeSpec struct {
	SQLType       string
	DefaultClause *string
}

// String returns the full column type, clause included.
func (c ColumnTypeSpec) String() string {
	if c.DefaultClause == nil || *c.DefaultClause == "" {
		return c.SQLType
	}
	return c.SQLType + " " + *c.DefaultClause
}

// Clause returns the default clause or an empty string.
func (c ColumnTypeSpec) Clause() string {
	if c.DefaultClause == nil {
		return ""
	}
	return *c.DefaultClause
}

var (
	mu       sync.RWMutex
	dialects = map[Backend]Dialect{}
)

// RegisterDialect makes a dialect available under its backend name.
func RegisterDialect(name Backend, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[name] = d
}

// UnregisterDialect removes a registered dialect.
func UnregisterDialect(name Backend) {
	mu.Lock()
	defer mu.Unlock()
	delete(dialects, name)
}

// Backends lists the registered backend names.
func Backends() []Backend {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]Backend, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	return names
}

// Lookup returns the dialect registered for name, after normalization.
func Lookup(name string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[Normalize(name)]
	return d, ok
}

// Get returns the dialect registered for name, or a Common dialect
// carrying the normalized name.
func Get(name string) Dialect {
	if d, ok := Lookup(name); ok {
		return d
	}
	return &Common{Backend: Normalize(name)}
}

// Resolve renders a timestamp column for the named backend. Dialects
// without the TimestampRenderer capability get their generic datetime type
// and no clause.
func Resolve(name string, opts TimestampOptions) ColumnTypeSpec {
	return ResolveFor(Get(name), opts)
}

// ResolveFor is Resolve for a dialect value.
func ResolveFor(d Dialect, opts TimestampOptions) ColumnTypeSpec {
	if r, ok := d.(TimestampRenderer); ok {
		return r.RenderTimestamp(opts)
	}
	return ColumnTypeSpec{SQLType: d.DateTimeType()}
}

// SupportsOnUpdate reports whether d refreshes timestamps on UPDATE itself.
func SupportsOnUpdate(d Dialect) bool {
	s, ok := d.(OnUpdateSupporter)
	return ok && s.SupportsOnUpdate()
}

func clause(parts ...string) *string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}
	s := strings.Join(nonEmpty, " ")
	return &s
}

// defaultLiteral renders t in UTC, the zone the store writes defaults in.
func defaultLiteral(t *time.Time) string {
	return "default '" + t.UTC().Format(DefaultLayout) + "'"
}
