// Package forcedfields provides model fields that force a specific SQL
// column type regardless of the generic type an ORM would pick.
//
// TimestampField renders a native TIMESTAMP column on MySQL and PostgreSQL
// and lets the database maintain creation and modification times where the
// backend supports it:
//
//	f := forcedfields.NewTimestampField(
//		forcedfields.WithAutoCreate(true),
//		forcedfields.WithAutoUpdate(true),
//	)
//	f.DataType("mysql")    // timestamp default current_timestamp on update current_timestamp
//	f.DataType("postgres") // timestamp without time zone default now()
//
// Other backends fall back to their generic datetime column type.
package forcedfields

import (
	"time"

	"github.com/forcedfields/forcedfields/checks"
	"github.com/forcedfields/forcedfields/dialect"
)

// ColumnTypeSpec is the rendered column type of a field for one backend.
type ColumnTypeSpec = dialect.ColumnTypeSpec

// Check identifiers reported by TimestampField.Check.
const (
	// IDMutuallyExclusive is the generic datetime rule: auto_create cannot
	// be combined with auto_update or an explicit default.
	IDMutuallyExclusive = "fields.E160"
	// IDLegacyAutoNow flags auto_create combined with the deprecated
	// auto_now option.
	IDLegacyAutoNow = "forcedfields.E160"
)

// TimestampField describes a column stored as a native TIMESTAMP. It is
// immutable once built and safe for concurrent use.
type TimestampField struct {
	name       string
	autoCreate bool
	autoUpdate bool
	autoNow    bool
	nullable   bool
	def        *time.Time
}

// Option configures a TimestampField.
type Option func(*TimestampField)

// WithAutoCreate sets the column to the current time when a row is inserted.
func WithAutoCreate(v bool) Option {
	return func(f *TimestampField) { f.autoCreate = v }
}

// WithAutoUpdate sets the column to the current time whenever the row is
// modified.
func WithAutoUpdate(v bool) Option {
	return func(f *TimestampField) { f.autoUpdate = v }
}

// WithAutoNow is the former name of WithAutoUpdate.
//
// Deprecated: use WithAutoUpdate. Combining it with WithAutoCreate is
// reported as forcedfields.E160.
func WithAutoNow(v bool) Option {
	return func(f *TimestampField) { f.autoNow = v }
}

// WithNullable allows NULL in the column.
func WithNullable(v bool) Option {
	return func(f *TimestampField) { f.nullable = v }
}

// WithDefault renders an explicit default value.
func WithDefault(t time.Time) Option {
	return func(f *TimestampField) { f.def = &t }
}

// WithName names the field in reported issues, usually "table.column".
func WithName(name string) Option {
	return func(f *TimestampField) { f.name = name }
}

// NewTimestampField builds a field. All flags default to false.
func NewTimestampField(opts ...Option) *TimestampField {
	f := &TimestampField{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Named returns a copy of f carrying name.
func (f *TimestampField) Named(name string) *TimestampField {
	c := *f
	c.name = name
	return &c
}

func (f *TimestampField) Name() string {
	return f.name
}

func (f *TimestampField) AutoCreate() bool {
	return f.autoCreate
}

// AutoUpdate reports whether the column is refreshed on modification,
// through either auto_update or the deprecated auto_now.
func (f *TimestampField) AutoUpdate() bool {
	return f.autoUpdate || f.autoNow
}

// LegacyAutoNow reports whether the deprecated auto_now option was used.
func (f *TimestampField) LegacyAutoNow() bool {
	return f.autoNow
}

func (f *TimestampField) Nullable() bool {
	return f.nullable
}

// Default returns a copy of the explicit default, or nil.
func (f *TimestampField) Default() *time.Time {
	if f.def == nil {
		return nil
	}
	t := *f.def
	return &t
}

func (f *TimestampField) options() dialect.TimestampOptions {
	return dialect.TimestampOptions{
		AutoCreate: f.autoCreate,
		AutoUpdate: f.AutoUpdate(),
		Nullable:   f.nullable,
		Default:    f.Default(),
	}
}

// ColumnType resolves the column type and default clause for a backend.
// Names are normalized, so "postgresql" and "pgx" select PostgreSQL.
func (f *TimestampField) ColumnType(backend string) ColumnTypeSpec {
	return dialect.Resolve(backend, f.options())
}

// ColumnTypeOf resolves the column type for a dialect value.
func (f *TimestampField) ColumnTypeOf(d dialect.Dialect) ColumnTypeSpec {
	return dialect.ResolveFor(d, f.options())
}

// DataType is the full column type, clause included, for a backend.
func (f *TimestampField) DataType(backend string) string {
	return f.ColumnType(backend).String()
}

// HasSchemaDefault reports whether the database fills the column on
// INSERT by itself for the given dialect.
func (f *TimestampField) HasSchemaDefault(d dialect.Dialect) bool {
	if _, ok := d.(dialect.TimestampRenderer); !ok {
		return false
	}
	return f.autoCreate || f.def != nil
}

// Check reports unsupported flag combinations. It never panics and
// returns nil for a valid field.
func (f *TimestampField) Check() []checks.Issue {
	var issues []checks.Issue
	if f.autoCreate && (f.autoUpdate || f.def != nil) {
		issues = append(issues, checks.NewError(
			IDMutuallyExclusive, f.obj(),
			"The option auto_create cannot be combined with auto_update or default.",
			"",
		))
	}
	if f.autoCreate && f.autoNow {
		issues = append(issues, checks.NewError(
			IDLegacyAutoNow, f.obj(),
			"The deprecated option auto_now cannot be combined with auto_create.",
			"Replace auto_now with auto_update.",
		))
	}
	return issues
}

func (f *TimestampField) obj() string {
	if f.name != "" {
		return f.name
	}
	return "TimestampField"
}
