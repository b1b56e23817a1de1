package migrator

import (
	"database/sql"
	"strings"
)

// ColumnType is a column as the database reports it.
type ColumnType struct {
	NameValue         sql.NullString
	DataTypeValue     sql.NullString
	NullableValue     sql.NullBool
	DefaultValueValue sql.NullString
	ExtraValue        sql.NullString
	PrimaryKeyValue   sql.NullBool
}

// Name returns the name of the column.
func (ct ColumnType) Name() string {
	return ct.NameValue.String
}

// DataType returns the lower cased type name, like "timestamp" or
// "timestamp without time zone".
func (ct ColumnType) DataType() string {
	return strings.ToLower(ct.DataTypeValue.String)
}

// Nullable reports whether the column may be null.
func (ct ColumnType) Nullable() (nullable bool, ok bool) {
	return ct.NullableValue.Bool, ct.NullableValue.Valid
}

// DefaultValue returns the lower cased default expression of the column,
// e.g. "current_timestamp" on MySQL or "now()" on PostgreSQL.
func (ct ColumnType) DefaultValue() (value string, ok bool) {
	return strings.ToLower(ct.DefaultValueValue.String), ct.DefaultValueValue.Valid
}

// Extra returns the lower cased MySQL EXTRA attribute, which holds
// "on update current_timestamp". Other backends report "".
func (ct ColumnType) Extra() string {
	return strings.ToLower(ct.ExtraValue.String)
}

// PrimaryKey returns the column is primary key or not.
func (ct ColumnType) PrimaryKey() (isPrimaryKey bool, ok bool) {
	return ct.PrimaryKeyValue.Bool, ct.PrimaryKeyValue.Valid
}

// OnUpdateNow reports whether the database refreshes the column on UPDATE.
func (ct ColumnType) OnUpdateNow() bool {
	return strings.Contains(ct.Extra(), "on update current_timestamp")
}
