package migrator

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/forcedfields/forcedfields/dialect"
)

// catalog holds the introspection queries of one backend. Table names are
// bound as arguments unless columnsSQL formats them in.
type catalog struct {
	hasTableSQL string
	columnsSQL  func(d dialect.Dialect, table string) (string, []interface{})
	scan        func(rows *sql.Rows) (ColumnType, error)
}

var catalogs = map[dialect.Backend]catalog{
	dialect.MySQL: {
		hasTableSQL: "SELECT count(*) FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND TABLE_TYPE = 'BASE TABLE'",
		columnsSQL: func(_ dialect.Dialect, table string) (string, []interface{}) {
			return "SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_DEFAULT, EXTRA, COLUMN_KEY FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION", []interface{}{table}
		},
		scan: func(rows *sql.Rows) (ColumnType, error) {
			var (
				ct                 ColumnType
				isNullable, colKey string
			)
			err := rows.Scan(&ct.NameValue, &ct.DataTypeValue, &isNullable, &ct.DefaultValueValue, &ct.ExtraValue, &colKey)
			ct.NullableValue = sql.NullBool{Bool: strings.EqualFold(isNullable, "YES"), Valid: true}
			ct.PrimaryKeyValue = sql.NullBool{Bool: colKey == "PRI", Valid: true}
			return ct, err
		},
	},
	dialect.Postgres: {
		hasTableSQL: "SELECT count(*) FROM information_schema.tables WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1 AND table_type = 'BASE TABLE'",
		columnsSQL: func(_ dialect.Dialect, table string) (string, []interface{}) {
			return "SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_schema = CURRENT_SCHEMA() AND table_name = $1 ORDER BY ordinal_position", []interface{}{table}
		},
		scan: func(rows *sql.Rows) (ColumnType, error) {
			var (
				ct         ColumnType
				isNullable string
			)
			err := rows.Scan(&ct.NameValue, &ct.DataTypeValue, &isNullable, &ct.DefaultValueValue)
			ct.NullableValue = sql.NullBool{Bool: strings.EqualFold(isNullable, "YES"), Valid: true}
			return ct, err
		},
	},
	dialect.SQLite: {
		hasTableSQL: "SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		columnsSQL: func(d dialect.Dialect, table string) (string, []interface{}) {
			return fmt.Sprintf("PRAGMA table_info(%s)", d.Quote(table)), nil
		},
		scan: func(rows *sql.Rows) (ColumnType, error) {
			var (
				ct          ColumnType
				cid         int
				notNull, pk int
			)
			err := rows.Scan(&cid, &ct.NameValue, &ct.DataTypeValue, &notNull, &ct.DefaultValueValue, &pk)
			ct.NullableValue = sql.NullBool{Bool: notNull == 0 && pk == 0, Valid: true}
			ct.PrimaryKeyValue = sql.NullBool{Bool: pk > 0, Valid: true}
			return ct, err
		},
	},
}

func catalogFor(d dialect.Dialect) (catalog, error) {
	c, ok := catalogs[d.Name()]
	if !ok {
		return catalog{}, fmt.Errorf("%w: %s", ErrUnsupportedBackend, d.Name())
	}
	return c, nil
}
