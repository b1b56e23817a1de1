package dialect

import "fmt"

type mysql struct{}

func init() {
	RegisterDialect(MySQL, &mysql{})
}

func (*mysql) Name() Backend {
	return MySQL
}

func (*mysql) BindVar(i int) string {
	return "?"
}

func (*mysql) Quote(key string) string {
	return fmt.Sprintf("`%s`", key)
}

func (*mysql) NowExpr() string {
	return "current_timestamp"
}

func (*mysql) DateTimeType() string {
	return baseDateTimeTypes[MySQL]
}

func (m *mysql) DataTypeOf(kind Kind, size int, primaryKey bool) string {
	switch kind {
	case Bool:
		return "boolean"
	case Int:
		if primaryKey {
			return "bigint NOT NULL AUTO_INCREMENT PRIMARY KEY"
		}
		return "bigint"
	case Float:
		return "double"
	case String:
		if size > 0 && size < 65532 {
			return fmt.Sprintf("varchar(%d)", size)
		}
		return "longtext"
	case Bytes:
		if size > 0 && size < 65532 {
			return fmt.Sprintf("varbinary(%d)", size)
		}
		return "longblob"
	case DateTime:
		return m.DateTimeType()
	}
	panic(fmt.Sprintf("invalid sql kind %d for mysql", kind))
}

// RenderTimestamp forces TIMESTAMP and lets the server maintain the value
// on INSERT and UPDATE.
func (*mysql) RenderTimestamp(opts TimestampOptions) ColumnTypeSpec {
	var def, onUpdate string
	switch {
	case opts.Default != nil:
		def = defaultLiteral(opts.Default)
	case opts.AutoCreate:
		def = "default current_timestamp"
	}
	if opts.AutoUpdate {
		onUpdate = "on update current_timestamp"
	}
	return ColumnTypeSpec{SQLType: "timestamp", DefaultClause: clause(def, onUpdate)}
}

func (*mysql) SupportsOnUpdate() bool {
	return true
}

func (*mysql) ReturningStr(key string) string {
	return ""
}

func (*mysql) SupportLastInsertID() bool {
	return true
}
