package dialect

import "fmt"

type postgres struct{}

func init() {
	RegisterDialect(Postgres, &postgres{})
}

func (*postgres) Name() Backend {
	return Postgres
}

func (*postgres) BindVar(i int) string {
	return fmt.Sprintf("$%v", i)
}

func (*postgres) Quote(key string) string {
	return fmt.Sprintf(`"%s"`, key)
}

func (*postgres) NowExpr() string {
	return "now()"
}

func (*postgres) DateTimeType() string {
	return baseDateTimeTypes[Postgres]
}

func (p *postgres) DataTypeOf(kind Kind, size int, primaryKey bool) string {
	switch kind {
	case Bool:
		return "boolean"
	case Int:
		if primaryKey {
			return "bigserial PRIMARY KEY"
		}
		return "bigint"
	case Float:
		return "numeric"
	case String:
		if size > 0 && size < 65532 {
			return fmt.Sprintf("varchar(%d)", size)
		}
		return "text"
	case Bytes:
		return "bytea"
	case DateTime:
		return p.DateTimeType()
	}
	panic(fmt.Sprintf("invalid sql kind %d for postgres", kind))
}

// RenderTimestamp forces a zone-less TIMESTAMP. PostgreSQL has no column
// level ON UPDATE, so AutoUpdate renders nothing here.
func (*postgres) RenderTimestamp(opts TimestampOptions) ColumnTypeSpec {
	var def string
	switch {
	case opts.Default != nil:
		def = defaultLiteral(opts.Default)
	case opts.AutoCreate:
		def = "default now()"
	}
	return ColumnTypeSpec{SQLType: "timestamp without time zone", DefaultClause: clause(def)}
}

func (*postgres) ReturningStr(key string) string {
	return fmt.Sprintf(`RETURNING "%v"`, key)
}

func (*postgres) SupportLastInsertID() bool {
	return false
}
