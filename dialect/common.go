package dialect

import "fmt"

var baseDateTimeTypes = map[Backend]string{
	MySQL:     "datetime(6)",
	Postgres:  "timestamp with time zone",
	SQLite:    "datetime",
	SQLServer: "datetime2",
	Oracle:    "timestamp",
}

// Common is the fallback dialect for backends without a dedicated
// implementation. It never forces a TIMESTAMP column.
type Common struct {
	Backend Backend
}

func init() {
	RegisterDialect(SQLServer, &Common{Backend: SQLServer})
	RegisterDialect(Oracle, &Common{Backend: Oracle})
}

func (c *Common) Name() Backend {
	return c.Backend
}

func (*Common) BindVar(i int) string {
	return "?"
}

func (*Common) Quote(key string) string {
	return fmt.Sprintf(`"%s"`, key)
}

func (*Common) NowExpr() string {
	return "CURRENT_TIMESTAMP"
}

func (c *Common) DateTimeType() string {
	if t, ok := baseDateTimeTypes[c.Backend]; ok {
		return t
	}
	return "datetime"
}

func (c *Common) DataTypeOf(kind Kind, size int, primaryKey bool) string {
	switch kind {
	case Bool:
		return "BOOLEAN"
	case Int:
		if primaryKey {
			return "BIGINT NOT NULL PRIMARY KEY"
		}
		return "BIGINT"
	case Float:
		return "FLOAT"
	case String:
		if size > 0 && size < 65532 {
			return fmt.Sprintf("VARCHAR(%d)", size)
		}
		return "VARCHAR(65532)"
	case Bytes:
		if size > 0 && size < 65532 {
			return fmt.Sprintf("BINARY(%d)", size)
		}
		return "BINARY(65532)"
	case DateTime:
		return c.DateTimeType()
	}
	panic(fmt.Sprintf("invalid sql kind %d for %s", kind, c.Backend))
}

func (*Common) ReturningStr(key string) string {
	return ""
}

func (*Common) SupportLastInsertID() bool {
	return true
}
