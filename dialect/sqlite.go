package dialect

import "fmt"

type sqlite struct{}

func init() {
	RegisterDialect(SQLite, &sqlite{})
}

func (*sqlite) Name() Backend {
	return SQLite
}

func (*sqlite) BindVar(i int) string {
	return "?"
}

func (*sqlite) Quote(key string) string {
	return fmt.Sprintf("`%s`", key)
}

func (*sqlite) NowExpr() string {
	return "CURRENT_TIMESTAMP"
}

func (*sqlite) DateTimeType() string {
	return baseDateTimeTypes[SQLite]
}

func (s *sqlite) DataTypeOf(kind Kind, size int, primaryKey bool) string {
	switch kind {
	case Bool:
		return "bool"
	case Int:
		if primaryKey {
			return "integer PRIMARY KEY AUTOINCREMENT"
		}
		return "integer"
	case Float:
		return "real"
	case String:
		if size > 0 && size < 65532 {
			return fmt.Sprintf("varchar(%d)", size)
		}
		return "text"
	case Bytes:
		return "blob"
	case DateTime:
		return s.DateTimeType()
	}
	panic(fmt.Sprintf("invalid sql kind %d for sqlite", kind))
}

func (*sqlite) ReturningStr(key string) string {
	return ""
}

func (*sqlite) SupportLastInsertID() bool {
	return true
}
