package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// Namer maps Go model and field names to table and column names.
type Namer interface {
	TableName(model string) string
	ColumnName(table, field string) string
}

// NamingStrategy snake cases names. Tables are pluralised unless
// SingularTable is set, then prefixed with TablePrefix.
type NamingStrategy struct {
	TablePrefix   string
	SingularTable bool
}

func (ns NamingStrategy) TableName(model string) string {
	name := toDBName(model)
	if !ns.SingularTable {
		name = inflection.Plural(name)
	}
	return ns.TablePrefix + name
}

func (ns NamingStrategy) ColumnName(_, field string) string {
	return toDBName(field)
}

// toDBName starts a new word at an upper case rune that follows a lower
// case rune or digit, or that ends a run of capitals ("HTTPServer" is
// "http_server"). Digits stay with the word before them.
func toDBName(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' &&
				(!unicode.IsUpper(runes[i-1]) || i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
