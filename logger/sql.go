package logger

import (
	"context"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const tsLayout = "2006-01-02 15:04:05.999999"

// NumericPlaceholder matches $1 style bind variables.
var NumericPlaceholder = regexp.MustCompile(`\$(\d+)`)

func isPrintable(s []byte) bool {
	for _, r := range s {
		if !unicode.IsPrint(rune(r)) {
			return false
		}
	}
	return true
}

func quoted(s, escaper string) string {
	return escaper + strings.ReplaceAll(s, escaper, "\\"+escaper) + escaper
}

func literal(v interface{}, escaper string) string {
	if valuer, ok := v.(driver.Valuer); ok {
		v, _ = valuer.Value()
	}

	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return escaper + v.Format(tsLayout) + escaper
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return escaper + v.Format(tsLayout) + escaper
	case []byte:
		if isPrintable(v) {
			return quoted(string(v), escaper)
		}
		return escaper + "<binary>" + escaper
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64, float32:
		return fmt.Sprintf("%.6f", v)
	case string:
		return quoted(v, escaper)
	}
	return quoted(fmt.Sprint(v), escaper)
}

// ExplainSQL inlines vars into sql for logging. With a nil
// numericPlaceholder each "?" is replaced in order; otherwise $n refers to
// vars[n-1]. vars is left untouched.
func ExplainSQL(sql string, numericPlaceholder *regexp.Regexp, escaper string, vars ...interface{}) string {
	rendered := make([]string, len(vars))
	for idx, v := range vars {
		rendered[idx] = literal(v, escaper)
	}

	if numericPlaceholder == nil {
		parts := strings.Split(sql, "?")
		var buf strings.Builder
		for i, part := range parts {
			buf.WriteString(part)
			if i == len(parts)-1 {
				break
			}
			if i < len(rendered) {
				buf.WriteString(rendered[i])
			} else {
				buf.WriteByte('?')
			}
		}
		return buf.String()
	}

	return numericPlaceholder.ReplaceAllStringFunc(sql, func(m string) string {
		n, err := strconv.Atoi(numericPlaceholder.FindStringSubmatch(m)[1])
		if err != nil || n < 1 || n > len(rendered) {
			return m
		}
		return rendered[n-1]
	})
}

// Explain renders a traced statement, inlining vars unless l filters them.
// Set numeric for $n bind variables.
func Explain(ctx context.Context, l Interface, numeric bool, sql string, vars ...interface{}) string {
	if pf, ok := l.(ParamsFilter); ok {
		sql, vars = pf.ParamsFilter(ctx, sql, vars...)
	}
	if len(vars) == 0 {
		return sql
	}
	if numeric {
		return ExplainSQL(sql, NumericPlaceholder, `'`, vars...)
	}
	return ExplainSQL(sql, nil, `'`, vars...)
}
