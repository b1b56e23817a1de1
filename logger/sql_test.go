package logger_test

import (
	"context"
	"database/sql"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/forcedfields/forcedfields/logger"
)

func TestExplainSQL(t *testing.T) {
	var (
		created = time.Date(2000, 1, 1, 0, 0, 1, 0, time.UTC)
		updated = time.Date(2001, 2, 3, 4, 5, 6, 789000000, time.UTC)
	)

	tests := []struct {
		name    string
		sql     string
		numeric bool
		vars    []interface{}
		want    string
	}{
		{
			name: "question marks",
			sql:  "INSERT INTO `tsrecord` (`name`, `ts_field_1`, `ts_field_2`, `flag`, `rank`) VALUES (?, ?, ?, ?, ?)",
			vars: []interface{}{"it's", created, &updated, true, 3},
			want: "INSERT INTO `tsrecord` (`name`, `ts_field_1`, `ts_field_2`, `flag`, `rank`) VALUES ('it\\'s', '2000-01-01 00:00:01', '2001-02-03 04:05:06.789', true, 3)",
		},
		{
			name: "question mark inside a value",
			sql:  "UPDATE `t` SET `a` = ?, `b` = ? WHERE `id` = ?",
			vars: []interface{}{"why?", nil, int64(7)},
			want: "UPDATE `t` SET `a` = 'why?', `b` = NULL WHERE `id` = 7",
		},
		{
			name: "fewer vars than placeholders",
			sql:  "INSERT INTO t (a, b) VALUES (?, ?)",
			vars: []interface{}{"why?"},
			want: "INSERT INTO t (a, b) VALUES ('why?', ?)",
		},
		{
			name:    "numeric placeholders out of order",
			sql:     `UPDATE "t" SET "ts" = $2 WHERE "id" = $1`,
			numeric: true,
			vars:    []interface{}{1, created},
			want:    `UPDATE "t" SET "ts" = '2000-01-01 00:00:01' WHERE "id" = 1`,
		},
		{
			name:    "ten or more placeholders",
			sql:     "SELECT $1, $10, $11",
			numeric: true,
			vars:    []interface{}{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
			want:    "SELECT 1, 10, 11",
		},
		{
			name: "valuers and bytes",
			sql:  "SELECT ?, ?, ?",
			vars: []interface{}{sql.NullTime{}, sql.NullTime{Time: created, Valid: true}, []byte{0x00, 0x01}},
			want: "SELECT NULL, '2000-01-01 00:00:01', '<binary>'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var re = logger.NumericPlaceholder
			if !tt.numeric {
				re = nil
			}
			vars := append([]interface{}(nil), tt.vars...)
			assert.Equal(t, tt.want, logger.ExplainSQL(tt.sql, re, `'`, vars...))
			assert.Equal(t, tt.vars, vars)
		})
	}
}

func TestExplain(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2000, 1, 1, 0, 0, 1, 0, time.UTC)

	l := logger.New(log.New(io.Discard, "", 0), logger.Config{})
	assert.Equal(t, "SELECT '2000-01-01 00:00:01'", logger.Explain(ctx, l, false, "SELECT ?", ts))
	assert.Equal(t, "SELECT 2, 1", logger.Explain(ctx, l, true, "SELECT $2, $1", 1, 2))
	assert.Equal(t, "SELECT 1", logger.Explain(ctx, l, false, "SELECT 1"))

	parameterized := logger.New(log.New(io.Discard, "", 0), logger.Config{ParameterizedQueries: true})
	assert.Equal(t, "SELECT ?", logger.Explain(ctx, parameterized, false, "SELECT ?", ts))
}
