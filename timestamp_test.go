package forcedfields_test

import (
	"sync"
	"time"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forcedfields/forcedfields"
	"github.com/forcedfields/forcedfields/internal/fixtures"
)

func TestColumnTypeMySQL(t *testing.T) {
	for _, config := range fixtures.Timestamp {
		t.Run(config.String(), func(t *testing.T) {
			assert.Equal(t, config.MySQL, config.Field().DataType("mysql"))
		})
	}
}

func TestColumnTypePostgres(t *testing.T) {
	for _, config := range fixtures.Timestamp {
		t.Run(config.String(), func(t *testing.T) {
			field := config.Field()
			assert.Equal(t, config.Postgres, field.DataType("postgresql"))
			assert.Equal(t, config.Postgres, field.DataType("pgx"))
		})
	}
}

func TestColumnTypeSpecParts(t *testing.T) {
	field := forcedfields.NewTimestampField(
		forcedfields.WithAutoCreate(true),
		forcedfields.WithAutoUpdate(true),
	)

	mysql := field.ColumnType("mysql")
	assert.Equal(t, "timestamp", mysql.SQLType)
	if assert.NotNil(t, mysql.DefaultClause) {
		assert.Equal(t, "default current_timestamp on update current_timestamp", *mysql.DefaultClause)
	}

	pg := field.ColumnType("postgresql")
	assert.Equal(t, "timestamp without time zone", pg.SQLType)
	if assert.NotNil(t, pg.DefaultClause) {
		assert.Equal(t, "default now()", *pg.DefaultClause)
	}

	plain := forcedfields.NewTimestampField().ColumnType("mysql")
	assert.Nil(t, plain.DefaultClause)
}

func TestColumnTypeFallback(t *testing.T) {
	field := forcedfields.NewTimestampField(
		forcedfields.WithAutoCreate(true),
		forcedfields.WithAutoUpdate(true),
	)

	cases := map[string]string{
		"sqlite3":   "datetime",
		"sqlserver": "datetime2",
		"oracle":    "timestamp",
		"firebird":  "datetime",
	}
	for backend, want := range cases {
		spec := field.ColumnType(backend)
		assert.Equal(t, want, spec.SQLType, backend)
		assert.Nil(t, spec.DefaultClause, backend)
	}
}

func TestLegacyAutoNowRendersLikeAutoUpdate(t *testing.T) {
	legacy := forcedfields.NewTimestampField(forcedfields.WithAutoNow(true))
	current := forcedfields.NewTimestampField(forcedfields.WithAutoUpdate(true))

	assert.True(t, legacy.AutoUpdate())
	assert.True(t, legacy.LegacyAutoNow())
	assert.False(t, current.LegacyAutoNow())
	for _, backend := range []string{"mysql", "postgres", "sqlite"} {
		assert.Equal(t, current.ColumnType(backend), legacy.ColumnType(backend), backend)
	}
}

func TestColumnTypeConcurrent(t *testing.T) {
	field := forcedfields.NewTimestampField(
		forcedfields.WithAutoCreate(true),
		forcedfields.WithAutoUpdate(true),
	)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "timestamp default current_timestamp on update current_timestamp", field.DataType("mysql"))
			assert.Len(t, field.Check(), 1)
		}()
	}
	wg.Wait()
}

func TestDefaultIsCopied(t *testing.T) {
	field := fixtures.Config{Options: []string{"default"}}.Field()
	def := field.Default()
	*def = def.AddDate(1, 0, 0)
	assert.Equal(t, fixtures.DefaultTime, *field.Default())
}

func TestDefaultRendersInUTC(t *testing.T) {
	def := time.Date(2000, 1, 1, 2, 0, 1, 0, time.FixedZone("", 2*60*60))
	field := forcedfields.NewTimestampField(forcedfields.WithDefault(def))

	assert.Equal(t, "timestamp default '2000-01-01 00:00:01'", field.DataType("mysql"))
	assert.Equal(t, "timestamp without time zone default '2000-01-01 00:00:01'", field.DataType("postgresql"))
}
