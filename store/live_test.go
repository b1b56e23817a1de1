package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcedfields/forcedfields/errtranslator"
	"github.com/forcedfields/forcedfields/internal/fixtures"
	"github.com/forcedfields/forcedfields/internal/testdb"
	"github.com/forcedfields/forcedfields/logger"
	"github.com/forcedfields/forcedfields/migrator"
	"github.com/forcedfields/forcedfields/store"
)

func TestLiveInsert(t *testing.T) {
	for _, b := range testdb.Backends {
		t.Run(string(b.Name), func(t *testing.T) {
			conn := testdb.Open(t, b)
			ctx := context.Background()
			ns := testdb.Naming()
			m := migrator.New(conn.DB, conn.Dialect, migrator.WithLogger(logger.Discard))
			s := store.New(conn.DB, conn.Dialect, store.WithLogger(logger.Discard))

			inputs := [3]store.Values{
				fixtures.Unset:       {},
				fixtures.ExplicitNil: {fixtures.FieldName: nil},
				fixtures.Value:       {fixtures.FieldName: fixtures.AssignedTime},
			}

			for _, c := range fixtures.Valid() {
				sch := c.Schema(ns)
				require.NoError(t, m.CreateTable(ctx, sch), c.String())
				t.Cleanup(func() { m.DropTable(context.Background(), sch.Table) })

				for i, values := range inputs {
					before := time.Now().UTC().Add(-time.Minute)
					id, err := s.Insert(ctx, sch, values)
					want := c.Inserts[i]
					if want == fixtures.NotNull {
						assert.ErrorIs(t, err, errtranslator.ErrNotNullViolation, "%s case %d", c, i)
						continue
					}
					require.NoError(t, err, "%s case %d", c, i)

					row, err := s.Get(ctx, sch, id)
					require.NoError(t, err, "%s case %d", c, i)
					got := row[fixtures.FieldName]

					switch want {
					case fixtures.Null:
						assert.Nil(t, got, "%s case %d", c, i)
					case fixtures.Now:
						require.IsType(t, time.Time{}, got, "%s case %d", c, i)
						assert.True(t, got.(time.Time).After(before), "%s case %d", c, i)
					case fixtures.Default:
						assert.Equal(t, fixtures.DefaultTime, got, "%s case %d", c, i)
					case fixtures.Assigned:
						assert.Equal(t, fixtures.AssignedTime, got, "%s case %d", c, i)
					}
				}
			}
		})
	}
}
