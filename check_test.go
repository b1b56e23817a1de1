package forcedfields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcedfields/forcedfields"
	"github.com/forcedfields/forcedfields/checks"
	"github.com/forcedfields/forcedfields/internal/fixtures"
)

func TestFieldArgumentCheck(t *testing.T) {
	tests := map[string][]forcedfields.Option{
		forcedfields.IDMutuallyExclusive: {forcedfields.WithAutoCreate(true), forcedfields.WithAutoUpdate(true)},
		forcedfields.IDLegacyAutoNow:     {forcedfields.WithAutoCreate(true), forcedfields.WithAutoNow(true)},
	}

	for id, opts := range tests {
		t.Run(id, func(t *testing.T) {
			issues := forcedfields.NewTimestampField(opts...).Named("records.ts_field_1").Check()
			require.Len(t, issues, 1)
			assert.Equal(t, id, issues[0].ID)
			assert.Equal(t, checks.Error, issues[0].Level)
			assert.Equal(t, "records.ts_field_1", issues[0].Obj)
		})
	}
}

func TestCheckWithDefault(t *testing.T) {
	issues := forcedfields.NewTimestampField(
		forcedfields.WithAutoCreate(true),
		forcedfields.WithDefault(fixtures.DefaultTime),
	).Check()
	require.Len(t, issues, 1)
	assert.Equal(t, forcedfields.IDMutuallyExclusive, issues[0].ID)
	assert.Equal(t, "TimestampField", issues[0].Obj)
}

func TestCheckReportsEveryRule(t *testing.T) {
	issues := forcedfields.NewTimestampField(
		forcedfields.WithAutoCreate(true),
		forcedfields.WithAutoUpdate(true),
		forcedfields.WithAutoNow(true),
	).Check()
	require.Len(t, issues, 2)
	assert.Equal(t, forcedfields.IDMutuallyExclusive, issues[0].ID)
	assert.Equal(t, forcedfields.IDLegacyAutoNow, issues[1].ID)
}

func TestCheckFixtures(t *testing.T) {
	for _, config := range fixtures.Timestamp {
		t.Run(config.String(), func(t *testing.T) {
			var ids []string
			for _, issue := range config.Field().Check() {
				ids = append(ids, issue.ID)
			}
			assert.Equal(t, config.Issues, ids)
		})
	}
}

func TestFieldIsChecker(t *testing.T) {
	var checker checks.Checker = forcedfields.NewTimestampField(forcedfields.WithAutoUpdate(true))
	assert.Empty(t, checks.Run(checker))
}
