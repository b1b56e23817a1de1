package checks_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forcedfields/forcedfields/checks"
)

func TestIssueString(t *testing.T) {
	issue := checks.NewError("fields.E160", "records.created", "options clash", "pick one")
	assert.Equal(t, "records.created: (fields.E160) options clash\n\tHINT: pick one", issue.String())
	assert.True(t, issue.IsSerious())

	warning := checks.NewWarning("fields.W161", "", "looks odd", "")
	assert.Equal(t, "(fields.W161) looks odd", warning.String())
	assert.False(t, warning.IsSerious())
	assert.Equal(t, "WARNING", warning.Level.String())
}

func TestRunCollectsEverything(t *testing.T) {
	first := checks.CheckerFunc(func() []checks.Issue {
		return []checks.Issue{checks.NewWarning("a.W001", "", "w", "")}
	})
	second := checks.CheckerFunc(func() []checks.Issue {
		return []checks.Issue{checks.NewError("a.E001", "", "e1", ""), checks.NewError("a.E002", "", "e2", "")}
	})

	issues := checks.Run(first, nil, second)
	require.Len(t, issues, 3)
	assert.Equal(t, []string{"a.W001", "a.E001", "a.E002"}, []string{issues[0].ID, issues[1].ID, issues[2].ID})
	assert.Len(t, checks.Serious(issues), 2)
}

func TestAsError(t *testing.T) {
	assert.NoError(t, checks.AsError(nil))
	assert.NoError(t, checks.AsError([]checks.Issue{checks.NewWarning("a.W001", "", "w", "")}))

	issue := checks.NewError("a.E001", "obj", "broken", "")
	err := checks.AsError([]checks.Issue{issue})
	require.Error(t, err)

	var target checks.Issue
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "a.E001", target.ID)
}
