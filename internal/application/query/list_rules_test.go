package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

type fakeRuleRepo struct {
	rulebook.Repository

	rules []*rulebook.Rule
}

func (r *fakeRuleRepo) GetAll(ctx context.Context) ([]*rulebook.Rule, error) {
	return r.rules, nil
}

func mustRule(t *testing.T, id string, category submission.Category, name, score string) *rulebook.Rule {
	t.Helper()

	rule, err := rulebook.NewRule(rulebook.NewRuleParams{
		ID:       id,
		RuleType: category,
		ItemName: name,
		Score:    shared.MustScore(score),
		AuthorID: "counselor-1",
	})
	require.NoError(t, err)
	return rule
}

func TestListRulesGroupsByCategory(t *testing.T) {
	repo := &fakeRuleRepo{rules: []*rulebook.Rule{
		mustRule(t, "r-1", submission.CategoryCompetition, "Олимпиада, 1 место", "5"),
		mustRule(t, "r-2", submission.CategoryCompetition, "Олимпиада, 2 место", "3"),
		mustRule(t, "r-3", submission.CategoryVolunteer, "Донорство", "1"),
	}}
	h := NewListRulesHandler(repo)

	result, err := h.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	require.Len(t, result.Groups, 2)

	// Academic categories come before comprehensive ones.
	assert.Equal(t, "competition", result.Groups[0].RuleType)
	assert.Equal(t, "academic", result.Groups[0].Group)
	assert.Len(t, result.Groups[0].Rules, 2)

	assert.Equal(t, "volunteer", result.Groups[1].RuleType)
	assert.Equal(t, "comprehensive", result.Groups[1].Group)
	assert.Len(t, result.Groups[1].Rules, 1)
}

func TestListRulesEmptyCatalog(t *testing.T) {
	h := NewListRulesHandler(&fakeRuleRepo{})

	result, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.TotalCount)
	assert.Empty(t, result.Groups)
}
