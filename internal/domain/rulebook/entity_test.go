package rulebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

func validParams() NewRuleParams {
	return NewRuleParams{
		ID:          "1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e",
		RuleType:    submission.CategoryCompetition,
		ItemName:    "National competition, first prize",
		Description: "Individual or team, certificate required",
		Score:       shared.MustScore("5.0"),
		AuthorID:    "c0ffee00-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
	}
}

func TestNewRule(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		r, err := NewRule(validParams())
		require.NoError(t, err)
		assert.Equal(t, "5.0", r.Score.String())
	})

	t.Run("zero score rejected", func(t *testing.T) {
		p := validParams()
		p.Score = shared.ZeroScore()
		_, err := NewRule(p)
		assert.ErrorIs(t, err, shared.ErrInvalidRuleScore)
	})

	t.Run("unknown rule type", func(t *testing.T) {
		p := validParams()
		p.RuleType = submission.Category("karaoke")
		_, err := NewRule(p)
		assert.ErrorIs(t, err, shared.ErrInvalidCategory)
	})
}

func TestChange(t *testing.T) {
	r, err := NewRule(validParams())
	require.NoError(t, err)

	t.Run("valid change", func(t *testing.T) {
		err := r.Change("Provincial competition, first prize", "updated terms", shared.MustScore("3.0"), "")
		require.NoError(t, err)
		assert.Equal(t, "3.0", r.Score.String())
	})

	t.Run("score must stay positive", func(t *testing.T) {
		err := r.Change("whatever", "", shared.ZeroScore(), "")
		assert.ErrorIs(t, err, shared.ErrInvalidRuleScore)
	})
}
