package submission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

func newPending(t *testing.T) *Submission {
	t.Helper()
	sub, err := NewSubmission(NewSubmissionParams{
		ID:          "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
		StudentID:   "3f1d2e4a-9b0c-4d5e-8f6a-7b8c9d0e1f2a",
		Category:    CategoryCompetition,
		ItemName:    "ACM regional, second prize",
		Description: "Team event, October",
		SelfRating:  shared.MustScore("4.0"),
	})
	require.NoError(t, err)
	return sub
}

func TestCategoryGroups(t *testing.T) {
	academic := []Category{CategoryThesis, CategoryCompetition, CategoryResearch, CategoryOtherAcademic}
	for _, c := range academic {
		g, err := c.Group()
		require.NoError(t, err)
		assert.Equal(t, shared.GroupAcademic, g, c)
	}

	comprehensive := []Category{CategoryVolunteer, CategoryLeadership, CategorySocialPractice, CategoryOtherComprehensive}
	for _, c := range comprehensive {
		g, err := c.Group()
		require.NoError(t, err)
		assert.Equal(t, shared.GroupComprehensive, g, c)
	}

	_, err := Category("karaoke").Group()
	assert.ErrorIs(t, err, shared.ErrInvalidCategory)
}

func TestApprove(t *testing.T) {
	t.Run("pending to approved", func(t *testing.T) {
		sub := newPending(t)

		err := sub.Approve(shared.MustScore("3.5"), "reviewer-1")
		require.NoError(t, err)

		assert.Equal(t, StatusApproved, sub.Status)
		require.NotNil(t, sub.AwardedScore)
		assert.Equal(t, "3.5", sub.AwardedScore.String())
		assert.Equal(t, "reviewer-1", sub.ReviewerID)
		assert.NotNil(t, sub.ReviewedAt)
	})

	t.Run("zero score counts without a credit", func(t *testing.T) {
		sub := newPending(t)
		err := sub.Approve(shared.ZeroScore(), "reviewer-1")
		require.NoError(t, err)

		assert.Equal(t, StatusApproved, sub.Status)
		require.NotNil(t, sub.AwardedScore)
		assert.True(t, sub.AwardedScore.IsZero())
	})

	t.Run("negative score rejected", func(t *testing.T) {
		sub := newPending(t)
		err := sub.Approve(shared.ScoreFromDecimal(decimal.NewFromInt(-1)), "reviewer-1")
		assert.ErrorIs(t, err, ErrAwardNegative)
		assert.Equal(t, StatusPending, sub.Status)
	})

	t.Run("cannot approve a rejected submission", func(t *testing.T) {
		sub := newPending(t)
		require.NoError(t, sub.Reject("no proof attached", "reviewer-1"))

		err := sub.Approve(shared.MustScore("2.0"), "reviewer-1")
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})
}

func TestReject(t *testing.T) {
	t.Run("pending to rejected", func(t *testing.T) {
		sub := newPending(t)

		err := sub.Reject("certificate is illegible", "reviewer-2")
		require.NoError(t, err)

		assert.Equal(t, StatusRejected, sub.Status)
		assert.Equal(t, "certificate is illegible", sub.RejectReason)
		assert.Nil(t, sub.AwardedScore)
	})

	t.Run("reason required", func(t *testing.T) {
		sub := newPending(t)
		err := sub.Reject("   ", "reviewer-2")
		assert.ErrorIs(t, err, ErrEmptyRejectReason)
	})

	t.Run("cannot reject an approved submission", func(t *testing.T) {
		sub := newPending(t)
		require.NoError(t, sub.Approve(shared.MustScore("2.0"), "reviewer-1"))

		err := sub.Reject("changed my mind", "reviewer-1")
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})
}

func TestReset(t *testing.T) {
	t.Run("approved back to pending returns the award", func(t *testing.T) {
		sub := newPending(t)
		require.NoError(t, sub.Approve(shared.MustScore("4.0"), "reviewer-1"))

		reversal, err := sub.Reset()
		require.NoError(t, err)

		require.NotNil(t, reversal)
		assert.Equal(t, "4.0", reversal.String())
		assert.Equal(t, StatusPending, sub.Status)
		assert.Nil(t, sub.AwardedScore)
		assert.Empty(t, sub.RejectReason)
	})

	t.Run("reset clears the review trail", func(t *testing.T) {
		sub := newPending(t)
		require.NoError(t, sub.Approve(shared.MustScore("4.0"), "reviewer-1"))

		_, err := sub.Reset()
		require.NoError(t, err)

		assert.Empty(t, sub.ReviewerID)
		assert.Nil(t, sub.ReviewedAt)
	})

	t.Run("rejected back to pending has nothing to reverse", func(t *testing.T) {
		sub := newPending(t)
		require.NoError(t, sub.Reject("no proof", "reviewer-1"))

		reversal, err := sub.Reset()
		require.NoError(t, err)

		assert.Nil(t, reversal)
		assert.Equal(t, StatusPending, sub.Status)
		assert.Empty(t, sub.RejectReason)
	})

	t.Run("pending cannot be reset", func(t *testing.T) {
		sub := newPending(t)
		_, err := sub.Reset()
		assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	})
}

func TestReDecideAfterReset(t *testing.T) {
	sub := newPending(t)
	require.NoError(t, sub.Approve(shared.MustScore("4.0"), "reviewer-1"))

	_, err := sub.Reset()
	require.NoError(t, err)

	require.NoError(t, sub.Reject("duplicate of an earlier submission", "reviewer-1"))
	assert.Equal(t, StatusRejected, sub.Status)
}

func TestCanBeDeletedByOwner(t *testing.T) {
	sub := newPending(t)
	assert.True(t, sub.CanBeDeletedByOwner())

	require.NoError(t, sub.Approve(shared.MustScore("1.0"), "reviewer-1"))
	assert.False(t, sub.CanBeDeletedByOwner())
}
