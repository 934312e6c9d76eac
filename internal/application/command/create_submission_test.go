package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

func TestCreateSubmission(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150400", 2023)
	h := NewCreateSubmissionHandler(f.submissions, f.ids, f.bus)

	result, err := h.Handle(context.Background(), CreateSubmissionCommand{
		StudentID:  st.ID,
		Category:   "volunteer",
		ItemName:   "Волонтёрство на марафоне",
		SelfRating: "2",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, submission.StatusPending, result.Status)

	sub, err := f.submissions.GetByID(context.Background(), result.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, sub.StudentID)
	assert.Nil(t, sub.AwardedScore)

	assert.Len(t, f.bus.ofType(shared.EventSubmissionCreated), 1)
}

func TestCreateSubmissionUnknownCategory(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150401", 2023)
	h := NewCreateSubmissionHandler(f.submissions, f.ids, f.bus)

	_, err := h.Handle(context.Background(), CreateSubmissionCommand{
		StudentID:  st.ID,
		Category:   "sports",
		ItemName:   "Марафон",
		SelfRating: "2",
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestDeleteSubmissionPending(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150402", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryThesis)
	h := NewDeleteSubmissionHandler(f.submissions)

	err := h.Handle(context.Background(), DeleteSubmissionCommand{
		SubmissionID: sub.ID,
		StudentID:    st.ID,
	})
	require.NoError(t, err)

	_, err = f.submissions.GetByID(context.Background(), sub.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteSubmissionDecided(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150403", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryThesis)
	require.NoError(t, sub.Reject("не по теме", "counselor-1"))
	require.NoError(t, f.submissions.Update(context.Background(), sub))
	h := NewDeleteSubmissionHandler(f.submissions)

	err := h.Handle(context.Background(), DeleteSubmissionCommand{
		SubmissionID: sub.ID,
		StudentID:    st.ID,
	})
	require.Error(t, err)
	assert.True(t, shared.IsStateConflict(err))
}

func TestDeleteSubmissionForeignOwnerReadsAsNotFound(t *testing.T) {
	f := newFixture()
	owner := seedStudent(t, f, "2023150404", 2023)
	other := seedStudent(t, f, "2023150405", 2023)
	sub := seedSubmission(t, f, owner.ID, submission.CategoryThesis)
	h := NewDeleteSubmissionHandler(f.submissions)

	err := h.Handle(context.Background(), DeleteSubmissionCommand{
		SubmissionID: sub.ID,
		StudentID:    other.ID,
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
