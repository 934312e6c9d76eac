package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

func seedStudent(t *testing.T, f *fixture, number string, grade int) *student.Student {
	t.Helper()

	num, err := shared.NewStudentNumber(number)
	require.NoError(t, err)
	gr, err := shared.NewGrade(grade)
	require.NoError(t, err)

	st, err := student.NewStudent(student.NewStudentParams{
		ID:            f.ids.GenerateID(),
		StudentNumber: num,
		FullName:      "Тест Студент",
		College:       shared.CollegeInformation,
		Grade:         gr,
		Major:         "software engineering",
		Email:         number + "@campus.test",
	})
	require.NoError(t, err)
	require.NoError(t, f.students.Create(context.Background(), st))
	return st
}

func seedSubmission(t *testing.T, f *fixture, studentID string, category submission.Category) *submission.Submission {
	t.Helper()

	sub, err := submission.NewSubmission(submission.NewSubmissionParams{
		ID:         f.ids.GenerateID(),
		StudentID:  studentID,
		Category:   category,
		ItemName:   "Городская олимпиада",
		SelfRating: shared.MustScore("5"),
	})
	require.NoError(t, err)
	require.NoError(t, f.submissions.Create(context.Background(), sub))
	return sub
}

func reviewHandler(f *fixture) *ReviewSubmissionHandler {
	return NewReviewSubmissionHandler(f.uowFactory(), f.ids, student.DefaultScoreWeights(), f.bus)
}

func cohortOf(st *student.Student) shared.Cohort {
	return st.Cohort()
}

func TestReviewApprove(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150001", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryCompetition)
	h := reviewHandler(f)

	result, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Score:          "4.5",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, submission.StatusApproved, result.Status)

	// Academic subtotal is credited; the total stays undefined until
	// the counselor sets the academic comprehensive score.
	updated, err := f.students.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.5", updated.AcademicExpertise.String())
	assert.Nil(t, updated.Total)
	assert.Empty(t, result.NewTotal)

	// Exactly one outbox entry for the owner.
	notes, err := f.notifications.GetByRecipient(context.Background(), st.ID, notification.ListOptions{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, result.NotificationID, notes[0].ID)
	assert.False(t, notes[0].Read)

	assert.Len(t, f.bus.ofType(shared.EventSubmissionApproved), 1)
}

func TestReviewApproveWithTotalDefined(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150002", 2023)
	st.SetAcademicComprehensive(shared.MustScore("80"), student.DefaultScoreWeights())
	require.NoError(t, f.students.Update(context.Background(), st))
	sub := seedSubmission(t, f, st.ID, submission.CategoryVolunteer)
	h := reviewHandler(f)

	result, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Score:          "3",
	})
	require.NoError(t, err)

	// 80*0.6 + 0*0.2 + 3*0.2 = 48.6
	assert.Equal(t, "48.6", result.NewTotal)
}

func TestReviewApproveZeroScore(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150003", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryThesis)
	h := reviewHandler(f)

	// Нулевой балл - валидное одобрение: заявка засчитана без прибавки.
	result, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Score:          "0",
	})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusApproved, result.Status)

	after, err := f.students.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.True(t, after.AcademicExpertise.IsZero())
}

func TestReviewApproveAbsentScoreMeansZero(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150010", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryCompetition)
	h := reviewHandler(f)

	result, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
	})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusApproved, result.Status)

	after, err := f.submissions.GetByID(context.Background(), sub.ID)
	require.NoError(t, err)
	require.NotNil(t, after.AwardedScore)
	assert.True(t, after.AwardedScore.IsZero())
}

func TestReviewRejectRequiresReason(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150004", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryThesis)
	h := reviewHandler(f)

	_, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionReject,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
	})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestReviewReject(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150005", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryLeadership)
	h := reviewHandler(f)

	result, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionReject,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Reason:         "Не хватает подтверждающих документов",
	})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusRejected, result.Status)

	// Rejection never touches the score record.
	after, err := f.students.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.True(t, after.ComprehensivePerformance.IsZero())
}

func TestReviewResetReversesAward(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150006", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryVolunteer)
	h := reviewHandler(f)
	ctx := context.Background()

	_, err := h.Handle(ctx, ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Score:          "2.5",
	})
	require.NoError(t, err)

	result, err := h.Handle(ctx, ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionReset,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
	})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusPending, result.Status)

	after, err := f.students.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, after.ComprehensivePerformance.IsZero())

	// Every decision leaves its own outbox entry: approve + reset.
	n, err := f.notifications.CountUnread(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestReviewResetRejectedKeepsScore(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150007", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryThesis)
	h := reviewHandler(f)
	ctx := context.Background()

	_, err := h.Handle(ctx, ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionReject,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Reason:         "дубликат",
	})
	require.NoError(t, err)

	result, err := h.Handle(ctx, ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionReset,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
	})
	require.NoError(t, err)
	assert.Equal(t, submission.StatusPending, result.Status)

	after, err := f.students.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, after.AcademicExpertise.IsZero())
}

func TestReviewOutsideCohortReadsAsNotFound(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150008", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryThesis)
	h := reviewHandler(f)

	otherCohort := shared.Cohort{College: shared.CollegeInformation, Grade: shared.Grade(2024)}

	_, err := h.Handle(context.Background(), ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-2",
		ReviewerCohort: otherCohort,
		Score:          "3",
	})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestReviewApproveTwice(t *testing.T) {
	f := newFixture()
	st := seedStudent(t, f, "2023150009", 2023)
	sub := seedSubmission(t, f, st.ID, submission.CategoryCompetition)
	h := reviewHandler(f)
	ctx := context.Background()

	cmd := ReviewSubmissionCommand{
		SubmissionID:   sub.ID,
		Action:         ReviewActionApprove,
		ReviewerID:     "counselor-1",
		ReviewerCohort: cohortOf(st),
		Score:          "4",
	}
	_, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, shared.IsStateConflict(err))

	// No double-credit.
	after, err := f.students.GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "4.0", after.AcademicExpertise.String())
}
