package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// fakeStudentRepo embeds the interface and overrides only what a test needs.
type fakeStudentRepo struct {
	student.Repository

	byID    map[string]*student.Student
	cohort  map[string]int
	greater map[string]int
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	st, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return st, nil
}

func (r *fakeStudentRepo) CountByCohort(ctx context.Context, cohort shared.Cohort) (int, error) {
	return r.cohort[cohort.String()], nil
}

func (r *fakeStudentRepo) CountGreaterTotal(ctx context.Context, cohort shared.Cohort, total shared.Score) (int, error) {
	return r.greater[cohort.String()], nil
}

func rankedStudent(t *testing.T, id, number string, total string) *student.Student {
	t.Helper()

	num, err := shared.NewStudentNumber(number)
	require.NoError(t, err)
	grade, err := shared.NewGrade(2023)
	require.NoError(t, err)

	st, err := student.NewStudent(student.NewStudentParams{
		ID:            id,
		StudentNumber: num,
		FullName:      "Тест Студент",
		College:       shared.CollegeInformation,
		Grade:         grade,
		Major:         "Software Engineering",
		Email:         number + "@campus.test",
	})
	require.NoError(t, err)

	if total != "" {
		st.SetAcademicComprehensive(shared.MustScore(total), student.DefaultScoreWeights())
	}
	return st
}

func TestGetStudentRank(t *testing.T) {
	st := rankedStudent(t, "s-1", "2023150500", "90")
	repo := &fakeStudentRepo{
		byID:    map[string]*student.Student{"s-1": st},
		cohort:  map[string]int{"info-2023": 30},
		greater: map[string]int{"info-2023": 4},
	}
	h := NewGetStudentRankHandler(repo)

	result, err := h.Handle(context.Background(), GetStudentRankQuery{StudentID: "s-1"})
	require.NoError(t, err)

	assert.True(t, result.Student.Ranked)
	assert.Equal(t, 5, result.Student.Rank)
	assert.Equal(t, 30, result.Student.CohortSize)
	assert.Equal(t, "54.0", result.Student.Total)
	assert.Equal(t, "info-2023", result.Student.Cohort)
}

func TestGetStudentRankUndefinedTotal(t *testing.T) {
	st := rankedStudent(t, "s-2", "2023150501", "")
	repo := &fakeStudentRepo{
		byID:   map[string]*student.Student{"s-2": st},
		cohort: map[string]int{"info-2023": 30},
	}
	h := NewGetStudentRankHandler(repo)

	result, err := h.Handle(context.Background(), GetStudentRankQuery{StudentID: "s-2"})
	require.NoError(t, err)

	assert.False(t, result.Student.Ranked)
	assert.Zero(t, result.Student.Rank)
	assert.Empty(t, result.Student.Total)
}

func TestGetStudentRankUnknownStudent(t *testing.T) {
	repo := &fakeStudentRepo{byID: map[string]*student.Student{}}
	h := NewGetStudentRankHandler(repo)

	_, err := h.Handle(context.Background(), GetStudentRankQuery{StudentID: "missing"})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}
