package query

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

type fakeRosterRepo struct {
	student.Repository

	students []*student.Student
}

func (r *fakeRosterRepo) CountByCohort(ctx context.Context, cohort shared.Cohort) (int, error) {
	return len(r.students), nil
}

func (r *fakeRosterRepo) GetByCohort(ctx context.Context, cohort shared.Cohort, opts student.ListOptions) ([]*student.Student, error) {
	return r.students, nil
}

func TestExportStudents(t *testing.T) {
	ranked := rankedStudent(t, "s-1", "2023150600", "88")
	unranked := rankedStudent(t, "s-2", "2023150601", "")
	repo := &fakeRosterRepo{students: []*student.Student{ranked, unranked}}
	h := NewExportStudentsHandler(repo)

	cohort := shared.Cohort{College: shared.CollegeInformation, Grade: shared.Grade(2023)}
	result, err := h.Handle(context.Background(), ExportStudentsQuery{Cohort: cohort})
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	assert.Contains(t, result.FileName, "roster-info-2023")
	assert.Equal(t, "text/csv; charset=utf-8", result.ContentType)

	lines := strings.Split(strings.TrimSpace(string(result.Data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "student_number,full_name"))
	assert.Contains(t, lines[1], "2023150600")
	assert.Contains(t, lines[1], "52.8")

	// Undefined totals export as empty cells, not zeros.
	fields := strings.Split(lines[2], ",")
	require.Len(t, fields, 7)
	assert.Empty(t, fields[3])
	assert.Empty(t, fields[6])
}

func TestExportStudentsRequiresCohort(t *testing.T) {
	h := NewExportStudentsHandler(&fakeRosterRepo{})

	_, err := h.Handle(context.Background(), ExportStudentsQuery{})
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}
