package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id, err := NewID("  9A8B7C6D-5E4F-4A3B-8C2D-1E0F9A8B7C6D ")
	require.NoError(t, err)
	assert.Equal(t, "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d", id.String())

	for _, bad := range []string{"", "not-a-uuid", "9a8b7c6d5e4f4a3b8c2d1e0f9a8b7c6d"} {
		_, err := NewID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestNewStudentNumber(t *testing.T) {
	n, err := NewStudentNumber(" 20231234567 ")
	require.NoError(t, err)
	assert.Equal(t, "20231234567", n.String())

	for _, bad := range []string{"", "12345", "2023abc4567890", "123456789012345678901"} {
		_, err := NewStudentNumber(bad)
		assert.ErrorIs(t, err, ErrInvalidStudentNumber, bad)
	}
}

func TestNewEmployeeID(t *testing.T) {
	e, err := NewEmployeeID("EMP2024")
	require.NoError(t, err)
	assert.Equal(t, "EMP2024", e.String())

	for _, bad := range []string{"", "ab", "emp 2024", "emp-2024"} {
		_, err := NewEmployeeID(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestCohort(t *testing.T) {
	college, err := NewCollege(" INFO ")
	require.NoError(t, err)
	assert.Equal(t, CollegeInformation, college)

	_, err = NewCollege("law")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewGrade(1999)
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	grade, err := NewGrade(2023)
	require.NoError(t, err)

	cohort, err := NewCohort(college, grade)
	require.NoError(t, err)
	assert.Equal(t, "info-2023", cohort.String())
	assert.True(t, cohort.Equals(Cohort{College: CollegeInformation, Grade: 2023}))
	assert.False(t, cohort.Equals(Cohort{College: CollegeOther, Grade: 2023}))
}

func TestScoreRounding(t *testing.T) {
	s, err := ParseScore("87.45")
	require.NoError(t, err)
	// Round half away from zero at one fractional digit.
	assert.Equal(t, "87.5", s.String())

	s, err = ParseScore("3")
	require.NoError(t, err)
	assert.Equal(t, "3.0", s.String())
}

func TestScoreBounds(t *testing.T) {
	_, err := ParseScore("-0.1")
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = ParseScore("100.1")
	assert.ErrorIs(t, err, ErrInvalidScore)

	_, err = ParseScore("ninety")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	// Boundary values pass.
	for _, edge := range []string{"0", "100"} {
		_, err := ParseScore(edge)
		assert.NoError(t, err, edge)
	}
}

func TestScoreArithmetic(t *testing.T) {
	a := MustScore("97.5")
	b := MustScore("4.0")

	// Subtotals are open-ended above MaxScore.
	assert.Equal(t, "101.5", a.Add(b).String())

	// Subtraction floors at zero.
	assert.Equal(t, "0.0", b.Sub(a).String())
	assert.Equal(t, "93.5", a.Sub(b).String())

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustScore("97.5")))
}

func TestScoreFromDecimalSkipsBounds(t *testing.T) {
	s := ScoreFromDecimal(decimal.NewFromInt(250))
	assert.Equal(t, "250.0", s.String())
	assert.True(t, s.IsPositive())
	assert.False(t, s.IsZero())
	assert.True(t, ZeroScore().IsZero())
}

func TestPagination(t *testing.T) {
	p := NewPagination(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit())
	assert.Equal(t, 0, p.Offset())

	p = NewPagination(3, 50)
	assert.Equal(t, 100, p.Offset())
	assert.Equal(t, 50, p.Limit())

	p = NewPagination(1, 500)
	assert.Equal(t, MaxPageSize, p.Limit())

	// Zero value behaves like the defaults.
	var zero Pagination
	assert.Equal(t, DefaultPageSize, zero.Limit())
	assert.Equal(t, 0, zero.Offset())
}
