package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

func validParams() NewStudentParams {
	return NewStudentParams{
		ID:            "3f1d2e4a-9b0c-4d5e-8f6a-7b8c9d0e1f2a",
		StudentNumber: shared.StudentNumber("2023100200301"),
		FullName:      "Li Wei",
		College:       shared.CollegeInformation,
		Grade:         shared.Grade(2023),
		Major:         "Software Engineering",
		Email:         "li.wei@example.edu",
	}
}

func TestNewStudent(t *testing.T) {
	t.Run("valid params", func(t *testing.T) {
		st, err := NewStudent(validParams())
		require.NoError(t, err)

		assert.Nil(t, st.AcademicComprehensive)
		assert.Nil(t, st.Total)
		assert.True(t, st.AcademicExpertise.IsZero())
		assert.True(t, st.ComprehensivePerformance.IsZero())
		assert.Equal(t, "info-2023", st.Cohort().String())
	})

	t.Run("invalid student number", func(t *testing.T) {
		p := validParams()
		p.StudentNumber = "12345"
		_, err := NewStudent(p)
		assert.ErrorIs(t, err, shared.ErrInvalidStudentNumber)
	})

	t.Run("empty name", func(t *testing.T) {
		p := validParams()
		p.FullName = "   "
		_, err := NewStudent(p)
		assert.ErrorIs(t, err, ErrInvalidFullName)
	})

	t.Run("bad email", func(t *testing.T) {
		p := validParams()
		p.Email = "not-an-email"
		_, err := NewStudent(p)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestRecompute(t *testing.T) {
	weights := DefaultScoreWeights()

	t.Run("undefined until academic comprehensive is set", func(t *testing.T) {
		st, err := NewStudent(validParams())
		require.NoError(t, err)

		require.NoError(t, st.ApplyAward(shared.GroupAcademic, shared.MustScore("5.0"), weights))
		assert.Nil(t, st.Total, "total must stay undefined without the base score")
		assert.Equal(t, "5.0", st.AcademicExpertise.String())
	})

	t.Run("weighted total with exact decimals", func(t *testing.T) {
		st, err := NewStudent(validParams())
		require.NoError(t, err)

		st.SetAcademicComprehensive(shared.MustScore("85.5"), weights)
		require.NoError(t, st.ApplyAward(shared.GroupAcademic, shared.MustScore("4.0"), weights))
		require.NoError(t, st.ApplyAward(shared.GroupComprehensive, shared.MustScore("3.5"), weights))

		// 85.5*0.6 + 4.0*0.2 + 3.5*0.2 = 51.3 + 0.8 + 0.7 = 52.8
		require.NotNil(t, st.Total)
		assert.Equal(t, "52.8", st.Total.String())
	})

	t.Run("tenth-scale values stay exact", func(t *testing.T) {
		st, err := NewStudent(validParams())
		require.NoError(t, err)

		st.SetAcademicComprehensive(shared.MustScore("0.1"), weights)
		require.NoError(t, st.ApplyAward(shared.GroupComprehensive, shared.MustScore("0.1"), weights))

		// 0.1*0.6 + 0.1*0.2 = 0.06 + 0.02 = 0.08 -> rounds to 0.1
		require.NotNil(t, st.Total)
		assert.Equal(t, "0.1", st.Total.String())
	})
}

func TestApplyAndReverseAward(t *testing.T) {
	weights := DefaultScoreWeights()

	st, err := NewStudent(validParams())
	require.NoError(t, err)
	st.SetAcademicComprehensive(shared.MustScore("80.0"), weights)
	base := st.Total.String()

	award := shared.MustScore("4.0")
	require.NoError(t, st.ApplyAward(shared.GroupAcademic, award, weights))
	require.NoError(t, st.ReverseAward(shared.GroupAcademic, award, weights))

	assert.True(t, st.AcademicExpertise.IsZero(), "reversal must restore the subtotal")
	assert.Equal(t, base, st.Total.String(), "reversal must restore the total")
}

func TestApplyAwardUnknownGroup(t *testing.T) {
	st, err := NewStudent(validParams())
	require.NoError(t, err)

	err = st.ApplyAward(shared.ScoreGroup("bogus"), shared.MustScore("1.0"), DefaultScoreWeights())
	assert.ErrorIs(t, err, ErrInvalidGroup)
}

func TestScoreWeights(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultScoreWeights().Validate())
	})

	t.Run("must sum to one", func(t *testing.T) {
		_, err := NewScoreWeights("0.5", "0.2", "0.2")
		assert.ErrorIs(t, err, shared.ErrInvalidWeights)
	})

	t.Run("custom weights", func(t *testing.T) {
		w, err := NewScoreWeights("0.5", "0.3", "0.2")
		require.NoError(t, err)

		st, err := NewStudent(validParams())
		require.NoError(t, err)
		st.SetAcademicComprehensive(shared.MustScore("90.0"), w)

		// 90*0.5 = 45.0
		assert.Equal(t, "45.0", st.Total.String())
	})
}

func TestClone(t *testing.T) {
	weights := DefaultScoreWeights()
	st, err := NewStudent(validParams())
	require.NoError(t, err)
	st.SetAcademicComprehensive(shared.MustScore("70.0"), weights)

	clone := st.Clone()
	clone.SetAcademicComprehensive(shared.MustScore("10.0"), weights)

	assert.Equal(t, "70.0", st.AcademicComprehensive.String(), "clone must not share score pointers")
}
