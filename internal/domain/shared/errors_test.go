package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorRendering(t *testing.T) {
	bare := NewDomainError("student", "Find", ErrNotFound, "student not found")
	assert.Equal(t, "student.Find: student not found", bare.Error())

	cause := errors.New("connection reset")
	wrapped := WrapError("student", "Find", ErrStorage, "query failed", cause)
	assert.Equal(t, "student.Find: query failed: connection reset", wrapped.Error())
}

func TestDomainErrorMatching(t *testing.T) {
	t.Run("kind matches without a cause", func(t *testing.T) {
		err := NewDomainError("rulebook", "Find", ErrNotFound, "rule not found")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("both kind and cause match", func(t *testing.T) {
		cause := errors.New("duplicate key")
		err := WrapError("student", "Create", ErrAlreadyExists, "student exists", cause)
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("unwrap prefers the cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapError("identity", "Session", ErrUnauthorized, "lookup failed", cause)
		assert.Equal(t, cause, errors.Unwrap(err))

		bare := NewDomainError("identity", "Session", ErrUnauthorized, "expired")
		assert.Equal(t, ErrUnauthorized, errors.Unwrap(bare))
	})
}

func TestWellKnownErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrStudentNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrSubmissionNotPending, ErrInvalidState)
	assert.ErrorIs(t, ErrInvalidTransition, ErrStateTransition)
	assert.ErrorIs(t, ErrInvalidCredentials, ErrUnauthorized)
	assert.ErrorIs(t, ErrInvalidStudentNumber, ErrInvalidFormat)
	assert.ErrorIs(t, ErrInvalidWeights, ErrInvalidInput)
}

func TestClassificationHelpers(t *testing.T) {
	require.True(t, IsNotFound(ErrRuleNotFound))
	require.False(t, IsNotFound(ErrInvalidScore))

	require.True(t, IsAlreadyExists(ErrDuplicateStudentEmail))

	require.True(t, IsValidation(ErrInvalidCategory))
	require.True(t, IsValidation(ErrInvalidScore))
	require.False(t, IsValidation(ErrStudentNotFound))

	require.True(t, IsStateConflict(ErrSubmissionDecided))
	require.False(t, IsStateConflict(ErrSessionNotFound))

	require.True(t, IsUnauthorized(ErrSessionNotFound))
	require.False(t, IsForbidden(ErrSessionNotFound))
	require.True(t, IsForbidden(NewDomainError("identity", "Access", ErrForbidden, "wrong role")))
}

func TestClassificationSeesThroughWrapping(t *testing.T) {
	inner := WrapError("submission", "Review", ErrInvalidState, "already reviewed", nil)
	outer := WrapError("submission", "Handle", ErrStorage, "tx failed", inner)

	assert.True(t, IsStateConflict(outer))
}
