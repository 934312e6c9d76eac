package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

func registerHandler(f *fixture) *RegisterStudentHandler {
	return NewRegisterStudentHandler(f.uowFactory(), f.ids, plainHasher{}, f.bus)
}

func validRegisterCommand() RegisterStudentCommand {
	return RegisterStudentCommand{
		StudentNumber:   "2023150100",
		FullName:        "Айгерим Нурланова",
		College:         "info",
		Grade:           2023,
		Major:           "computer science",
		Email:           "aigerim@campus.test",
		Password:        "secret123",
		PasswordConfirm: "secret123",
	}
}

func TestRegisterStudent(t *testing.T) {
	f := newFixture()
	h := registerHandler(f)
	ctx := context.Background()

	result, err := h.Handle(ctx, validRegisterCommand())
	require.NoError(t, err)
	assert.True(t, result.Success)

	st, err := f.students.GetByID(ctx, result.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "Айгерим Нурланова", st.FullName)
	assert.Nil(t, st.Total)

	// The student number doubles as the username.
	account, err := f.accounts.GetByUsername(ctx, "2023150100")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleStudent, account.Role)
	assert.Equal(t, st.ID, account.ProfileID)
	assert.Equal(t, "hash:secret123", account.PasswordHash)

	assert.Len(t, f.bus.ofType(shared.EventStudentRegistered), 1)
}

func TestRegisterStudentDuplicateNumber(t *testing.T) {
	f := newFixture()
	h := registerHandler(f)
	ctx := context.Background()

	_, err := h.Handle(ctx, validRegisterCommand())
	require.NoError(t, err)

	cmd := validRegisterCommand()
	cmd.Email = "other@campus.test"
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, shared.IsAlreadyExists(err))
}

func TestRegisterStudentDuplicateEmail(t *testing.T) {
	f := newFixture()
	h := registerHandler(f)
	ctx := context.Background()

	_, err := h.Handle(ctx, validRegisterCommand())
	require.NoError(t, err)

	cmd := validRegisterCommand()
	cmd.StudentNumber = "2023150101"
	_, err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, shared.IsAlreadyExists(err))
}

func TestRegisterStudentPasswordMismatch(t *testing.T) {
	f := newFixture()
	h := registerHandler(f)

	cmd := validRegisterCommand()
	cmd.PasswordConfirm = "different1"
	_, err := h.Handle(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestRegisterStudentBadNumber(t *testing.T) {
	f := newFixture()
	h := registerHandler(f)

	cmd := validRegisterCommand()
	cmd.StudentNumber = "abc"
	_, err := h.Handle(context.Background(), cmd)
	require.Error(t, err)
}
