package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Self-service registration: creates the profile and the login account
// in one transaction. The student number doubles as the username.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the registration form data.
type RegisterStudentCommand struct {
	StudentNumber   string
	FullName        string
	College         string
	Grade           int
	Major           string
	Phone           string
	Email           string
	Password        string
	PasswordConfirm string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if c.StudentNumber == "" {
		return errors.New("register_student: student_number is required")
	}
	if c.FullName == "" {
		return errors.New("register_student: full_name is required")
	}
	if len(c.Password) < 6 {
		return errors.New("register_student: password must be at least 6 chars")
	}
	if c.Password != c.PasswordConfirm {
		return shared.ErrPasswordMismatch
	}
	return nil
}

// RegisterStudentResult contains the result of the registration.
type RegisterStudentResult struct {
	Success      bool
	StudentID    string
	AccountID    string
	Events       []shared.Event
	RegisteredAt time.Time
}

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	uowFactory     UnitOfWorkFactory
	idGenerator    IDGenerator
	hasher         identity.PasswordHasher
	eventPublisher shared.EventPublisher
}

// NewRegisterStudentHandler creates a new handler.
func NewRegisterStudentHandler(
	uowFactory UnitOfWorkFactory,
	idGenerator IDGenerator,
	hasher identity.PasswordHasher,
	eventPublisher shared.EventPublisher,
) *RegisterStudentHandler {
	return &RegisterStudentHandler{
		uowFactory:     uowFactory,
		idGenerator:    idGenerator,
		hasher:         hasher,
		eventPublisher: eventPublisher,
	}
}

// Handle registers the student.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("student", "Register", shared.ErrValidation, "invalid command", err)
	}

	number, err := shared.NewStudentNumber(cmd.StudentNumber)
	if err != nil {
		return nil, err
	}

	college, err := shared.NewCollege(cmd.College)
	if err != nil {
		return nil, err
	}

	grade, err := shared.NewGrade(cmd.Grade)
	if err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, shared.WrapError("student", "Register", shared.ErrValidation, "failed to hash password", err)
	}

	result := &RegisterStudentResult{}

	err = runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		taken, err := uow.Students().ExistsByNumber(ctx, number)
		if err != nil {
			return err
		}
		if taken {
			return shared.ErrStudentAlreadyExists
		}

		emailTaken, err := uow.Students().ExistsByEmail(ctx, cmd.Email)
		if err != nil {
			return err
		}
		if emailTaken {
			return shared.ErrDuplicateStudentEmail
		}

		st, err := student.NewStudent(student.NewStudentParams{
			ID:            h.idGenerator.GenerateID(),
			StudentNumber: number,
			FullName:      cmd.FullName,
			College:       college,
			Grade:         grade,
			Major:         cmd.Major,
			Phone:         cmd.Phone,
			Email:         cmd.Email,
		})
		if err != nil {
			return err
		}

		if err := uow.Students().Create(ctx, st); err != nil {
			return err
		}

		account, err := identity.NewAccount(identity.NewAccountParams{
			ID:           h.idGenerator.GenerateID(),
			Username:     number.String(),
			PasswordHash: hash,
			Role:         identity.RoleStudent,
			ProfileID:    st.ID,
		})
		if err != nil {
			return err
		}

		if err := uow.Accounts().Create(ctx, account); err != nil {
			return err
		}

		result.StudentID = st.ID
		result.AccountID = account.ID
		result.RegisteredAt = st.CreatedAt
		result.Events = append(result.Events, shared.NewStudentRegisteredEvent(
			st.ID, number.String(), st.FullName, college.String(), grade.Int()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	if h.eventPublisher != nil {
		for _, e := range result.Events {
			_ = h.eventPublisher.Publish(e)
		}
	}
	return result, nil
}
