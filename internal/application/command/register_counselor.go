package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER COUNSELOR COMMAND
// Creates the counselor profile and the login account in one transaction.
// The employee ID doubles as the username.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCounselorCommand contains the registration form data.
type RegisterCounselorCommand struct {
	EmployeeID      string
	FullName        string
	College         string
	Grade           int
	Password        string
	PasswordConfirm string
}

// Validate validates the command.
func (c RegisterCounselorCommand) Validate() error {
	if c.EmployeeID == "" {
		return errors.New("register_counselor: employee_id is required")
	}
	if c.FullName == "" {
		return errors.New("register_counselor: full_name is required")
	}
	if len(c.Password) < 6 {
		return errors.New("register_counselor: password must be at least 6 chars")
	}
	if c.Password != c.PasswordConfirm {
		return shared.ErrPasswordMismatch
	}
	return nil
}

// RegisterCounselorResult contains the result of the registration.
type RegisterCounselorResult struct {
	Success      bool
	CounselorID  string
	AccountID    string
	RegisteredAt time.Time
}

// RegisterCounselorHandler handles the RegisterCounselorCommand.
type RegisterCounselorHandler struct {
	uowFactory  UnitOfWorkFactory
	idGenerator IDGenerator
	hasher      identity.PasswordHasher
}

// NewRegisterCounselorHandler creates a new handler.
func NewRegisterCounselorHandler(uowFactory UnitOfWorkFactory, idGenerator IDGenerator, hasher identity.PasswordHasher) *RegisterCounselorHandler {
	return &RegisterCounselorHandler{
		uowFactory:  uowFactory,
		idGenerator: idGenerator,
		hasher:      hasher,
	}
}

// Handle registers the counselor.
func (h *RegisterCounselorHandler) Handle(ctx context.Context, cmd RegisterCounselorCommand) (*RegisterCounselorResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("counselor", "Register", shared.ErrValidation, "invalid command", err)
	}

	employeeID, err := shared.NewEmployeeID(cmd.EmployeeID)
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
		return nil, shared.WrapError("counselor", "Register", shared.ErrValidation, "failed to hash password", err)
	}

	result := &RegisterCounselorResult{}

	err = runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		taken, err := uow.Counselors().ExistsByEmployeeID(ctx, employeeID)
		if err != nil {
			return err
		}
		if taken {
			return shared.ErrCounselorAlreadyExists
		}

		c, err := counselor.NewCounselor(counselor.NewCounselorParams{
			ID:         h.idGenerator.GenerateID(),
			EmployeeID: employeeID,
			FullName:   cmd.FullName,
			College:    college,
			Grade:      grade,
		})
		if err != nil {
			return err
		}

		if err := uow.Counselors().Create(ctx, c); err != nil {
			return err
		}

		account, err := identity.NewAccount(identity.NewAccountParams{
			ID:           h.idGenerator.GenerateID(),
			Username:     employeeID.String(),
			PasswordHash: hash,
			Role:         identity.RoleCounselor,
			ProfileID:    c.ID,
		})
		if err != nil {
			return err
		}

		if err := uow.Accounts().Create(ctx, account); err != nil {
			return err
		}

		result.CounselorID = c.ID
		result.AccountID = account.ID
		result.RegisteredAt = c.CreatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	return result, nil
}
