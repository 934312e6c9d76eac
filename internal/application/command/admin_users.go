package command

import (
	"context"
	"errors"

	"github.com/gradpath/merit-portal/internal/domain/identity"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN USER COMMANDS
// Account maintenance: editing identifiers keeps the username in sync,
// deleting a profile removes its account, password resets are immediate.
// ══════════════════════════════════════════════════════════════════════════════

// EditStudentCommand contains the admin edit form for a student.
type EditStudentCommand struct {
	StudentID     string
	StudentNumber string
	FullName      string
	Major         string
	Phone         string
	Email         string
}

// Validate validates the command.
func (c EditStudentCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("edit_student: student_id is required")
	}
	if c.StudentNumber == "" {
		return errors.New("edit_student: student_number is required")
	}
	return nil
}

// AdminUsersHandler handles admin account maintenance commands.
type AdminUsersHandler struct {
	uowFactory UnitOfWorkFactory
	hasher     identity.PasswordHasher
}

// NewAdminUsersHandler creates a new handler.
func NewAdminUsersHandler(uowFactory UnitOfWorkFactory, hasher identity.PasswordHasher) *AdminUsersHandler {
	return &AdminUsersHandler{uowFactory: uowFactory, hasher: hasher}
}

// HandleEditStudent edits a student profile. Changing the student number
// renames the login account in the same transaction; uniqueness is checked
// excluding the student being edited.
func (h *AdminUsersHandler) HandleEditStudent(ctx context.Context, cmd EditStudentCommand) error {
	if err := cmd.Validate(); err != nil {
		return shared.WrapError("student", "AdminEdit", shared.ErrValidation, "invalid command", err)
	}

	number, err := shared.NewStudentNumber(cmd.StudentNumber)
	if err != nil {
		return err
	}

	return runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		st, err := uow.Students().GetByID(ctx, cmd.StudentID)
		if err != nil {
			return err
		}

		if st.StudentNumber != number {
			other, err := uow.Students().GetByNumber(ctx, number)
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			if other != nil && other.ID != st.ID {
				return shared.ErrStudentAlreadyExists
			}

			account, err := uow.Accounts().GetByProfileID(ctx, st.ID)
			if err != nil {
				return err
			}
			if err := account.Rename(number.String()); err != nil {
				return err
			}
			if err := uow.Accounts().Update(ctx, account); err != nil {
				return err
			}
			st.StudentNumber = number
		}

		if err := st.UpdateProfile(cmd.FullName, cmd.Major, cmd.Phone, cmd.Email); err != nil {
			return err
		}

		return uow.Students().Update(ctx, st)
	})
}

// DeleteUserCommand identifies the profile to remove.
type DeleteUserCommand struct {
	ProfileID string
	Role      identity.Role
}

// HandleDeleteUser removes the profile and its login account together.
func (h *AdminUsersHandler) HandleDeleteUser(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.ProfileID == "" {
		return shared.NewDomainError("identity", "AdminDelete", shared.ErrValidation, "profile_id is required")
	}

	return runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.Accounts().GetByProfileID(ctx, cmd.ProfileID)
		if err != nil && !shared.IsNotFound(err) {
			return err
		}

		switch cmd.Role {
		case identity.RoleStudent:
			if err := uow.Students().Delete(ctx, cmd.ProfileID); err != nil {
				return err
			}
		case identity.RoleCounselor:
			if err := uow.Counselors().Delete(ctx, cmd.ProfileID); err != nil {
				return err
			}
		default:
			return identity.ErrInvalidRole
		}

		if account != nil {
			return uow.Accounts().Delete(ctx, account.ID)
		}
		return nil
	})
}

// ResetPasswordCommand contains the admin password reset form.
type ResetPasswordCommand struct {
	AccountID   string
	NewPassword string
}

// Validate validates the command.
func (c ResetPasswordCommand) Validate() error {
	if c.AccountID == "" {
		return errors.New("reset_password: account_id is required")
	}
	if len(c.NewPassword) < 6 {
		return errors.New("reset_password: password must be at least 6 chars")
	}
	return nil
}

// HandleResetPassword replaces an account's password.
func (h *AdminUsersHandler) HandleResetPassword(ctx context.Context, cmd ResetPasswordCommand) error {
	if err := cmd.Validate(); err != nil {
		return shared.WrapError("identity", "ResetPassword", shared.ErrValidation, "invalid command", err)
	}

	hash, err := h.hasher.Hash(cmd.NewPassword)
	if err != nil {
		return shared.WrapError("identity", "ResetPassword", shared.ErrValidation, "failed to hash password", err)
	}

	return runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		account, err := uow.Accounts().GetByID(ctx, cmd.AccountID)
		if err != nil {
			return err
		}

		account.ChangePassword(hash)
		return uow.Accounts().Update(ctx, account)
	})
}
