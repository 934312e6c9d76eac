package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// A student edits their own contact fields. The student number, college
// and grade are fixed; only an admin can change those.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the profile form data.
type UpdateProfileCommand struct {
	// StudentID is the owner's profile ID (taken from the session).
	StudentID string

	FullName string
	Major    string
	Phone    string
	Email    string
}

// Validate validates the command.
func (c UpdateProfileCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("update_profile: student_id is required")
	}
	if c.FullName == "" {
		return errors.New("update_profile: full_name is required")
	}
	if c.Email == "" {
		return errors.New("update_profile: email is required")
	}
	return nil
}

// UpdateProfileResult contains the result.
type UpdateProfileResult struct {
	Success   bool
	StudentID string
	UpdatedAt time.Time
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewUpdateProfileHandler creates a new handler.
func NewUpdateProfileHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *UpdateProfileHandler {
	return &UpdateProfileHandler{studentRepo: studentRepo, eventPublisher: eventPublisher}
}

// Handle applies the profile edit.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*UpdateProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("student", "UpdateProfile", shared.ErrValidation, "invalid command", err)
	}

	st, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	if err := st.UpdateProfile(cmd.FullName, cmd.Major, cmd.Phone, cmd.Email); err != nil {
		return nil, err
	}

	if err := h.studentRepo.Update(ctx, st); err != nil {
		return nil, err
	}

	if h.eventPublisher != nil {
		_ = h.eventPublisher.Publish(shared.NewStudentProfileUpdatedEvent(st.ID, st.FullName, st.Email))
	}

	return &UpdateProfileResult{
		Success:   true,
		StudentID: st.ID,
		UpdatedAt: st.UpdatedAt,
	}, nil
}
