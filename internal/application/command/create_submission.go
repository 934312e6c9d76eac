package command

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE SUBMISSION COMMAND
// A student uploads a merit achievement for review.
// ══════════════════════════════════════════════════════════════════════════════

// CreateSubmissionCommand contains the upload form data.
type CreateSubmissionCommand struct {
	// StudentID is the owner's profile ID (taken from the session, not the form).
	StudentID string

	Category      string
	ItemName      string
	Description   string
	AttachmentRef string

	// SelfRating is the student's claimed score as a decimal string.
	SelfRating string
}

// Validate validates the command.
func (c CreateSubmissionCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("create_submission: student_id is required")
	}
	if c.ItemName == "" {
		return errors.New("create_submission: item_name is required")
	}
	if c.SelfRating == "" {
		return errors.New("create_submission: self_rating is required")
	}
	return nil
}

// CreateSubmissionResult contains the result of the upload.
type CreateSubmissionResult struct {
	Success      bool
	SubmissionID string
	Status       submission.Status
	Events       []shared.Event
	CreatedAt    time.Time
}

// CreateSubmissionHandler handles the CreateSubmissionCommand.
type CreateSubmissionHandler struct {
	submissionRepo submission.Repository
	idGenerator    IDGenerator
	eventPublisher shared.EventPublisher
}

// NewCreateSubmissionHandler creates a new handler.
func NewCreateSubmissionHandler(submissionRepo submission.Repository, idGenerator IDGenerator, eventPublisher shared.EventPublisher) *CreateSubmissionHandler {
	return &CreateSubmissionHandler{
		submissionRepo: submissionRepo,
		idGenerator:    idGenerator,
		eventPublisher: eventPublisher,
	}
}

// Handle creates the submission in pending state.
func (h *CreateSubmissionHandler) Handle(ctx context.Context, cmd CreateSubmissionCommand) (*CreateSubmissionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("submission", "Create", shared.ErrValidation, "invalid command", err)
	}

	category, err := submission.ParseCategory(cmd.Category)
	if err != nil {
		return nil, err
	}

	selfRating, err := shared.ParseScore(cmd.SelfRating)
	if err != nil {
		return nil, err
	}

	sub, err := submission.NewSubmission(submission.NewSubmissionParams{
		ID:            h.idGenerator.GenerateID(),
		StudentID:     cmd.StudentID,
		Category:      category,
		ItemName:      cmd.ItemName,
		Description:   cmd.Description,
		AttachmentRef: cmd.AttachmentRef,
		SelfRating:    selfRating,
	})
	if err != nil {
		return nil, err
	}

	if err := h.submissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	result := &CreateSubmissionResult{
		Success:      true,
		SubmissionID: sub.ID,
		Status:       sub.Status,
		CreatedAt:    sub.CreatedAt,
	}
	result.Events = append(result.Events, shared.NewSubmissionCreatedEvent(
		sub.ID, sub.StudentID, sub.Category.String(), sub.ItemName))

	if h.eventPublisher != nil {
		for _, e := range result.Events {
			_ = h.eventPublisher.Publish(e)
		}
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE SUBMISSION COMMAND
// Owners may remove their own submissions while they are still pending.
// A decided submission holds a score effect or a review verdict; it has to
// be reset by a counselor before it can go away.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteSubmissionCommand identifies the submission to delete.
type DeleteSubmissionCommand struct {
	SubmissionID string

	// StudentID is the requesting owner (taken from the session).
	StudentID string
}

// Validate validates the command.
func (c DeleteSubmissionCommand) Validate() error {
	if c.SubmissionID == "" {
		return errors.New("delete_submission: submission_id is required")
	}
	if c.StudentID == "" {
		return errors.New("delete_submission: student_id is required")
	}
	return nil
}

// DeleteSubmissionHandler handles the DeleteSubmissionCommand.
type DeleteSubmissionHandler struct {
	submissionRepo submission.Repository
}

// NewDeleteSubmissionHandler creates a new handler.
func NewDeleteSubmissionHandler(submissionRepo submission.Repository) *DeleteSubmissionHandler {
	return &DeleteSubmissionHandler{submissionRepo: submissionRepo}
}

// Handle deletes the submission after ownership and status checks.
// A foreign submission reads as not found, never as forbidden.
func (h *DeleteSubmissionHandler) Handle(ctx context.Context, cmd DeleteSubmissionCommand) error {
	if err := cmd.Validate(); err != nil {
		return shared.WrapError("submission", "Delete", shared.ErrValidation, "invalid command", err)
	}

	sub, err := h.submissionRepo.GetByID(ctx, cmd.SubmissionID)
	if err != nil {
		return err
	}

	if sub.StudentID != cmd.StudentID {
		return shared.ErrSubmissionNotFound
	}

	if !sub.CanBeDeletedByOwner() {
		return shared.ErrSubmissionDecided
	}

	return h.submissionRepo.Delete(ctx, sub.ID)
}
