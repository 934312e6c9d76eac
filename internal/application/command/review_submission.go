package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW SUBMISSION COMMAND
// The single entry point for counselor decisions: approve, reject, reset.
// Each outcome changes the submission, the owner's score record, and the
// notification outbox in one transaction.
// ══════════════════════════════════════════════════════════════════════════════

// ReviewAction defines the decision being applied.
type ReviewAction string

const (
	// ReviewActionApprove - approve with an awarded score.
	ReviewActionApprove ReviewAction = "approve"

	// ReviewActionReject - reject with a reason.
	ReviewActionReject ReviewAction = "reject"

	// ReviewActionReset - withdraw a decision, back to pending.
	ReviewActionReset ReviewAction = "reset"
)

// ReviewSubmissionCommand contains the data for one review decision.
type ReviewSubmissionCommand struct {
	// SubmissionID is the submission being decided.
	SubmissionID string

	// Action is the decision to apply.
	Action ReviewAction

	// ReviewerID is the counselor's profile ID.
	ReviewerID string

	// ReviewerCohort scopes visibility: submissions outside it read as not found.
	ReviewerCohort shared.Cohort

	// Score is the awarded score as a decimal string (approve only).
	// Empty means zero: the submission counts without a subtotal credit.
	Score string

	// Reason is the rejection reason (reject only).
	Reason string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ReviewSubmissionCommand) Validate() error {
	if c.SubmissionID == "" {
		return errors.New("review_submission: submission_id is required")
	}

	if c.ReviewerID == "" {
		return errors.New("review_submission: reviewer_id is required")
	}

	if !c.ReviewerCohort.IsValid() {
		return errors.New("review_submission: reviewer cohort is required")
	}

	switch c.Action {
	case ReviewActionApprove:
		// Пустой балл допустим: одобрение без прибавки (балл 0).
	case ReviewActionReject:
		if c.Reason == "" {
			return errors.New("review_submission: reason is required for reject")
		}
	case ReviewActionReset:
		// No extra fields.
	default:
		return fmt.Errorf("review_submission: unknown action: %s", c.Action)
	}

	return nil
}

// ReviewSubmissionResult contains the outcome of the decision.
type ReviewSubmissionResult struct {
	// Success indicates the decision was applied.
	Success bool

	// SubmissionID is the decided submission.
	SubmissionID string

	// Status is the submission status after the decision.
	Status submission.Status

	// NewTotal is the owner's total score after the decision,
	// empty while the total is undefined.
	NewTotal string

	// NotificationID is the outbox entry produced by the decision.
	NotificationID string

	// Events contains domain events generated.
	Events []shared.Event

	// ReviewedAt is when the decision was applied.
	ReviewedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ReviewSubmissionHandler handles the ReviewSubmissionCommand.
type ReviewSubmissionHandler struct {
	uowFactory     UnitOfWorkFactory
	idGenerator    IDGenerator
	weights        student.ScoreWeights
	eventPublisher shared.EventPublisher
}

// NewReviewSubmissionHandler creates a new handler.
func NewReviewSubmissionHandler(
	uowFactory UnitOfWorkFactory,
	idGenerator IDGenerator,
	weights student.ScoreWeights,
	eventPublisher shared.EventPublisher,
) *ReviewSubmissionHandler {
	return &ReviewSubmissionHandler{
		uowFactory:     uowFactory,
		idGenerator:    idGenerator,
		weights:        weights,
		eventPublisher: eventPublisher,
	}
}

// Handle applies the decision.
func (h *ReviewSubmissionHandler) Handle(ctx context.Context, cmd ReviewSubmissionCommand) (*ReviewSubmissionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("submission", "Review", shared.ErrValidation, "invalid command", err)
	}

	var award shared.Score
	if cmd.Action == ReviewActionApprove && cmd.Score != "" {
		var err error
		award, err = shared.ParseScore(cmd.Score)
		if err != nil {
			return nil, err
		}
	}

	result := &ReviewSubmissionResult{SubmissionID: cmd.SubmissionID}

	err := runInTx(ctx, h.uowFactory, func(uow UnitOfWork) error {
		sub, err := uow.Submissions().GetByIDInCohort(ctx, cmd.SubmissionID, cmd.ReviewerCohort)
		if err != nil {
			return err
		}

		owner, err := uow.Students().GetByID(ctx, sub.StudentID)
		if err != nil {
			return err
		}

		var (
			title, message string
			ev             shared.SubmissionReviewedEvent
		)
		switch cmd.Action {
		case ReviewActionApprove:
			if err := h.applyApprove(sub, owner, award, cmd.ReviewerID); err != nil {
				return err
			}
			title, message = notification.ApprovedMessage(sub.ItemName, award)
			ev = shared.NewSubmissionApprovedEvent(
				sub.ID, owner.ID, cmd.ReviewerID, sub.Category.String(), award.String())

		case ReviewActionReject:
			if err := sub.Reject(cmd.Reason, cmd.ReviewerID); err != nil {
				return err
			}
			title, message = notification.RejectedMessage(sub.ItemName, sub.RejectReason)
			ev = shared.NewSubmissionRejectedEvent(
				sub.ID, owner.ID, cmd.ReviewerID, sub.Category.String(), sub.RejectReason)

		case ReviewActionReset:
			if err := h.applyReset(sub, owner); err != nil {
				return err
			}
			title, message = notification.ResetMessage(sub.ItemName)
			ev = shared.NewSubmissionResetEvent(
				sub.ID, owner.ID, cmd.ReviewerID, sub.Category.String())
		}
		ev.BaseEvent = ev.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		result.Events = append(result.Events, ev)

		if err := uow.Submissions().Update(ctx, sub); err != nil {
			return fmt.Errorf("failed to update submission: %w", err)
		}

		if err := uow.Students().Update(ctx, owner); err != nil {
			return fmt.Errorf("failed to update score record: %w", err)
		}

		note, err := notification.NewNotification(notification.NewNotificationParams{
			ID:          h.idGenerator.GenerateID(),
			RecipientID: owner.ID,
			Type:        notification.TypeSubmissionOutcome,
			Title:       title,
			Message:     message,
		})
		if err != nil {
			return err
		}

		if err := uow.Notifications().Create(ctx, note); err != nil {
			return fmt.Errorf("failed to enqueue notification: %w", err)
		}

		result.Status = sub.Status
		result.NotificationID = note.ID
		if owner.Total != nil {
			result.NewTotal = owner.Total.String()
		}
		if sub.ReviewedAt != nil {
			result.ReviewedAt = *sub.ReviewedAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = true
	h.publish(result.Events)
	return result, nil
}

// applyApprove transitions the submission and credits the owner's subtotal.
func (h *ReviewSubmissionHandler) applyApprove(sub *submission.Submission, owner *student.Student, award shared.Score, reviewerID string) error {
	group, err := sub.Group()
	if err != nil {
		return err
	}

	if err := sub.Approve(award, reviewerID); err != nil {
		return err
	}

	return owner.ApplyAward(group, award, h.weights)
}

// applyReset transitions the submission back to pending and, if it was
// approved, debits the owner's subtotal by the same amount.
func (h *ReviewSubmissionHandler) applyReset(sub *submission.Submission, owner *student.Student) error {
	group, err := sub.Group()
	if err != nil {
		return err
	}

	reversal, err := sub.Reset()
	if err != nil {
		return err
	}

	if reversal == nil {
		return nil
	}

	return owner.ReverseAward(group, *reversal, h.weights)
}

func (h *ReviewSubmissionHandler) publish(events []shared.Event) {
	if h.eventPublisher == nil {
		return
	}
	for _, e := range events {
		_ = h.eventPublisher.Publish(e)
	}
}
