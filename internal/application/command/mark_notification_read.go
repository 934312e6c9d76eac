package command

import (
	"context"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK NOTIFICATION READ COMMAND
// The only mutation the outbox allows.
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationReadHandler marks outbox entries as read.
type MarkNotificationReadHandler struct {
	notificationRepo notification.Repository
}

// NewMarkNotificationReadHandler creates a new handler.
func NewMarkNotificationReadHandler(notificationRepo notification.Repository) *MarkNotificationReadHandler {
	return &MarkNotificationReadHandler{notificationRepo: notificationRepo}
}

// Handle marks one notification as read. Ownership is enforced here:
// another student's notification reads as not found.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, notificationID, recipientID string) error {
	if notificationID == "" || recipientID == "" {
		return shared.NewDomainError("notification", "MarkRead", shared.ErrValidation, "notification_id and recipient_id are required")
	}

	n, err := h.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if n.RecipientID != recipientID {
		return shared.ErrNotificationNotFound
	}

	return h.notificationRepo.MarkRead(ctx, n.ID)
}

// HandleAll marks every notification of the recipient as read.
func (h *MarkNotificationReadHandler) HandleAll(ctx context.Context, recipientID string) error {
	if recipientID == "" {
		return shared.NewDomainError("notification", "MarkAllRead", shared.ErrValidation, "recipient_id is required")
	}
	return h.notificationRepo.MarkAllRead(ctx, recipientID)
}
