// Package jobs contains the portal's scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// IDGenerator generates identifiers for digest notifications.
type IDGenerator interface {
	GenerateID() string
}

// ══════════════════════════════════════════════════════════════════════════════
// PENDING REVIEW DIGEST
// ══════════════════════════════════════════════════════════════════════════════

// PendingReviewDigestJob reminds each counselor how many submissions in
// their cohort are still waiting for review. Counselors with an empty
// queue get no notification.
type PendingReviewDigestJob struct {
	counselorRepo    counselor.Repository
	submissionRepo   submission.Repository
	notificationRepo notification.Repository
	idGenerator      IDGenerator
	logger           *slog.Logger
	pageSize         int
}

// NewPendingReviewDigestJob creates the digest job.
func NewPendingReviewDigestJob(
	counselorRepo counselor.Repository,
	submissionRepo submission.Repository,
	notificationRepo notification.Repository,
	idGenerator IDGenerator,
	logger *slog.Logger,
) *PendingReviewDigestJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PendingReviewDigestJob{
		counselorRepo:    counselorRepo,
		submissionRepo:   submissionRepo,
		notificationRepo: notificationRepo,
		idGenerator:      idGenerator,
		logger:           logger.With("job", "pending_review_digest"),
		pageSize:         100,
	}
}

// Name returns the unique job name.
func (j *PendingReviewDigestJob) Name() string {
	return "pending_review_digest"
}

// Description returns a human-readable description.
func (j *PendingReviewDigestJob) Description() string {
	return "Notifies counselors about submissions waiting for review"
}

// Run walks all counselors and notifies those with a non-empty queue.
func (j *PendingReviewDigestJob) Run(ctx context.Context) error {
	offset := 0
	notified := 0

	for {
		opts := counselor.ListOptions{Offset: offset, Limit: j.pageSize}
		counselors, err := j.counselorRepo.GetAll(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to list counselors: %w", err)
		}
		if len(counselors) == 0 {
			break
		}

		batch := make([]*notification.Notification, 0, len(counselors))
		for _, c := range counselors {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			pending, err := j.submissionRepo.CountByCohort(ctx, c.Cohort(), submission.StatusPending)
			if err != nil {
				j.logger.Error("failed to count pending submissions",
					"counselor_id", c.ID,
					"cohort", c.Cohort().String(),
					"error", err,
				)
				continue
			}
			if pending == 0 {
				continue
			}

			n, err := notification.NewNotification(notification.NewNotificationParams{
				ID:          j.idGenerator.GenerateID(),
				RecipientID: c.ID,
				Type:        notification.TypeSystem,
				Title:       "Submissions waiting for review",
				Message:     fmt.Sprintf("Your cohort %s has %d pending submission(s) waiting for review.", c.Cohort().String(), pending),
			})
			if err != nil {
				j.logger.Error("failed to build digest notification", "counselor_id", c.ID, "error", err)
				continue
			}

			batch = append(batch, n)
		}

		if len(batch) > 0 {
			if err := j.notificationRepo.CreateBatch(ctx, batch); err != nil {
				return fmt.Errorf("failed to save digest notifications: %w", err)
			}
			notified += len(batch)
		}

		if len(counselors) < j.pageSize {
			break
		}
		offset += j.pageSize
	}

	j.logger.Info("digest complete", "counselors_notified", notified)
	return nil
}
