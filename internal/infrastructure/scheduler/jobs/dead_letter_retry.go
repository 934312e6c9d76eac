package jobs

import (
	"context"
	"log/slog"

	"github.com/gradpath/merit-portal/internal/infrastructure/messaging"
)

// ══════════════════════════════════════════════════════════════════════════════
// DEAD LETTER RETRY
// ══════════════════════════════════════════════════════════════════════════════

// DeadLetterRetryJob drains the dispatcher's dead letter queue and
// re-dispatches the parked events. Events that fail again go back onto
// the queue through the dispatcher's normal retry path.
type DeadLetterRetryJob struct {
	dispatcher *messaging.Dispatcher
	logger     *slog.Logger
	maxPerRun  int
}

// NewDeadLetterRetryJob creates the retry job. maxPerRun caps how many
// entries one run will re-dispatch; values below 1 default to 100.
func NewDeadLetterRetryJob(dispatcher *messaging.Dispatcher, maxPerRun int, logger *slog.Logger) *DeadLetterRetryJob {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPerRun < 1 {
		maxPerRun = 100
	}
	return &DeadLetterRetryJob{
		dispatcher: dispatcher,
		logger:     logger.With("job", "dead_letter_retry"),
		maxPerRun:  maxPerRun,
	}
}

// Name returns the unique job name.
func (j *DeadLetterRetryJob) Name() string {
	return "dead_letter_retry"
}

// Description returns a human-readable description.
func (j *DeadLetterRetryJob) Description() string {
	return "Re-dispatches events parked in the dead letter queue"
}

// Run pops up to maxPerRun entries and re-dispatches them.
func (j *DeadLetterRetryJob) Run(ctx context.Context) error {
	q := j.dispatcher.DeadLetterQueue()
	if q == nil {
		return nil
	}

	retried := 0
	failed := 0

	for retried+failed < j.maxPerRun {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		entry, ok := q.Pop()
		if !ok {
			break
		}

		if err := j.dispatcher.Dispatch(entry.Event); err != nil {
			failed++
			j.logger.Warn("dead letter redispatch failed",
				"event_type", entry.Event.EventType(),
				"handler", entry.HandlerName,
				"error", err,
			)
			continue
		}

		retried++
	}

	if retried > 0 || failed > 0 {
		j.logger.Info("dead letter retry complete", "retried", retried, "failed", failed)
	}

	return nil
}
