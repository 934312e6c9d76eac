// Package eventhandler содержит обработчики доменных событий.
package eventhandler

import (
	"log/slog"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON SUBMISSION REVIEWED HANDLER
// Обрабатывает события решений по заявкам: approve, reject, reset.
//
// Ключевые функции:
// 1. Структурированный аудиторский след каждого решения
// 2. Пометка крупных начислений для выборочной проверки
// ═══════════════════════════════════════════════════════════════════════════

// OnSubmissionReviewedHandler обрабатывает события решений по заявкам.
type OnSubmissionReviewedHandler struct {
	logger *slog.Logger
	config ReviewAuditConfig
}

// ReviewAuditConfig содержит конфигурацию аудита решений.
type ReviewAuditConfig struct {
	// LargeAwardThreshold - начисления не ниже этого порога помечаются
	// в журнале для выборочной проверки. Десятичная строка.
	LargeAwardThreshold string
}

// DefaultReviewAuditConfig возвращает конфигурацию по умолчанию.
func DefaultReviewAuditConfig() ReviewAuditConfig {
	return ReviewAuditConfig{
		LargeAwardThreshold: "10.0",
	}
}

// NewOnSubmissionReviewedHandler создаёт новый обработчик.
func NewOnSubmissionReviewedHandler(logger *slog.Logger, config ReviewAuditConfig) *OnSubmissionReviewedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnSubmissionReviewedHandler{
		logger: logger.With("handler", "on_submission_reviewed"),
		config: config,
	}
}

// Handle обрабатывает событие решения. Сигнатура совместима с shared.EventHandler.
func (h *OnSubmissionReviewedHandler) Handle(event shared.Event) error {
	reviewed, ok := event.(shared.SubmissionReviewedEvent)
	if !ok {
		h.logger.Warn("received non-SubmissionReviewedEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	attrs := []any{
		"submission_id", reviewed.AggregateID(),
		"student_id", reviewed.StudentID,
		"reviewer_id", reviewed.ReviewerID,
		"category", reviewed.Category,
		"occurred_at", reviewed.OccurredAt(),
	}

	switch reviewed.EventType() {
	case shared.EventSubmissionApproved:
		attrs = append(attrs, "awarded_score", reviewed.AwardedScore)
		h.logger.Info("submission approved", attrs...)
		h.flagLargeAward(reviewed)

	case shared.EventSubmissionRejected:
		attrs = append(attrs, "reason", reviewed.RejectReason)
		h.logger.Info("submission rejected", attrs...)

	case shared.EventSubmissionReset:
		h.logger.Info("submission decision withdrawn", attrs...)

	default:
		h.logger.Warn("unexpected review event type",
			"event_type", reviewed.EventType(),
		)
	}

	return nil
}

// flagLargeAward помечает крупное начисление в журнале.
func (h *OnSubmissionReviewedHandler) flagLargeAward(event shared.SubmissionReviewedEvent) {
	threshold, err := shared.ParseScore(h.config.LargeAwardThreshold)
	if err != nil {
		return
	}

	awarded, err := shared.ParseScore(event.AwardedScore)
	if err != nil {
		return
	}

	if awarded.Cmp(threshold) >= 0 {
		h.logger.Warn("large award, flagged for spot check",
			"submission_id", event.AggregateID(),
			"student_id", event.StudentID,
			"reviewer_id", event.ReviewerID,
			"awarded_score", event.AwardedScore,
			"threshold", h.config.LargeAwardThreshold,
		)
	}
}

// EventTypes возвращает типы событий, которые обрабатывает этот handler.
func (h *OnSubmissionReviewedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventSubmissionApproved,
		shared.EventSubmissionRejected,
		shared.EventSubmissionReset,
	}
}
