package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STUDENT REGISTERED HANDLER
// Обрабатывает событие регистрации нового студента.
//
// Кладёт приветственное уведомление в ящик студента. Рассылка идёт вне
// транзакции регистрации: потерянное приветствие не ломает аккаунт.
// ═══════════════════════════════════════════════════════════════════════════

// IDGenerator выдаёт уникальные идентификаторы уведомлений.
type IDGenerator interface {
	GenerateID() string
}

// OnStudentRegisteredHandler обрабатывает событие регистрации студента.
type OnStudentRegisteredHandler struct {
	notificationRepo notification.Repository
	idGenerator      IDGenerator
	logger           *slog.Logger
}

// NewOnStudentRegisteredHandler создаёт новый обработчик.
func NewOnStudentRegisteredHandler(
	notificationRepo notification.Repository,
	idGenerator IDGenerator,
	logger *slog.Logger,
) *OnStudentRegisteredHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnStudentRegisteredHandler{
		notificationRepo: notificationRepo,
		idGenerator:      idGenerator,
		logger:           logger.With("handler", "on_student_registered"),
	}
}

// Handle обрабатывает событие регистрации. Сигнатура совместима с shared.EventHandler.
func (h *OnStudentRegisteredHandler) Handle(event shared.Event) error {
	registered, ok := event.(shared.StudentRegisteredEvent)
	if !ok {
		h.logger.Warn("received non-StudentRegisteredEvent",
			"event_type", event.EventType(),
		)
		return nil
	}

	ctx := context.Background()

	welcome, err := notification.NewNotification(notification.NewNotificationParams{
		ID:          h.idGenerator.GenerateID(),
		RecipientID: registered.AggregateID(),
		Type:        notification.TypeSystem,
		Title:       "Welcome to the merit portal",
		Message: fmt.Sprintf(
			"Welcome, %s! Upload your achievements under the scoring rules and track your cohort standing here.",
			registered.FullName,
		),
	})
	if err != nil {
		return fmt.Errorf("create welcome notification: %w", err)
	}

	if err := h.notificationRepo.Create(ctx, welcome); err != nil {
		return fmt.Errorf("save welcome notification: %w", err)
	}

	h.logger.Info("welcome notification queued",
		"student_id", registered.AggregateID(),
		"student_number", registered.StudentNumber,
	)

	return nil
}

// EventType возвращает тип события, который обрабатывает этот handler.
func (h *OnStudentRegisteredHandler) EventType() shared.EventType {
	return shared.EventStudentRegistered
}
