package query

import (
	"context"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/notification"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST NOTIFICATIONS QUERY
// Лента уведомлений получателя, новые первыми, со счётчиком непрочитанных.
// ══════════════════════════════════════════════════════════════════════════════

// ListNotificationsQuery содержит параметры выборки.
type ListNotificationsQuery struct {
	// RecipientID - получатель (из сессии).
	RecipientID string

	// UnreadOnly - показывать только непрочитанные.
	UnreadOnly bool

	// Limit - максимальное количество записей (0 = по умолчанию).
	Limit int
}

// NotificationDTO - уведомление для выдачи наружу.
type NotificationDTO struct {
	// NotificationID - ID уведомления.
	NotificationID string `json:"notification_id"`

	// Type - тип уведомления.
	Type string `json:"type"`

	// Title - заголовок.
	Title string `json:"title"`

	// Message - текст.
	Message string `json:"message"`

	// Read - прочитано ли.
	Read bool `json:"read"`

	// CreatedAt - время постановки в очередь.
	CreatedAt time.Time `json:"created_at"`
}

// ListNotificationsResult содержит ленту уведомлений.
type ListNotificationsResult struct {
	// Notifications - уведомления, новые первыми.
	Notifications []NotificationDTO `json:"notifications"`

	// UnreadCount - количество непрочитанных.
	UnreadCount int `json:"unread_count"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListNotificationsHandler обрабатывает выборку уведомлений.
type ListNotificationsHandler struct {
	notificationRepo notification.Repository
}

// NewListNotificationsHandler создаёт новый обработчик.
func NewListNotificationsHandler(notificationRepo notification.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{notificationRepo: notificationRepo}
}

// Handle выполняет запрос.
func (h *ListNotificationsHandler) Handle(ctx context.Context, query ListNotificationsQuery) (*ListNotificationsResult, error) {
	if query.RecipientID == "" {
		return nil, shared.NewDomainError("query", "ListNotifications", shared.ErrValidation, "recipient_id is required")
	}
	if query.Limit <= 0 {
		query.Limit = shared.DefaultPageSize
	}

	opts := notification.ListOptions{
		Limit:      query.Limit,
		UnreadOnly: query.UnreadOnly,
	}

	notes, err := h.notificationRepo.GetByRecipient(ctx, query.RecipientID, opts)
	if err != nil {
		return nil, err
	}

	unread, err := h.notificationRepo.CountUnread(ctx, query.RecipientID)
	if err != nil {
		return nil, err
	}

	dtos := make([]NotificationDTO, 0, len(notes))
	for _, n := range notes {
		dtos = append(dtos, NotificationDTO{
			NotificationID: n.ID,
			Type:           string(n.Type),
			Title:          n.Title,
			Message:        n.Message,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt,
		})
	}

	return &ListNotificationsResult{
		Notifications: dtos,
		UnreadCount:   unread,
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
