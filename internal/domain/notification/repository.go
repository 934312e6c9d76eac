package notification

import "context"

// Repository определяет операции с ящиком уведомлений.
// Ящик append-only: обновляется только флаг прочтения.
type Repository interface {
	// Create кладёт уведомление в ящик.
	Create(ctx context.Context, n *Notification) error

	// CreateBatch кладёт пачку уведомлений одной операцией
	// (широковещательная рассылка при создании правила).
	CreateBatch(ctx context.Context, ns []*Notification) error

	// GetByID возвращает уведомление по ID.
	// Возвращает shared.ErrNotificationNotFound, если не найдено.
	GetByID(ctx context.Context, id string) (*Notification, error)

	// GetByRecipient возвращает уведомления студента, новые первыми.
	GetByRecipient(ctx context.Context, recipientID string, opts ListOptions) ([]*Notification, error)

	// CountUnread возвращает число непрочитанных уведомлений студента.
	CountUnread(ctx context.Context, recipientID string) (int, error)

	// MarkRead отмечает уведомление прочитанным.
	// Возвращает shared.ErrNotificationNotFound, если не найдено.
	MarkRead(ctx context.Context, id string) error

	// MarkAllRead отмечает все уведомления студента прочитанными.
	MarkAllRead(ctx context.Context, recipientID string) error
}

// ListOptions содержит параметры выборки уведомлений.
type ListOptions struct {
	Offset     int
	Limit      int
	UnreadOnly bool
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{Offset: 0, Limit: 50}
}
