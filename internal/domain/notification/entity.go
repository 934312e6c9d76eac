// Package notification содержит исходящие уведомления портала.
// Уведомление append-only: единственная мутация - отметка о прочтении.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TYPES
// ══════════════════════════════════════════════════════════════════════════════

// Type - тип уведомления.
type Type string

const (
	// TypeSubmissionOutcome - итог проверки заявки.
	// Пример: "Your submission 'ACM regional' was approved with 4.0 points."
	TypeSubmissionOutcome Type = "submission_outcome"

	// TypeRuleChange - изменение каталога правил.
	// Пример: "New scoring rule: 'National competition, first prize' (5.0 points)."
	TypeRuleChange Type = "rule_change"

	// TypeSystem - служебное уведомление.
	TypeSystem Type = "system"
)

// IsValid проверяет, что тип известен.
func (t Type) IsValid() bool {
	switch t {
	case TypeSubmissionOutcome, TypeRuleChange, TypeSystem:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление.
func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification - одно уведомление в ящике студента.
type Notification struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// RecipientID - студент-получатель.
	RecipientID string

	// Type - тип уведомления.
	Type Type

	// Title - короткий заголовок.
	Title string

	// Message - текст уведомления.
	Message string

	// Read - отметка о прочтении.
	Read bool

	// CreatedAt - время постановки в ящик.
	CreatedAt time.Time
}

var (
	// ErrInvalidRecipient - получатель обязателен.
	ErrInvalidRecipient = errors.New("recipient id is required")

	// ErrInvalidType - неизвестный тип уведомления.
	ErrInvalidType = errors.New("invalid notification type")

	// ErrEmptyMessage - текст уведомления обязателен.
	ErrEmptyMessage = errors.New("notification message is required")
)

// NewNotificationParams содержит параметры для создания уведомления.
type NewNotificationParams struct {
	ID          string
	RecipientID string
	Type        Type
	Title       string
	Message     string
}

// NewNotification создаёт новое непрочитанное уведомление.
func NewNotification(params NewNotificationParams) (*Notification, error) {
	if params.ID == "" {
		return nil, errors.New("notification id is required")
	}

	if params.RecipientID == "" {
		return nil, ErrInvalidRecipient
	}

	if !params.Type.IsValid() {
		return nil, ErrInvalidType
	}

	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	return &Notification{
		ID:          params.ID,
		RecipientID: params.RecipientID,
		Type:        params.Type,
		Title:       strings.TrimSpace(params.Title),
		Message:     message,
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// MarkRead отмечает уведомление прочитанным. Идемпотентно.
func (n *Notification) MarkRead() {
	n.Read = true
}

// String возвращает строковое представление для логирования.
func (n *Notification) String() string {
	return fmt.Sprintf("Notification{ID: %s, To: %s, Type: %s, Read: %v}", n.ID, n.RecipientID, n.Type, n.Read)
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE BUILDERS
// Канонические тексты уведомлений собираются здесь, а не в обработчиках.
// ══════════════════════════════════════════════════════════════════════════════

// ApprovedMessage возвращает заголовок и текст для одобренной заявки.
func ApprovedMessage(itemName string, score shared.Score) (title, message string) {
	return "Submission approved",
		fmt.Sprintf("Your submission %q was approved with %s points.", itemName, score)
}

// RejectedMessage возвращает заголовок и текст для отклонённой заявки.
func RejectedMessage(itemName, reason string) (title, message string) {
	return "Submission rejected",
		fmt.Sprintf("Your submission %q was rejected: %s", itemName, reason)
}

// ResetMessage возвращает заголовок и текст для сброшенной заявки.
func ResetMessage(itemName string) (title, message string) {
	return "Submission back in review",
		fmt.Sprintf("The decision on your submission %q was withdrawn; it is pending review again.", itemName)
}

// RuleCreatedMessage возвращает заголовок и текст для нового правила.
func RuleCreatedMessage(itemName string, score shared.Score) (title, message string) {
	return "New scoring rule",
		fmt.Sprintf("New scoring rule: %q (%s points).", itemName, score)
}
