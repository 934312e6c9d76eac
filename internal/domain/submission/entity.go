// Package submission содержит доменную модель заявки на баллы.
// Заявка - это ядро портала: студент загружает достижение, куратор
// одобряет, отклоняет или сбрасывает решение обратно в ожидание.
package submission

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORIES
// Единственное место, где категория отображается в группу баллов.
// ══════════════════════════════════════════════════════════════════════════════

// Category - категория заявки.
type Category string

const (
	CategoryThesis             Category = "thesis"
	CategoryCompetition        Category = "competition"
	CategoryResearch           Category = "research"
	CategoryOtherAcademic      Category = "other_academic"
	CategoryVolunteer          Category = "volunteer"
	CategoryLeadership         Category = "leadership"
	CategorySocialPractice     Category = "social_practice"
	CategoryOtherComprehensive Category = "other_comprehensive"
)

// categoryGroups - центральная таблица соответствия категории и группы баллов.
var categoryGroups = map[Category]shared.ScoreGroup{
	CategoryThesis:             shared.GroupAcademic,
	CategoryCompetition:        shared.GroupAcademic,
	CategoryResearch:           shared.GroupAcademic,
	CategoryOtherAcademic:      shared.GroupAcademic,
	CategoryVolunteer:          shared.GroupComprehensive,
	CategoryLeadership:         shared.GroupComprehensive,
	CategorySocialPractice:     shared.GroupComprehensive,
	CategoryOtherComprehensive: shared.GroupComprehensive,
}

// IsValid проверяет, что категория известна.
func (c Category) IsValid() bool {
	_, ok := categoryGroups[c]
	return ok
}

// Group возвращает группу баллов, в которую попадает категория.
func (c Category) Group() (shared.ScoreGroup, error) {
	g, ok := categoryGroups[c]
	if !ok {
		return "", shared.ErrInvalidCategory
	}
	return g, nil
}

// String возвращает строковое представление.
func (c Category) String() string {
	return string(c)
}

// AllCategories возвращает все известные категории в стабильном порядке.
func AllCategories() []Category {
	return []Category{
		CategoryThesis, CategoryCompetition, CategoryResearch, CategoryOtherAcademic,
		CategoryVolunteer, CategoryLeadership, CategorySocialPractice, CategoryOtherComprehensive,
	}
}

// ParseCategory создаёт категорию из строки с валидацией.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", shared.ErrInvalidCategory
	}
	return c, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS (state machine)
// ══════════════════════════════════════════════════════════════════════════════

// Status - состояние заявки.
type Status string

const (
	// StatusPending - заявка ждёт решения куратора.
	StatusPending Status = "pending"
	// StatusApproved - заявка одобрена, балл зачислен в подытог.
	StatusApproved Status = "approved"
	// StatusRejected - заявка отклонена с указанием причины.
	StatusRejected Status = "rejected"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsDecided возвращает true, если по заявке принято решение.
func (s Status) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// ParseStatus разбирает статус из строки.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", shared.NewDomainError("submission", "ParseStatus", shared.ErrInvalidInput, "unknown submission status")
	}
	return s, nil
}

// CanTransitionTo проверяет допустимость перехода.
// Прямого ребра между approved и rejected нет: сначала сброс в pending.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved, StatusRejected:
		return next == StatusPending
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SUBMISSION
// ══════════════════════════════════════════════════════════════════════════════

// Submission - заявка студента на зачисление баллов.
type Submission struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// StudentID - владелец заявки.
	StudentID string

	// Category - категория достижения.
	Category Category

	// ItemName - название достижения.
	ItemName string

	// Description - описание достижения.
	Description string

	// AttachmentRef - ссылка на подтверждающий документ (непрозрачная строка).
	AttachmentRef string

	// SelfRating - балл, заявленный студентом.
	SelfRating shared.Score

	// Status - текущее состояние заявки.
	Status Status

	// AwardedScore - балл, присуждённый куратором. nil вне approved.
	AwardedScore *shared.Score

	// RejectReason - причина отклонения. Пустая вне rejected.
	RejectReason string

	// ReviewerID - куратор, принявший последнее решение. Пустой в pending.
	ReviewerID string

	// ReviewedAt - время последнего решения.
	ReviewedAt *time.Time

	// CreatedAt - время загрузки заявки.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidItemName - невалидное название достижения.
	ErrInvalidItemName = errors.New("invalid item name: must be 1-200 chars")

	// ErrAwardNegative - присуждённый балл не может быть отрицательным.
	// Ноль допустим: заявка засчитана, но подытог не меняется.
	ErrAwardNegative = errors.New("awarded score must not be negative")

	// ErrEmptyRejectReason - отклонение требует непустой причины.
	ErrEmptyRejectReason = errors.New("reject reason is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewSubmissionParams содержит параметры для создания новой заявки.
type NewSubmissionParams struct {
	ID            string
	StudentID     string
	Category      Category
	ItemName      string
	Description   string
	AttachmentRef string
	SelfRating    shared.Score
}

// NewSubmission создаёт новую заявку в состоянии pending.
func NewSubmission(params NewSubmissionParams) (*Submission, error) {
	if params.ID == "" {
		return nil, errors.New("submission id is required")
	}

	if params.StudentID == "" {
		return nil, errors.New("student id is required")
	}

	if !params.Category.IsValid() {
		return nil, shared.ErrInvalidCategory
	}

	itemName := strings.TrimSpace(params.ItemName)
	if len(itemName) == 0 || len(itemName) > 200 {
		return nil, ErrInvalidItemName
	}

	now := time.Now().UTC()

	return &Submission{
		ID:            params.ID,
		StudentID:     params.StudentID,
		Category:      params.Category,
		ItemName:      itemName,
		Description:   strings.TrimSpace(params.Description),
		AttachmentRef: strings.TrimSpace(params.AttachmentRef),
		SelfRating:    params.SelfRating,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Group возвращает группу баллов заявки.
func (s *Submission) Group() (shared.ScoreGroup, error) {
	return s.Category.Group()
}

// Approve одобряет заявку с присуждённым баллом.
// Допустимо только из pending; балл не может быть отрицательным
// (нулевой балл засчитывает заявку без прибавки к подытогу).
func (s *Submission) Approve(score shared.Score, reviewerID string) error {
	if !s.Status.CanTransitionTo(StatusApproved) {
		return shared.ErrInvalidTransition
	}

	if score.IsNegative() {
		return ErrAwardNegative
	}

	now := time.Now().UTC()
	s.Status = StatusApproved
	s.AwardedScore = &score
	s.RejectReason = ""
	s.ReviewerID = reviewerID
	s.ReviewedAt = &now
	s.UpdatedAt = now
	return nil
}

// Reject отклоняет заявку с причиной. Допустимо только из pending.
func (s *Submission) Reject(reason, reviewerID string) error {
	if !s.Status.CanTransitionTo(StatusRejected) {
		return shared.ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyRejectReason
	}

	now := time.Now().UTC()
	s.Status = StatusRejected
	s.AwardedScore = nil
	s.RejectReason = reason
	s.ReviewerID = reviewerID
	s.ReviewedAt = &now
	s.UpdatedAt = now
	return nil
}

// Reset возвращает решённую заявку в ожидание: балл, причина,
// куратор и время решения очищаются, как у свежей заявки.
// Возвращает балл, который нужно списать с подытога (nil, если
// сбрасывается отклонение).
func (s *Submission) Reset() (*shared.Score, error) {
	if !s.Status.CanTransitionTo(StatusPending) {
		return nil, shared.ErrInvalidTransition
	}

	reversal := s.AwardedScore

	s.Status = StatusPending
	s.AwardedScore = nil
	s.RejectReason = ""
	s.ReviewerID = ""
	s.ReviewedAt = nil
	s.UpdatedAt = time.Now().UTC()
	return reversal, nil
}

// CanBeDeletedByOwner возвращает true, если владелец может удалить заявку.
// Решённые заявки удалять нельзя: сначала сброс куратором.
func (s *Submission) CanBeDeletedByOwner() bool {
	return s.Status == StatusPending
}

// String возвращает строковое представление заявки для логирования.
func (s *Submission) String() string {
	return fmt.Sprintf(
		"Submission{ID: %s, Student: %s, Category: %s, Status: %s}",
		s.ID, s.StudentID, s.Category, s.Status,
	)
}

// Clone создаёт глубокую копию заявки.
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}

	clone := *s
	if s.AwardedScore != nil {
		sc := *s.AwardedScore
		clone.AwardedScore = &sc
	}
	if s.ReviewedAt != nil {
		t := *s.ReviewedAt
		clone.ReviewedAt = &t
	}
	return &clone
}
