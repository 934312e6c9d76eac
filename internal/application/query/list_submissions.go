package query

import (
	"context"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST SUBMISSIONS QUERIES
// Студент видит свои заявки; куратор - заявки студентов своей когорты.
// ══════════════════════════════════════════════════════════════════════════════

// SubmissionDTO - заявка для выдачи наружу.
type SubmissionDTO struct {
	// SubmissionID - ID заявки.
	SubmissionID string `json:"submission_id"`

	// StudentID - владелец.
	StudentID string `json:"student_id"`

	// StudentName - имя владельца (заполняется в кураторской выборке).
	StudentName string `json:"student_name,omitempty"`

	// StudentNumber - номер билета владельца (кураторская выборка).
	StudentNumber string `json:"student_number,omitempty"`

	// Category - категория достижения.
	Category string `json:"category"`

	// ItemName - название достижения.
	ItemName string `json:"item_name"`

	// Description - описание.
	Description string `json:"description,omitempty"`

	// AttachmentRef - ссылка на подтверждающий документ.
	AttachmentRef string `json:"attachment_ref,omitempty"`

	// SelfRating - самооценка студента.
	SelfRating string `json:"self_rating"`

	// Status - текущий статус.
	Status string `json:"status"`

	// AwardedScore - присуждённый балл (только для approved).
	AwardedScore string `json:"awarded_score,omitempty"`

	// RejectReason - причина отклонения (только для rejected).
	RejectReason string `json:"reject_reason,omitempty"`

	// ReviewedAt - время решения.
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	// CreatedAt - время подачи.
	CreatedAt time.Time `json:"created_at"`
}

// ListSubmissionsResult содержит страницу заявок.
type ListSubmissionsResult struct {
	// Submissions - заявки, новые первыми.
	Submissions []SubmissionDTO `json:"submissions"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Own submissions (student view)
// ─────────────────────────────────────────────────────────────────────────────

// ListOwnSubmissionsQuery содержит параметры выборки собственных заявок.
type ListOwnSubmissionsQuery struct {
	// StudentID - владелец (из сессии).
	StudentID string

	// Status - фильтр по статусу (пустой = все).
	Status string
}

// ListOwnSubmissionsHandler обрабатывает выборку собственных заявок.
type ListOwnSubmissionsHandler struct {
	submissionRepo submission.Repository
}

// NewListOwnSubmissionsHandler создаёт новый обработчик.
func NewListOwnSubmissionsHandler(submissionRepo submission.Repository) *ListOwnSubmissionsHandler {
	return &ListOwnSubmissionsHandler{submissionRepo: submissionRepo}
}

// Handle выполняет запрос.
func (h *ListOwnSubmissionsHandler) Handle(ctx context.Context, query ListOwnSubmissionsQuery) (*ListSubmissionsResult, error) {
	if query.StudentID == "" {
		return nil, shared.NewDomainError("query", "ListOwnSubmissions", shared.ErrValidation, "student_id is required")
	}

	opts := submission.DefaultListOptions()
	if query.Status != "" {
		status, err := submission.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		opts = opts.WithStatus(status)
	}

	subs, err := h.submissionRepo.GetByStudent(ctx, query.StudentID, opts)
	if err != nil {
		return nil, err
	}

	dtos := make([]SubmissionDTO, 0, len(subs))
	for _, sub := range subs {
		dtos = append(dtos, submissionDTO(sub))
	}

	return &ListSubmissionsResult{
		Submissions: dtos,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Cohort submissions (counselor view)
// ─────────────────────────────────────────────────────────────────────────────

// ListCohortSubmissionsQuery содержит параметры кураторской выборки.
type ListCohortSubmissionsQuery struct {
	// Cohort - когорта куратора.
	Cohort shared.Cohort

	// Status - фильтр по статусу (пустой = все).
	Status string

	// Category - фильтр по категории (пустой = все).
	Category string
}

// ListCohortSubmissionsHandler обрабатывает кураторскую выборку заявок.
type ListCohortSubmissionsHandler struct {
	submissionRepo submission.Repository
	studentRepo    student.Repository
}

// NewListCohortSubmissionsHandler создаёт новый обработчик.
func NewListCohortSubmissionsHandler(submissionRepo submission.Repository, studentRepo student.Repository) *ListCohortSubmissionsHandler {
	return &ListCohortSubmissionsHandler{
		submissionRepo: submissionRepo,
		studentRepo:    studentRepo,
	}
}

// Handle выполняет запрос.
func (h *ListCohortSubmissionsHandler) Handle(ctx context.Context, query ListCohortSubmissionsQuery) (*ListSubmissionsResult, error) {
	if !query.Cohort.IsValid() {
		return nil, shared.NewDomainError("query", "ListCohortSubmissions", shared.ErrValidation, "cohort is required")
	}

	opts := submission.DefaultListOptions()
	if query.Status != "" {
		status, err := submission.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		opts = opts.WithStatus(status)
	}
	if query.Category != "" {
		category, err := submission.ParseCategory(query.Category)
		if err != nil {
			return nil, err
		}
		opts = opts.WithCategory(category)
	}

	subs, err := h.submissionRepo.GetByCohort(ctx, query.Cohort, opts)
	if err != nil {
		return nil, err
	}

	dtos := make([]SubmissionDTO, 0, len(subs))
	for _, sub := range subs {
		dto := submissionDTO(sub)

		// Подмешиваем владельца, чтобы куратор видел кого проверяет.
		owner, err := h.studentRepo.GetByID(ctx, sub.StudentID)
		if err == nil {
			dto.StudentName = owner.FullName
			dto.StudentNumber = owner.StudentNumber.String()
		}

		dtos = append(dtos, dto)
	}

	return &ListSubmissionsResult{
		Submissions: dtos,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// submissionDTO формирует DTO из доменного объекта.
func submissionDTO(sub *submission.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		SubmissionID:  sub.ID,
		StudentID:     sub.StudentID,
		Category:      sub.Category.String(),
		ItemName:      sub.ItemName,
		Description:   sub.Description,
		AttachmentRef: sub.AttachmentRef,
		SelfRating:    sub.SelfRating.String(),
		Status:        sub.Status.String(),
		RejectReason:  sub.RejectReason,
		ReviewedAt:    sub.ReviewedAt,
		CreatedAt:     sub.CreatedAt,
	}
	if sub.AwardedScore != nil {
		dto.AwardedScore = sub.AwardedScore.String()
	}
	return dto
}
