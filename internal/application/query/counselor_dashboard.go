package query

import (
	"context"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNSELOR DASHBOARD QUERY
// Сводка по когорте: сколько студентов, сколько заявок ждёт решения.
// ══════════════════════════════════════════════════════════════════════════════

// CounselorDashboardQuery содержит параметры сводки.
type CounselorDashboardQuery struct {
	// Cohort - когорта куратора.
	Cohort shared.Cohort
}

// CounselorDashboardResult содержит сводку по когорте.
type CounselorDashboardResult struct {
	// Cohort - когорта.
	Cohort string `json:"cohort"`

	// StudentCount - количество студентов в когорте.
	StudentCount int `json:"student_count"`

	// PendingSubmissions - заявки, ожидающие решения.
	PendingSubmissions int `json:"pending_submissions"`

	// ApprovedSubmissions - одобренные заявки.
	ApprovedSubmissions int `json:"approved_submissions"`

	// RejectedSubmissions - отклонённые заявки.
	RejectedSubmissions int `json:"rejected_submissions"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// CounselorDashboardHandler обрабатывает запросы сводки.
type CounselorDashboardHandler struct {
	studentRepo    student.Repository
	submissionRepo submission.Repository
}

// NewCounselorDashboardHandler создаёт новый обработчик.
func NewCounselorDashboardHandler(studentRepo student.Repository, submissionRepo submission.Repository) *CounselorDashboardHandler {
	return &CounselorDashboardHandler{
		studentRepo:    studentRepo,
		submissionRepo: submissionRepo,
	}
}

// Handle выполняет запрос.
func (h *CounselorDashboardHandler) Handle(ctx context.Context, query CounselorDashboardQuery) (*CounselorDashboardResult, error) {
	if !query.Cohort.IsValid() {
		return nil, shared.NewDomainError("query", "CounselorDashboard", shared.ErrValidation, "cohort is required")
	}

	students, err := h.studentRepo.CountByCohort(ctx, query.Cohort)
	if err != nil {
		return nil, err
	}

	pending, err := h.submissionRepo.CountByCohort(ctx, query.Cohort, submission.StatusPending)
	if err != nil {
		return nil, err
	}

	approved, err := h.submissionRepo.CountByCohort(ctx, query.Cohort, submission.StatusApproved)
	if err != nil {
		return nil, err
	}

	rejected, err := h.submissionRepo.CountByCohort(ctx, query.Cohort, submission.StatusRejected)
	if err != nil {
		return nil, err
	}

	return &CounselorDashboardResult{
		Cohort:              query.Cohort.String(),
		StudentCount:        students,
		PendingSubmissions:  pending,
		ApprovedSubmissions: approved,
		RejectedSubmissions: rejected,
		GeneratedAt:         time.Now().UTC(),
	}, nil
}
