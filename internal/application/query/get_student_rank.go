// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT RANK QUERY
// Получает позицию студента внутри его когорты. Это ключевой запрос
// личного кабинета - показывает "где я нахожусь".
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentRankQuery содержит параметры запроса позиции студента.
type GetStudentRankQuery struct {
	// StudentID - внутренний ID студента.
	StudentID string
}

// Validate проверяет корректность параметров запроса.
func (q *GetStudentRankQuery) Validate() error {
	if q.StudentID == "" {
		return errors.New("student_id must be provided")
	}
	return nil
}

// StudentRankDTO - DTO с позицией студента в рейтинге когорты.
type StudentRankDTO struct {
	// StudentID - внутренний ID студента.
	StudentID string `json:"student_id"`

	// StudentNumber - номер студенческого билета.
	StudentNumber string `json:"student_number"`

	// FullName - полное имя.
	FullName string `json:"full_name"`

	// Cohort - когорта, внутри которой считается позиция.
	Cohort string `json:"cohort"`

	// AcademicComprehensive - комплексная академическая оценка (пустая = не выставлена).
	AcademicComprehensive string `json:"academic_comprehensive,omitempty"`

	// AcademicExpertise - сумма академических наград.
	AcademicExpertise string `json:"academic_expertise"`

	// ComprehensivePerformance - сумма внеучебных наград.
	ComprehensivePerformance string `json:"comprehensive_performance"`

	// Total - итоговый балл (пустой = не определён).
	Total string `json:"total,omitempty"`

	// Ranked - определена ли позиция. Без итогового балла позиции нет.
	Ranked bool `json:"ranked"`

	// Rank - позиция в когорте: 1 + число студентов со строго большим итогом.
	Rank int `json:"rank,omitempty"`

	// CohortSize - размер когорты.
	CohortSize int `json:"cohort_size"`
}

// GetStudentRankResult содержит результат запроса.
type GetStudentRankResult struct {
	// Student - позиция и баллы студента.
	Student StudentRankDTO `json:"student"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetStudentRankHandler обрабатывает запросы позиции студента.
type GetStudentRankHandler struct {
	studentRepo student.Repository
}

// NewGetStudentRankHandler создаёт новый обработчик.
func NewGetStudentRankHandler(studentRepo student.Repository) *GetStudentRankHandler {
	return &GetStudentRankHandler{studentRepo: studentRepo}
}

// Handle выполняет запрос.
func (h *GetStudentRankHandler) Handle(ctx context.Context, query GetStudentRankQuery) (*GetStudentRankResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStudentRank", shared.ErrValidation, err.Error(), err)
	}

	st, err := h.studentRepo.GetByID(ctx, query.StudentID)
	if err != nil {
		return nil, err
	}

	cohort := st.Cohort()

	dto := StudentRankDTO{
		StudentID:                st.ID,
		StudentNumber:            st.StudentNumber.String(),
		FullName:                 st.FullName,
		Cohort:                   cohort.String(),
		AcademicExpertise:        st.AcademicExpertise.String(),
		ComprehensivePerformance: st.ComprehensivePerformance.String(),
	}

	if st.AcademicComprehensive != nil {
		dto.AcademicComprehensive = st.AcademicComprehensive.String()
	}

	size, err := h.studentRepo.CountByCohort(ctx, cohort)
	if err != nil {
		return nil, err
	}
	dto.CohortSize = size

	// Без итогового балла позиция не определена.
	if st.Total != nil {
		dto.Total = st.Total.String()

		greater, err := h.studentRepo.CountGreaterTotal(ctx, cohort, *st.Total)
		if err != nil {
			return nil, err
		}
		dto.Ranked = true
		dto.Rank = greater + 1
	}

	return &GetStudentRankResult{
		Student:     dto,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
