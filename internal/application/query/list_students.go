package query

import (
	"context"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Ростер когорты для куратора (и полный список для администратора).
// Куратор видит только студентов своей когорты.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentsQuery содержит параметры выборки.
type ListStudentsQuery struct {
	// Cohort - когорта куратора. Пустая когорта допустима только
	// для административной выборки (AllCohorts = true).
	Cohort shared.Cohort

	// AllCohorts - административный режим: без когортного фильтра.
	AllCohorts bool

	// Search - подстрочный поиск по имени или номеру билета.
	Search string

	// Page - номер страницы (с единицы).
	Page int

	// PageSize - размер страницы.
	PageSize int

	// SortBy - поле сортировки (по умолчанию итоговый балл).
	SortBy string

	// SortDesc - сортировка по убыванию.
	SortDesc bool
}

// Validate проверяет и нормализует параметры.
func (q *ListStudentsQuery) Validate() error {
	if !q.AllCohorts && !q.Cohort.IsValid() {
		return shared.NewDomainError("query", "ListStudents", shared.ErrValidation, "cohort is required")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = shared.DefaultPageSize
	}
	if q.PageSize > shared.MaxPageSize {
		q.PageSize = shared.MaxPageSize
	}
	if q.SortBy == "" {
		q.SortBy = "total_score"
		q.SortDesc = true
	}
	return nil
}

// StudentRowDTO - строка ростера.
type StudentRowDTO struct {
	// StudentID - внутренний ID.
	StudentID string `json:"student_id"`

	// StudentNumber - номер студенческого билета.
	StudentNumber string `json:"student_number"`

	// FullName - полное имя.
	FullName string `json:"full_name"`

	// Major - специальность.
	Major string `json:"major"`

	// Cohort - когорта.
	Cohort string `json:"cohort"`

	// AcademicComprehensive - комплексная академическая оценка (пустая = не выставлена).
	AcademicComprehensive string `json:"academic_comprehensive,omitempty"`

	// AcademicExpertise - сумма академических наград.
	AcademicExpertise string `json:"academic_expertise"`

	// ComprehensivePerformance - сумма внеучебных наград.
	ComprehensivePerformance string `json:"comprehensive_performance"`

	// Total - итоговый балл (пустой = не определён).
	Total string `json:"total,omitempty"`
}

// ListStudentsResult содержит страницу ростера.
type ListStudentsResult struct {
	// Students - строки текущей страницы.
	Students []StudentRowDTO `json:"students"`

	// TotalCount - общее количество студентов в выборке.
	TotalCount int `json:"total_count"`

	// Page - номер страницы.
	Page int `json:"page"`

	// PageSize - размер страницы.
	PageSize int `json:"page_size"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListStudentsHandler обрабатывает запросы ростера.
type ListStudentsHandler struct {
	studentRepo student.Repository
}

// NewListStudentsHandler создаёт новый обработчик.
func NewListStudentsHandler(studentRepo student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo}
}

// Handle выполняет запрос.
func (h *ListStudentsHandler) Handle(ctx context.Context, query ListStudentsQuery) (*ListStudentsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	opts := student.DefaultListOptions().
		WithOffset((query.Page - 1) * query.PageSize).
		WithLimit(query.PageSize).
		WithSort(query.SortBy, query.SortDesc).
		WithSearch(query.Search)

	var (
		students []*student.Student
		total    int
		err      error
	)

	if query.AllCohorts {
		students, err = h.studentRepo.GetAll(ctx, opts)
		if err != nil {
			return nil, err
		}
		total, err = h.studentRepo.Count(ctx)
	} else {
		students, err = h.studentRepo.GetByCohort(ctx, query.Cohort, opts)
		if err != nil {
			return nil, err
		}
		total, err = h.studentRepo.CountByCohort(ctx, query.Cohort)
	}
	if err != nil {
		return nil, err
	}

	rows := make([]StudentRowDTO, 0, len(students))
	for _, st := range students {
		rows = append(rows, studentRow(st))
	}

	return &ListStudentsResult{
		Students:    rows,
		TotalCount:  total,
		Page:        query.Page,
		PageSize:    query.PageSize,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// studentRow формирует строку ростера из доменного объекта.
func studentRow(st *student.Student) StudentRowDTO {
	row := StudentRowDTO{
		StudentID:                st.ID,
		StudentNumber:            st.StudentNumber.String(),
		FullName:                 st.FullName,
		Major:                    st.Major,
		Cohort:                   st.Cohort().String(),
		AcademicExpertise:        st.AcademicExpertise.String(),
		ComprehensivePerformance: st.ComprehensivePerformance.String(),
	}
	if st.AcademicComprehensive != nil {
		row.AcademicComprehensive = st.AcademicComprehensive.String()
	}
	if st.Total != nil {
		row.Total = st.Total.String()
	}
	return row
}
