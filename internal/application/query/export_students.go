package query

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT STUDENTS QUERY
// Выгрузка ростера когорты в CSV для отчётности куратора.
// ══════════════════════════════════════════════════════════════════════════════

// ExportStudentsQuery содержит параметры выгрузки.
type ExportStudentsQuery struct {
	// Cohort - когорта куратора.
	Cohort shared.Cohort
}

// ExportStudentsResult содержит готовый CSV.
type ExportStudentsResult struct {
	// FileName - предлагаемое имя файла.
	FileName string

	// ContentType - MIME-тип выгрузки.
	ContentType string

	// Data - содержимое файла.
	Data []byte

	// RowCount - количество строк данных (без заголовка).
	RowCount int
}

// ExportStudentsHandler обрабатывает выгрузку ростера.
type ExportStudentsHandler struct {
	studentRepo student.Repository
}

// NewExportStudentsHandler создаёт новый обработчик.
func NewExportStudentsHandler(studentRepo student.Repository) *ExportStudentsHandler {
	return &ExportStudentsHandler{studentRepo: studentRepo}
}

// Handle выполняет выгрузку. Сортировка - по итоговому баллу,
// студенты без итога в конце.
func (h *ExportStudentsHandler) Handle(ctx context.Context, query ExportStudentsQuery) (*ExportStudentsResult, error) {
	if !query.Cohort.IsValid() {
		return nil, shared.NewDomainError("query", "ExportStudents", shared.ErrValidation, "cohort is required")
	}

	total, err := h.studentRepo.CountByCohort(ctx, query.Cohort)
	if err != nil {
		return nil, err
	}

	opts := student.DefaultListOptions().WithLimit(total)
	students, err := h.studentRepo.GetByCohort(ctx, query.Cohort, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"student_number", "full_name", "major",
		"academic_comprehensive", "academic_expertise",
		"comprehensive_performance", "total",
	}
	if err := w.Write(header); err != nil {
		return nil, shared.WrapError("query", "ExportStudents", shared.ErrStorage, "csv write failed", err)
	}

	for _, st := range students {
		row := []string{
			st.StudentNumber.String(),
			st.FullName,
			st.Major,
			"",
			st.AcademicExpertise.String(),
			st.ComprehensivePerformance.String(),
			"",
		}
		if st.AcademicComprehensive != nil {
			row[3] = st.AcademicComprehensive.String()
		}
		if st.Total != nil {
			row[6] = st.Total.String()
		}
		if err := w.Write(row); err != nil {
			return nil, shared.WrapError("query", "ExportStudents", shared.ErrStorage, "csv write failed", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, shared.WrapError("query", "ExportStudents", shared.ErrStorage, "csv write failed", err)
	}

	return &ExportStudentsResult{
		FileName:    fmt.Sprintf("roster-%s-%s.csv", query.Cohort.String(), time.Now().UTC().Format("2006-01-02")),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
		RowCount:    len(students),
	}, nil
}
