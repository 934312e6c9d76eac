// Package counselor содержит доменную модель куратора.
// Куратор закреплён за когортой (колледж + год поступления) и проверяет
// заявки только своих студентов.
package counselor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// Counselor - куратор когорты.
type Counselor struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// EmployeeID - табельный номер, он же логин.
	EmployeeID shared.EmployeeID

	// FullName - полное имя куратора.
	FullName string

	// College - колледж, за которым закреплён куратор.
	College shared.College

	// Grade - год поступления курируемой когорты.
	Grade shared.Grade

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

var (
	// ErrInvalidFullName - невалидное имя.
	ErrInvalidFullName = errors.New("invalid full name: must be 1-100 chars")
)

// NewCounselorParams содержит параметры для создания куратора.
type NewCounselorParams struct {
	ID         string
	EmployeeID shared.EmployeeID
	FullName   string
	College    shared.College
	Grade      shared.Grade
}

// NewCounselor создаёт нового куратора с валидацией всех полей.
func NewCounselor(params NewCounselorParams) (*Counselor, error) {
	if params.ID == "" {
		return nil, errors.New("counselor id is required")
	}

	if !params.EmployeeID.IsValid() {
		return nil, fmt.Errorf("invalid employee id: %q", params.EmployeeID)
	}

	fullName := strings.TrimSpace(params.FullName)
	if len(fullName) == 0 || len(fullName) > 100 {
		return nil, ErrInvalidFullName
	}

	if !params.College.IsValid() {
		return nil, fmt.Errorf("invalid college: %q", params.College)
	}

	if !params.Grade.IsValid() {
		return nil, fmt.Errorf("invalid grade: %d", params.Grade)
	}

	now := time.Now().UTC()

	return &Counselor{
		ID:         params.ID,
		EmployeeID: params.EmployeeID,
		FullName:   fullName,
		College:    params.College,
		Grade:      params.Grade,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Cohort возвращает когорту куратора - границу его видимости.
func (c *Counselor) Cohort() shared.Cohort {
	return shared.Cohort{College: c.College, Grade: c.Grade}
}

// UpdateProfile обновляет редактируемые поля.
func (c *Counselor) UpdateProfile(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if len(fullName) == 0 || len(fullName) > 100 {
		return ErrInvalidFullName
	}

	c.FullName = fullName
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление для логирования.
func (c *Counselor) String() string {
	return fmt.Sprintf("Counselor{ID: %s, Employee: %s, Cohort: %s}", c.ID, c.EmployeeID, c.Cohort())
}
