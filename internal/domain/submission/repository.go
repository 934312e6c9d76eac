package submission

import (
	"context"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализация находится в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции с хранилищем заявок.
type Repository interface {
	// Create создаёт новую заявку.
	Create(ctx context.Context, sub *Submission) error

	// GetByID возвращает заявку по ID.
	// Возвращает shared.ErrSubmissionNotFound, если заявка не найдена.
	GetByID(ctx context.Context, id string) (*Submission, error)

	// GetByIDInCohort возвращает заявку только если её владелец
	// принадлежит когорте. Чужой и несуществующий ID неразличимы:
	// shared.ErrSubmissionNotFound в обоих случаях.
	GetByIDInCohort(ctx context.Context, id string, cohort shared.Cohort) (*Submission, error)

	// Update сохраняет изменённую заявку.
	// Возвращает shared.ErrSubmissionNotFound, если заявка не найдена.
	Update(ctx context.Context, sub *Submission) error

	// Delete удаляет заявку.
	// Возвращает shared.ErrSubmissionNotFound, если заявка не найдена.
	Delete(ctx context.Context, id string) error

	// GetByStudent возвращает заявки студента, новые первыми.
	GetByStudent(ctx context.Context, studentID string, opts ListOptions) ([]*Submission, error)

	// GetByCohort возвращает заявки студентов когорты, новые первыми.
	GetByCohort(ctx context.Context, cohort shared.Cohort, opts ListOptions) ([]*Submission, error)

	// CountByCohort возвращает количество заявок когорты в статусе.
	CountByCohort(ctx context.Context, cohort shared.Cohort, status Status) (int, error)
}

// ListOptions содержит параметры выборки заявок.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное количество записей.
	Limit int

	// Status - фильтр по статусу (пустое значение - без фильтра).
	Status Status

	// Category - фильтр по категории (пустое значение - без фильтра).
	Category Category
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithStatus устанавливает фильтр по статусу.
func (o ListOptions) WithStatus(s Status) ListOptions {
	o.Status = s
	return o
}

// WithCategory устанавливает фильтр по категории.
func (o ListOptions) WithCategory(c Category) ListOptions {
	o.Category = c
	return o
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}
