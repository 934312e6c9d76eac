package student

import (
	"context"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY
// Контракт хранилища студентов. Реализация живёт в
// infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// Repository описывает операции над профилями студентов и их баллами.
type Repository interface {
	// Create сохраняет нового студента.
	// Дубликат номера билета или email даёт shared.ErrStudentAlreadyExists.
	Create(ctx context.Context, st *Student) error

	// GetByID ищет студента по внутреннему ID.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetByIDInCohort ищет студента в пределах когорты. Чужой и
	// несуществующий ID неразличимы: оба дают shared.ErrStudentNotFound.
	GetByIDInCohort(ctx context.Context, id string, cohort shared.Cohort) (*Student, error)

	// GetByNumber ищет студента по номеру студенческого билета.
	GetByNumber(ctx context.Context, number shared.StudentNumber) (*Student, error)

	// Update перезаписывает профиль вместе с записью баллов.
	Update(ctx context.Context, st *Student) error

	// Delete удаляет студента. Несуществующий ID даёт
	// shared.ErrStudentNotFound.
	Delete(ctx context.Context, id string) error

	// GetAll отдаёт страницу студентов без фильтра по когорте
	// (админский обзор).
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// GetByCohort отдаёт страницу студентов одной когорты.
	GetByCohort(ctx context.Context, cohort shared.Cohort, opts ListOptions) ([]*Student, error)

	// ListIDs отдаёт ID всех студентов для широковещательных уведомлений.
	ListIDs(ctx context.Context) ([]string, error)

	// Count считает всех студентов.
	Count(ctx context.Context) (int, error)

	// CountByCohort считает студентов одной когорты.
	CountByCohort(ctx context.Context, cohort shared.Cohort) (int, error)

	// CountGreaterTotal считает студентов когорты со строго большим
	// итоговым баллом. Неопределённые итоги не участвуют; на этом
	// строится вычисление места в рейтинге.
	CountGreaterTotal(ctx context.Context, cohort shared.Cohort, total shared.Score) (int, error)

	// ExistsByNumber - быстрая проверка занятости номера билета.
	ExistsByNumber(ctx context.Context, number shared.StudentNumber) (bool, error)

	// ExistsByEmail - быстрая проверка занятости email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ListOptions задаёт пагинацию, сортировку и фильтры списочных запросов.
type ListOptions struct {
	Offset int
	Limit  int

	SortBy   string
	SortDesc bool

	// Search - подстрочный поиск по имени или номеру билета.
	Search string

	// College и Grade фильтруют список; нулевые значения - без фильтра.
	College shared.College
	Grade   shared.Grade
}

// DefaultListOptions: сортировка по итоговому баллу по убыванию,
// студенты без итога уходят в конец.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:    50,
		SortBy:   "total_score",
		SortDesc: true,
	}
}

// WithOffset возвращает копию с заданным смещением.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit возвращает копию с заданным лимитом.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithSort возвращает копию с заданной сортировкой.
func (o ListOptions) WithSort(field string, desc bool) ListOptions {
	o.SortBy = field
	o.SortDesc = desc
	return o
}

// WithSearch возвращает копию с поисковой подстрокой.
func (o ListOptions) WithSearch(q string) ListOptions {
	o.Search = q
	return o
}
