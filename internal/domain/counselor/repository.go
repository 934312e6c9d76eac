package counselor

import (
	"context"

	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// Repository определяет операции с хранилищем кураторов.
type Repository interface {
	// Create создаёт нового куратора.
	// Возвращает shared.ErrCounselorAlreadyExists при дубликате табельного номера.
	Create(ctx context.Context, c *Counselor) error

	// GetByID возвращает куратора по внутреннему ID.
	// Возвращает shared.ErrCounselorNotFound, если куратор не найден.
	GetByID(ctx context.Context, id string) (*Counselor, error)

	// GetByEmployeeID возвращает куратора по табельному номеру.
	// Возвращает shared.ErrCounselorNotFound, если куратор не найден.
	GetByEmployeeID(ctx context.Context, employeeID shared.EmployeeID) (*Counselor, error)

	// Update обновляет данные куратора.
	Update(ctx context.Context, c *Counselor) error

	// Delete удаляет куратора.
	Delete(ctx context.Context, id string) error

	// GetAll возвращает всех кураторов (для администратора).
	GetAll(ctx context.Context, opts ListOptions) ([]*Counselor, error)

	// Count возвращает общее количество кураторов.
	Count(ctx context.Context) (int, error)

	// ExistsByEmployeeID проверяет существование по табельному номеру.
	ExistsByEmployeeID(ctx context.Context, employeeID shared.EmployeeID) (bool, error)
}

// ListOptions содержит параметры выборки кураторов.
type ListOptions struct {
	Offset  int
	Limit   int
	Search  string         // подстрочный поиск по имени или табельному номеру
	College shared.College // фильтр по колледжу (пустое значение - без фильтра)
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{Offset: 0, Limit: 50}
}
