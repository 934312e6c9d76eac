package rulebook

import (
	"context"

	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// Repository определяет операции с хранилищем правил.
type Repository interface {
	// Create создаёт новое правило.
	Create(ctx context.Context, r *Rule) error

	// GetByID возвращает правило по ID.
	// Возвращает shared.ErrRuleNotFound, если правило не найдено.
	GetByID(ctx context.Context, id string) (*Rule, error)

	// Update сохраняет изменённое правило.
	Update(ctx context.Context, r *Rule) error

	// Delete удаляет правило.
	// Возвращает shared.ErrRuleNotFound, если правило не найдено.
	Delete(ctx context.Context, id string) error

	// GetAll возвращает все правила, сгруппированные по типу:
	// стабильный порядок типов, внутри типа - по названию.
	GetAll(ctx context.Context) ([]*Rule, error)

	// GetByType возвращает правила одного типа, по названию.
	GetByType(ctx context.Context, ruleType submission.Category) ([]*Rule, error)
}
