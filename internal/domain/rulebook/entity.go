// Package rulebook содержит каталог правил начисления баллов.
// Правила говорят студентам, сколько баллов даёт то или иное достижение;
// кураторы ведут каталог, студенты читают его.
package rulebook

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// Rule - одно правило каталога.
type Rule struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// RuleType - категория заявок, к которой относится правило.
	RuleType submission.Category

	// ItemName - название достижения.
	ItemName string

	// Description - описание условий начисления.
	Description string

	// Score - балл за достижение, строго больше нуля.
	Score shared.Score

	// Remark - примечание (необязательное).
	Remark string

	// AuthorID - куратор, создавший правило.
	AuthorID string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

var (
	// ErrInvalidItemName - невалидное название.
	ErrInvalidItemName = errors.New("invalid item name: must be 1-200 chars")
)

// NewRuleParams содержит параметры для создания правила.
type NewRuleParams struct {
	ID          string
	RuleType    submission.Category
	ItemName    string
	Description string
	Score       shared.Score
	Remark      string
	AuthorID    string
}

// NewRule создаёт новое правило с валидацией всех полей.
func NewRule(params NewRuleParams) (*Rule, error) {
	if params.ID == "" {
		return nil, errors.New("rule id is required")
	}

	if !params.RuleType.IsValid() {
		return nil, shared.ErrInvalidCategory
	}

	itemName := strings.TrimSpace(params.ItemName)
	if len(itemName) == 0 || len(itemName) > 200 {
		return nil, ErrInvalidItemName
	}

	if !params.Score.IsPositive() {
		return nil, shared.ErrInvalidRuleScore
	}

	now := time.Now().UTC()

	return &Rule{
		ID:          params.ID,
		RuleType:    params.RuleType,
		ItemName:    itemName,
		Description: strings.TrimSpace(params.Description),
		Score:       params.Score,
		Remark:      strings.TrimSpace(params.Remark),
		AuthorID:    params.AuthorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Change обновляет редактируемые поля правила.
func (r *Rule) Change(itemName, description string, score shared.Score, remark string) error {
	itemName = strings.TrimSpace(itemName)
	if len(itemName) == 0 || len(itemName) > 200 {
		return ErrInvalidItemName
	}

	if !score.IsPositive() {
		return shared.ErrInvalidRuleScore
	}

	r.ItemName = itemName
	r.Description = strings.TrimSpace(description)
	r.Score = score
	r.Remark = strings.TrimSpace(remark)
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление для логирования.
func (r *Rule) String() string {
	return fmt.Sprintf("Rule{ID: %s, Type: %s, Item: %s, Score: %s}", r.ID, r.RuleType, r.ItemName, r.Score)
}
