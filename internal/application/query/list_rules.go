package query

import (
	"context"
	"time"

	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST RULES QUERY
// Каталог правил начисления, сгруппированный по категориям.
// Каталог публичный: его видят и студенты, и кураторы.
// ══════════════════════════════════════════════════════════════════════════════

// RuleDTO - правило начисления для выдачи наружу.
type RuleDTO struct {
	// RuleID - ID правила.
	RuleID string `json:"rule_id"`

	// RuleType - категория достижения.
	RuleType string `json:"rule_type"`

	// ItemName - название достижения.
	ItemName string `json:"item_name"`

	// Description - описание критериев.
	Description string `json:"description,omitempty"`

	// Score - начисляемый балл.
	Score string `json:"score"`

	// Remark - примечание.
	Remark string `json:"remark,omitempty"`

	// CreatedAt - время создания.
	CreatedAt time.Time `json:"created_at"`
}

// RuleGroupDTO - группа правил одной категории.
type RuleGroupDTO struct {
	// RuleType - категория.
	RuleType string `json:"rule_type"`

	// Group - scoring-группа категории (academic / comprehensive).
	Group string `json:"group"`

	// Rules - правила категории.
	Rules []RuleDTO `json:"rules"`
}

// ListRulesResult содержит каталог.
type ListRulesResult struct {
	// Groups - группы правил в порядке категорий.
	Groups []RuleGroupDTO `json:"groups"`

	// TotalCount - общее количество правил.
	TotalCount int `json:"total_count"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// ListRulesHandler обрабатывает запросы каталога.
type ListRulesHandler struct {
	ruleRepo rulebook.Repository
}

// NewListRulesHandler создаёт новый обработчик.
func NewListRulesHandler(ruleRepo rulebook.Repository) *ListRulesHandler {
	return &ListRulesHandler{ruleRepo: ruleRepo}
}

// Handle выполняет запрос. Пустые категории опускаются.
func (h *ListRulesHandler) Handle(ctx context.Context) (*ListRulesResult, error) {
	rules, err := h.ruleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byType := make(map[submission.Category][]RuleDTO)
	for _, rule := range rules {
		byType[rule.RuleType] = append(byType[rule.RuleType], ruleDTO(rule))
	}

	result := &ListRulesResult{
		TotalCount:  len(rules),
		GeneratedAt: time.Now().UTC(),
	}

	for _, category := range submission.AllCategories() {
		dtos, ok := byType[category]
		if !ok {
			continue
		}
		group, err := category.Group()
		if err != nil {
			continue
		}
		result.Groups = append(result.Groups, RuleGroupDTO{
			RuleType: category.String(),
			Group:    string(group),
			Rules:    dtos,
		})
	}

	return result, nil
}

// ruleDTO формирует DTO из доменного объекта.
func ruleDTO(rule *rulebook.Rule) RuleDTO {
	return RuleDTO{
		RuleID:      rule.ID,
		RuleType:    rule.RuleType.String(),
		ItemName:    rule.ItemName,
		Description: rule.Description,
		Score:       rule.Score.String(),
		Remark:      rule.Remark,
		CreatedAt:   rule.CreatedAt,
	}
}
