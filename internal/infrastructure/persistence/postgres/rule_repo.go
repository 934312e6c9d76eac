package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradpath/merit-portal/internal/domain/rulebook"
	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// RULEBOOK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const ruleColumns = `id, rule_type, item_name, description, score, remark, author_id, created_at, updated_at`

// RuleRepository implements rulebook.Repository for PostgreSQL.
type RuleRepository struct {
	q Querier
}

// NewRuleRepository creates a new RuleRepository bound to a pool or
// transaction.
func NewRuleRepository(q Querier) *RuleRepository {
	return &RuleRepository{q: q}
}

// Create creates a new rule.
func (r *RuleRepository) Create(ctx context.Context, rule *rulebook.Rule) error {
	query := `
		INSERT INTO rules (id, rule_type, item_name, description, score, remark, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		rule.ID,
		rule.RuleType.String(),
		rule.ItemName,
		rule.Description,
		rule.Score.String(),
		rule.Remark,
		rule.AuthorID,
		rule.CreatedAt,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// GetByID returns a rule by ID.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*rulebook.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE id = $1`

	return scanRule(r.q.QueryRow(ctx, query, id))
}

// Update saves a modified rule.
func (r *RuleRepository) Update(ctx context.Context, rule *rulebook.Rule) error {
	query := `
		UPDATE rules SET
			rule_type = $2, item_name = $3, description = $4, score = $5,
			remark = $6, author_id = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		rule.ID,
		rule.RuleType.String(),
		rule.ItemName,
		rule.Description,
		rule.Score.String(),
		rule.Remark,
		rule.AuthorID,
		rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrRuleNotFound
	}

	return nil
}

// Delete deletes a rule.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrRuleNotFound
	}

	return nil
}

// GetAll returns every rule: stable type order, item name within a type.
func (r *RuleRepository) GetAll(ctx context.Context) ([]*rulebook.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules ORDER BY rule_type ASC, item_name ASC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

// GetByType returns the rules of one type ordered by item name.
func (r *RuleRepository) GetByType(ctx context.Context, ruleType submission.Category) ([]*rulebook.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE rule_type = $1 ORDER BY item_name ASC`

	rows, err := r.q.Query(ctx, query, ruleType.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query rules by type: %w", err)
	}
	defer rows.Close()

	return scanRules(rows)
}

func scanRule(row pgx.Row) (*rulebook.Rule, error) {
	var (
		rule     rulebook.Rule
		ruleType string
		score    string
	)

	err := row.Scan(
		&rule.ID, &ruleType, &rule.ItemName, &rule.Description, &score,
		&rule.Remark, &rule.AuthorID, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}

	rule.RuleType = submission.Category(ruleType)
	if rule.Score, err = parseScoreColumn(score); err != nil {
		return nil, err
	}

	return &rule, nil
}

func scanRules(rows pgx.Rows) ([]*rulebook.Rule, error) {
	var rules []*rulebook.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
