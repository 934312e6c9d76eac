package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradpath/merit-portal/internal/domain/counselor"
	"github.com/gradpath/merit-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNSELOR REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const counselorColumns = `id, employee_id, full_name, college, grade, created_at, updated_at`

// CounselorRepository implements counselor.Repository for PostgreSQL.
type CounselorRepository struct {
	q Querier
}

// NewCounselorRepository creates a new CounselorRepository bound to a pool or
// transaction.
func NewCounselorRepository(q Querier) *CounselorRepository {
	return &CounselorRepository{q: q}
}

// Create creates a new counselor.
func (r *CounselorRepository) Create(ctx context.Context, c *counselor.Counselor) error {
	query := `
		INSERT INTO counselors (id, employee_id, full_name, college, grade, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		c.ID,
		c.EmployeeID.String(),
		c.FullName,
		c.College.String(),
		c.Grade.Int(),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrCounselorAlreadyExists
		}
		return fmt.Errorf("failed to create counselor: %w", err)
	}

	return nil
}

// GetByID returns a counselor by internal ID.
func (r *CounselorRepository) GetByID(ctx context.Context, id string) (*counselor.Counselor, error) {
	query := `SELECT ` + counselorColumns + ` FROM counselors WHERE id = $1`

	return scanCounselor(r.q.QueryRow(ctx, query, id))
}

// GetByEmployeeID returns a counselor by employee ID.
func (r *CounselorRepository) GetByEmployeeID(ctx context.Context, employeeID shared.EmployeeID) (*counselor.Counselor, error) {
	query := `SELECT ` + counselorColumns + ` FROM counselors WHERE employee_id = $1`

	return scanCounselor(r.q.QueryRow(ctx, query, employeeID.String()))
}

// Update updates a counselor.
func (r *CounselorRepository) Update(ctx context.Context, c *counselor.Counselor) error {
	query := `
		UPDATE counselors SET
			employee_id = $2, full_name = $3, college = $4, grade = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		c.ID,
		c.EmployeeID.String(),
		c.FullName,
		c.College.String(),
		c.Grade.Int(),
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrCounselorAlreadyExists
		}
		return fmt.Errorf("failed to update counselor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrCounselorNotFound
	}

	return nil
}

// Delete deletes a counselor.
func (r *CounselorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM counselors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete counselor: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrCounselorNotFound
	}

	return nil
}

// GetAll returns all counselors (administrative view).
func (r *CounselorRepository) GetAll(ctx context.Context, opts counselor.ListOptions) ([]*counselor.Counselor, error) {
	query := `SELECT ` + counselorColumns + ` FROM counselors`

	var args []interface{}
	var clauses []string
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE $%d OR employee_id ILIKE $%d)", n, n))
	}
	if opts.College != "" {
		args = append(args, opts.College.String())
		clauses = append(clauses, fmt.Sprintf("college = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	query += " ORDER BY employee_id ASC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", listLimit(opts.Limit), opts.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query counselors: %w", err)
	}
	defer rows.Close()

	var counselors []*counselor.Counselor
	for rows.Next() {
		c, err := scanCounselor(rows)
		if err != nil {
			return nil, err
		}
		counselors = append(counselors, c)
	}

	return counselors, rows.Err()
}

// Count returns the total number of counselors.
func (r *CounselorRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM counselors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count counselors: %w", err)
	}
	return count, nil
}

// ExistsByEmployeeID checks existence by employee ID.
func (r *CounselorRepository) ExistsByEmployeeID(ctx context.Context, employeeID shared.EmployeeID) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM counselors WHERE employee_id = $1)`,
		employeeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employee id: %w", err)
	}
	return exists, nil
}

func scanCounselor(row pgx.Row) (*counselor.Counselor, error) {
	var (
		c        counselor.Counselor
		employee string
		college  string
		grade    int
	)

	err := row.Scan(&c.ID, &employee, &c.FullName, &college, &grade, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrCounselorNotFound
		}
		return nil, fmt.Errorf("failed to scan counselor: %w", err)
	}

	c.EmployeeID = shared.EmployeeID(employee)
	c.College = shared.College(college)
	c.Grade = shared.Grade(grade)

	return &c, nil
}
