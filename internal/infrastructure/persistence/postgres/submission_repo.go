package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/submission"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const submissionColumns = `id, student_id, category, item_name, description, attachment_ref,
	   self_rating, status, awarded_score, reject_reason, reviewer_id, reviewed_at,
	   created_at, updated_at`

// SubmissionRepository implements submission.Repository for PostgreSQL.
type SubmissionRepository struct {
	q Querier
}

// NewSubmissionRepository creates a new SubmissionRepository bound to a pool
// or transaction.
func NewSubmissionRepository(q Querier) *SubmissionRepository {
	return &SubmissionRepository{q: q}
}

// Create creates a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, sub *submission.Submission) error {
	query := `
		INSERT INTO submissions (
			id, student_id, category, item_name, description, attachment_ref,
			self_rating, status, awarded_score, reject_reason, reviewer_id, reviewed_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.Exec(ctx, query,
		sub.ID,
		sub.StudentID,
		sub.Category.String(),
		sub.ItemName,
		sub.Description,
		sub.AttachmentRef,
		sub.SelfRating.String(),
		sub.Status.String(),
		optionalScoreString(sub.AwardedScore),
		sub.RejectReason,
		nullableString(sub.ReviewerID),
		sub.ReviewedAt,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

// GetByID returns a submission by ID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`

	return scanSubmission(r.q.QueryRow(ctx, query, id))
}

// GetByIDInCohort returns a submission only if its owner belongs to the
// cohort. A foreign ID and a missing ID are indistinguishable.
func (r *SubmissionRepository) GetByIDInCohort(ctx context.Context, id string, cohort shared.Cohort) (*submission.Submission, error) {
	query := `
		SELECT ` + qualifiedSubmissionColumns + `
		FROM submissions s
		JOIN students st ON st.id = s.student_id
		WHERE s.id = $1 AND st.college = $2 AND st.grade = $3
	`

	return scanSubmission(r.q.QueryRow(ctx, query, id, cohort.College.String(), cohort.Grade.Int()))
}

// Update saves a modified submission.
func (r *SubmissionRepository) Update(ctx context.Context, sub *submission.Submission) error {
	query := `
		UPDATE submissions SET
			category = $2, item_name = $3, description = $4, attachment_ref = $5,
			self_rating = $6, status = $7, awarded_score = $8, reject_reason = $9,
			reviewer_id = $10, reviewed_at = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		sub.ID,
		sub.Category.String(),
		sub.ItemName,
		sub.Description,
		sub.AttachmentRef,
		sub.SelfRating.String(),
		sub.Status.String(),
		optionalScoreString(sub.AwardedScore),
		sub.RejectReason,
		nullableString(sub.ReviewerID),
		sub.ReviewedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrSubmissionNotFound
	}

	return nil
}

// Delete deletes a submission.
func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrSubmissionNotFound
	}

	return nil
}

// GetByStudent returns a student's submissions, newest first.
func (r *SubmissionRepository) GetByStudent(ctx context.Context, studentID string, opts submission.ListOptions) ([]*submission.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE student_id = $1`
	args := []interface{}{studentID}

	if opts.Status != "" {
		args = append(args, opts.Status.String())
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if opts.Category != "" {
		args = append(args, opts.Category.String())
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", listLimit(opts.Limit), opts.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query student submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// GetByCohort returns the cohort's submissions, newest first.
func (r *SubmissionRepository) GetByCohort(ctx context.Context, cohort shared.Cohort, opts submission.ListOptions) ([]*submission.Submission, error) {
	query := `
		SELECT ` + qualifiedSubmissionColumns + `
		FROM submissions s
		JOIN students st ON st.id = s.student_id
		WHERE st.college = $1 AND st.grade = $2
	`
	args := []interface{}{cohort.College.String(), cohort.Grade.Int()}

	if opts.Status != "" {
		args = append(args, opts.Status.String())
		query += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	if opts.Category != "" {
		args = append(args, opts.Category.String())
		query += fmt.Sprintf(" AND s.category = $%d", len(args))
	}

	query += " ORDER BY s.created_at DESC"
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", listLimit(opts.Limit), opts.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// CountByCohort returns the number of cohort submissions in a status.
func (r *SubmissionRepository) CountByCohort(ctx context.Context, cohort shared.Cohort, status submission.Status) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM submissions s
		JOIN students st ON st.id = s.student_id
		WHERE st.college = $1 AND st.grade = $2 AND s.status = $3
	`, cohort.College.String(), cohort.Grade.Int(), status.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cohort submissions: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const qualifiedSubmissionColumns = `s.id, s.student_id, s.category, s.item_name, s.description, s.attachment_ref,
	   s.self_rating, s.status, s.awarded_score, s.reject_reason, s.reviewer_id, s.reviewed_at,
	   s.created_at, s.updated_at`

func scanSubmission(row pgx.Row) (*submission.Submission, error) {
	var (
		sub        submission.Submission
		category   string
		selfRating string
		status     string
		awarded    *string
		reviewerID *string
	)

	err := row.Scan(
		&sub.ID, &sub.StudentID, &category, &sub.ItemName, &sub.Description, &sub.AttachmentRef,
		&selfRating, &status, &awarded, &sub.RejectReason, &reviewerID, &sub.ReviewedAt,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	sub.Category = submission.Category(category)
	sub.Status = submission.Status(status)
	if reviewerID != nil {
		sub.ReviewerID = *reviewerID
	}

	if sub.SelfRating, err = parseScoreColumn(selfRating); err != nil {
		return nil, err
	}
	if sub.AwardedScore, err = parseOptionalScore(awarded); err != nil {
		return nil, err
	}

	return &sub, nil
}

func scanSubmissions(rows pgx.Rows) ([]*submission.Submission, error) {
	var subs []*submission.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// nullableString maps the empty string to NULL for UUID columns.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
