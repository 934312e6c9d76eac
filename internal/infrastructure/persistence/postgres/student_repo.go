// Package postgres implements the PostgreSQL persistence layer of the merit
// portal.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/gradpath/merit-portal/internal/domain/shared"
	"github.com/gradpath/merit-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const studentColumns = `id, student_number, full_name, college, grade, major, phone, email,
	   academic_comprehensive, academic_expertise, comprehensive_performance, total_score,
	   created_at, updated_at`

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	q Querier
}

// NewStudentRepository creates a new StudentRepository bound to a pool or
// transaction.
func NewStudentRepository(q Querier) *StudentRepository {
	return &StudentRepository{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, student_number, full_name, college, grade, major, phone, email,
			academic_comprehensive, academic_expertise, comprehensive_performance, total_score,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.Exec(ctx, query,
		s.ID,
		s.StudentNumber.String(),
		s.FullName,
		s.College.String(),
		s.Grade.Int(),
		s.Major,
		s.Phone,
		s.Email,
		optionalScoreString(s.AcademicComprehensive),
		s.AcademicExpertise.String(),
		s.ComprehensivePerformance.String(),
		optionalScoreString(s.Total),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			if violatedConstraint(err) == "students_email_key" {
				return shared.ErrDuplicateStudentEmail
			}
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	return scanStudent(r.q.QueryRow(ctx, query, id))
}

// GetByIDInCohort returns a student only if they belong to the cohort.
// A foreign ID and a missing ID are indistinguishable.
func (r *StudentRepository) GetByIDInCohort(ctx context.Context, id string, cohort shared.Cohort) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 AND college = $2 AND grade = $3`

	return scanStudent(r.q.QueryRow(ctx, query, id, cohort.College.String(), cohort.Grade.Int()))
}

// GetByNumber returns a student by student number.
func (r *StudentRepository) GetByNumber(ctx context.Context, number shared.StudentNumber) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_number = $1`

	return scanStudent(r.q.QueryRow(ctx, query, number.String()))
}

// Update updates a student including the score record.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			student_number = $2, full_name = $3, college = $4, grade = $5,
			major = $6, phone = $7, email = $8,
			academic_comprehensive = $9, academic_expertise = $10,
			comprehensive_performance = $11, total_score = $12,
			updated_at = $13
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		s.ID,
		s.StudentNumber.String(),
		s.FullName,
		s.College.String(),
		s.Grade.Int(),
		s.Major,
		s.Phone,
		s.Email,
		optionalScoreString(s.AcademicComprehensive),
		s.AcademicExpertise.String(),
		s.ComprehensivePerformance.String(),
		optionalScoreString(s.Total),
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			if violatedConstraint(err) == "students_email_key" {
				return shared.ErrDuplicateStudentEmail
			}
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to update student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Delete deletes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all students with pagination (administrative view).
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`

	where, args := studentFilters(opts, nil)
	if where != "" {
		query += " WHERE " + where
	}
	query += studentOrder(opts)
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", listLimit(opts.Limit), opts.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetByCohort returns students of the given cohort.
func (r *StudentRepository) GetByCohort(ctx context.Context, cohort shared.Cohort, opts student.ListOptions) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`

	args := []interface{}{cohort.College.String(), cohort.Grade.Int()}
	where, args := studentFilters(opts, args)
	query += " WHERE college = $1 AND grade = $2"
	if where != "" {
		query += " AND " + where
	}
	query += studentOrder(opts)
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", listLimit(opts.Limit), opts.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cohort students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// ListIDs returns the IDs of every student (broadcast notifications).
func (r *StudentRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM students`)
	if err != nil {
		return nil, fmt.Errorf("failed to list student ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan student id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// CountByCohort returns the number of students in a cohort.
func (r *StudentRepository) CountByCohort(ctx context.Context, cohort shared.Cohort) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE college = $1 AND grade = $2`,
		cohort.College.String(), cohort.Grade.Int(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cohort students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Ranking
// ─────────────────────────────────────────────────────────────────────────────

// CountGreaterTotal returns how many cohort students have a strictly greater
// defined total.
func (r *StudentRepository) CountGreaterTotal(ctx context.Context, cohort shared.Cohort, total shared.Score) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM students
		 WHERE college = $1 AND grade = $2 AND total_score IS NOT NULL AND total_score > $3`,
		cohort.College.String(), cohort.Grade.Int(), total.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count greater totals: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence Checks
// ─────────────────────────────────────────────────────────────────────────────

// ExistsByNumber checks existence by student number.
func (r *StudentRepository) ExistsByNumber(ctx context.Context, number shared.StudentNumber) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE student_number = $1)`,
		number.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student number: %w", err)
	}
	return exists, nil
}

// ExistsByEmail checks existence by email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student email: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanStudent reads one student row. Score columns travel as strings and are
// rehydrated through decimal parsing; subtotals are open-ended and must not
// go through the range-checked score constructor.
func scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s       student.Student
		number  string
		college string
		grade   int
		ac      *string
		ae      string
		cp      string
		total   *string
	)

	err := row.Scan(
		&s.ID, &number, &s.FullName, &college, &grade, &s.Major, &s.Phone, &s.Email,
		&ac, &ae, &cp, &total,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.StudentNumber = shared.StudentNumber(number)
	s.College = shared.College(college)
	s.Grade = shared.Grade(grade)

	if s.AcademicComprehensive, err = parseOptionalScore(ac); err != nil {
		return nil, err
	}
	if s.AcademicExpertise, err = parseScoreColumn(ae); err != nil {
		return nil, err
	}
	if s.ComprehensivePerformance, err = parseScoreColumn(cp); err != nil {
		return nil, err
	}
	if s.Total, err = parseOptionalScore(total); err != nil {
		return nil, err
	}

	return &s, nil
}

func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	var students []*student.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// studentFilters builds the optional WHERE clauses shared by GetAll and
// GetByCohort. Placeholders continue from len(args).
func studentFilters(opts student.ListOptions, args []interface{}) (string, []interface{}) {
	var clauses []string

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE $%d OR student_number ILIKE $%d)", n, n))
	}
	if opts.College != "" {
		args = append(args, opts.College.String())
		clauses = append(clauses, fmt.Sprintf("college = $%d", len(args)))
	}
	if opts.Grade != 0 {
		args = append(args, opts.Grade.Int())
		clauses = append(clauses, fmt.Sprintf("grade = $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// studentOrder maps the sort field to a whitelisted column. Undefined totals
// always sort last regardless of direction.
func studentOrder(opts student.ListOptions) string {
	column := "total_score"
	switch opts.SortBy {
	case "", "total_score":
		column = "total_score"
	case "full_name":
		column = "full_name"
	case "student_number":
		column = "student_number"
	case "academic_expertise":
		column = "academic_expertise"
	case "comprehensive_performance":
		column = "comprehensive_performance"
	case "created_at":
		column = "created_at"
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	if column == "total_score" {
		return fmt.Sprintf(" ORDER BY total_score %s NULLS LAST, student_number ASC", direction)
	}
	return fmt.Sprintf(" ORDER BY %s %s, student_number ASC", column, direction)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

// optionalScoreString converts a nullable score to its wire form.
func optionalScoreString(s *shared.Score) *string {
	if s == nil {
		return nil
	}
	v := s.String()
	return &v
}

func parseScoreColumn(value string) (shared.Score, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return shared.Score{}, fmt.Errorf("failed to parse score column %q: %w", value, err)
	}
	return shared.ScoreFromDecimal(d), nil
}

func parseOptionalScore(value *string) (*shared.Score, error) {
	if value == nil {
		return nil, nil
	}
	s, err := parseScoreColumn(*value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// violatedConstraint returns the constraint name of a pg error, if any.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
