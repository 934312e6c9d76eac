package shared

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// ID represents an entity identifier (UUID format).
type ID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the ID is a valid UUID.
func (i ID) IsValid() bool {
	return uuidRegex.MatchString(string(i))
}

// String returns the string representation.
func (i ID) String() string {
	return string(i)
}

// IsEmpty checks if the ID is empty.
func (i ID) IsEmpty() bool {
	return i == ""
}

// NewID creates a new ID with validation.
func NewID(id string) (ID, error) {
	v := ID(strings.ToLower(strings.TrimSpace(id)))
	if !v.IsValid() {
		return "", NewDomainError("shared", "NewID", ErrInvalidID, "invalid ID format")
	}
	return v, nil
}

// StudentNumber represents a campus-issued student number.
// Student numbers are all-digit strings between 10 and 20 characters
// and double as the student's login username.
type StudentNumber string

var studentNumberRegex = regexp.MustCompile(`^\d{10,20}$`)

// IsValid checks if the student number format is valid.
func (n StudentNumber) IsValid() bool {
	return studentNumberRegex.MatchString(string(n))
}

// String returns the string representation.
func (n StudentNumber) String() string {
	return string(n)
}

// NewStudentNumber creates a new StudentNumber with validation.
func NewStudentNumber(value string) (StudentNumber, error) {
	n := StudentNumber(strings.TrimSpace(value))
	if !n.IsValid() {
		return "", ErrInvalidStudentNumber
	}
	return n, nil
}

// EmployeeID represents a counselor's employee identifier.
// It doubles as the counselor's login username.
type EmployeeID string

var employeeIDRegex = regexp.MustCompile(`^[A-Za-z0-9]{4,20}$`)

// IsValid checks if the employee ID format is valid.
func (e EmployeeID) IsValid() bool {
	return employeeIDRegex.MatchString(string(e))
}

// String returns the string representation.
func (e EmployeeID) String() string {
	return string(e)
}

// NewEmployeeID creates a new EmployeeID with validation.
func NewEmployeeID(value string) (EmployeeID, error) {
	e := EmployeeID(strings.TrimSpace(value))
	if !e.IsValid() {
		return "", NewDomainError("shared", "NewEmployeeID", ErrInvalidFormat, "employee ID must be 4-20 alphanumeric characters")
	}
	return e, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Cohort Value Object
// ═══════════════════════════════════════════════════════════════════════════

// College identifies a campus college.
type College string

const (
	CollegeInformation College = "info"
	CollegeOther       College = "other"
)

// IsValid checks if the college is one of the known values.
func (c College) IsValid() bool {
	switch c {
	case CollegeInformation, CollegeOther:
		return true
	}
	return false
}

// String returns the string representation.
func (c College) String() string {
	return string(c)
}

// DisplayName returns a human-readable college name.
func (c College) DisplayName() string {
	switch c {
	case CollegeInformation:
		return "College of Information"
	case CollegeOther:
		return "Other Colleges"
	default:
		return string(c)
	}
}

// NewCollege creates a College with validation.
func NewCollege(value string) (College, error) {
	c := College(strings.ToLower(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", NewDomainError("shared", "NewCollege", ErrInvalidInput, "unknown college")
	}
	return c, nil
}

// Grade is an enrollment year (e.g. 2023). Together with a college it
// identifies a cohort.
type Grade int

const (
	MinGrade Grade = 2000
	MaxGrade Grade = 2100
)

// IsValid checks if the grade is within the plausible range.
func (g Grade) IsValid() bool {
	return g >= MinGrade && g <= MaxGrade
}

// Int returns the underlying int value.
func (g Grade) Int() int {
	return int(g)
}

// NewGrade creates a Grade with validation.
func NewGrade(year int) (Grade, error) {
	g := Grade(year)
	if !g.IsValid() {
		return 0, NewDomainError("shared", "NewGrade", ErrValueOutOfRange, "enrollment year out of range")
	}
	return g, nil
}

// Cohort is the visibility boundary of the portal: a counselor only ever
// sees students and submissions whose cohort equals their own.
type Cohort struct {
	College College
	Grade   Grade
}

// IsValid checks both components.
func (c Cohort) IsValid() bool {
	return c.College.IsValid() && c.Grade.IsValid()
}

// Equals compares two cohorts.
func (c Cohort) Equals(other Cohort) bool {
	return c.College == other.College && c.Grade == other.Grade
}

// String returns e.g. "info-2023".
func (c Cohort) String() string {
	return fmt.Sprintf("%s-%d", c.College, c.Grade)
}

// NewCohort creates a Cohort with validation.
func NewCohort(college College, grade Grade) (Cohort, error) {
	c := Cohort{College: college, Grade: grade}
	if !c.IsValid() {
		return Cohort{}, NewDomainError("shared", "NewCohort", ErrInvalidInput, "invalid cohort")
	}
	return c, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Score is a merit score with exact decimal arithmetic, stored at a scale
// of one fractional digit. Binary floats are never used for scores.
type Score struct {
	value decimal.Decimal
}

// ScoreScale is the number of fractional digits kept on every score.
const ScoreScale = 1

// Score boundaries.
var (
	MinScore = decimal.Zero
	MaxScore = decimal.NewFromInt(100)
)

// NewScore creates a Score from a decimal, rounding to ScoreScale.
func NewScore(d decimal.Decimal) (Score, error) {
	d = d.Round(ScoreScale)
	if d.LessThan(MinScore) || d.GreaterThan(MaxScore) {
		return Score{}, ErrInvalidScore
	}
	return Score{value: d}, nil
}

// ParseScore creates a Score from its string form, e.g. "87.5".
func ParseScore(s string) (Score, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Score{}, WrapError("scoring", "ParseScore", ErrInvalidFormat, "not a decimal number", err)
	}
	return NewScore(d)
}

// ScoreFromDecimal wraps a computed decimal as a Score without range
// checks. Bounds apply to individual inputs at the edges; accumulated
// subtotals and weighted totals are open-ended.
func ScoreFromDecimal(d decimal.Decimal) Score {
	return Score{value: d.Round(ScoreScale)}
}

// MustScore creates a Score or panics. For constants and tests only.
func MustScore(s string) Score {
	sc, err := ParseScore(s)
	if err != nil {
		panic(err)
	}
	return sc
}

// ZeroScore returns the zero score.
func ZeroScore() Score {
	return Score{value: decimal.Zero}
}

// Decimal returns the underlying decimal value.
func (s Score) Decimal() decimal.Decimal {
	return s.value
}

// String returns the fixed-point representation with one fractional digit.
func (s Score) String() string {
	return s.value.StringFixed(ScoreScale)
}

// IsZero reports whether the score is exactly zero.
func (s Score) IsZero() bool {
	return s.value.IsZero()
}

// IsPositive reports whether the score is strictly greater than zero.
func (s Score) IsPositive() bool {
	return s.value.IsPositive()
}

// IsNegative reports whether the score is strictly less than zero.
// Bounded constructors never produce one; computed decimals can.
func (s Score) IsNegative() bool {
	return s.value.IsNegative()
}

// Add returns s + other. The result may exceed MaxScore: accumulated
// subtotals are open-ended, only individual inputs are bounded.
func (s Score) Add(other Score) Score {
	return Score{value: s.value.Add(other.value).Round(ScoreScale)}
}

// Sub returns s - other, floored at zero.
func (s Score) Sub(other Score) Score {
	r := s.value.Sub(other.value).Round(ScoreScale)
	if r.IsNegative() {
		r = decimal.Zero
	}
	return Score{value: r}
}

// Cmp compares two scores: -1 if s < other, 0 if equal, +1 if s > other.
func (s Score) Cmp(other Score) int {
	return s.value.Cmp(other.value)
}

// ScoreGroup names the subtotal a submission category feeds into.
// The category to group mapping lives in one place (the submission package);
// everything else works in terms of groups.
type ScoreGroup string

const (
	GroupAcademic      ScoreGroup = "academic"
	GroupComprehensive ScoreGroup = "comprehensive"
)

// IsValid checks if the group is one of the known values.
func (g ScoreGroup) IsValid() bool {
	return g == GroupAcademic || g == GroupComprehensive
}

// String returns the string representation.
func (g ScoreGroup) String() string {
	return string(g)
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}
