package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CRON EXPRESSIONS
// Standard five-field format: minute hour day-of-month month day-of-week.
// Supports "*", "*/n", ranges "a-b", and lists "a,b,c".
// ══════════════════════════════════════════════════════════════════════════════

// CronExpression implements Schedule for a parsed cron expression.
type CronExpression struct {
	expr       string
	minutes    []int
	hours      []int
	daysOfMon  []int
	months     []int
	daysOfWeek []int
}

// ParseCronExpression parses a five-field cron expression.
func ParseCronExpression(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression must have 5 fields, got %d: %q", len(fields), expr)
	}

	minutes, err := parseField(fields[0], 0, 59)
	if err != nil {
		return nil, fmt.Errorf("minute field: %w", err)
	}
	hours, err := parseField(fields[1], 0, 23)
	if err != nil {
		return nil, fmt.Errorf("hour field: %w", err)
	}
	daysOfMon, err := parseField(fields[2], 1, 31)
	if err != nil {
		return nil, fmt.Errorf("day-of-month field: %w", err)
	}
	months, err := parseField(fields[3], 1, 12)
	if err != nil {
		return nil, fmt.Errorf("month field: %w", err)
	}
	daysOfWeek, err := parseField(fields[4], 0, 6)
	if err != nil {
		return nil, fmt.Errorf("day-of-week field: %w", err)
	}

	return &CronExpression{
		expr:       expr,
		minutes:    minutes,
		hours:      hours,
		daysOfMon:  daysOfMon,
		months:     months,
		daysOfWeek: daysOfWeek,
	}, nil
}

// MustParseCronExpression parses an expression or panics. For use with
// compile-time constant expressions only.
func MustParseCronExpression(expr string) *CronExpression {
	ce, err := ParseCronExpression(expr)
	if err != nil {
		panic(err)
	}
	return ce
}

// parseField expands one cron field into the sorted set of matching values.
func parseField(field string, min, max int) ([]int, error) {
	values := make([]int, 0)
	seen := make(map[int]bool)

	add := func(v int) error {
		if v < min || v > max {
			return fmt.Errorf("value %d out of range [%d,%d]", v, min, max)
		}
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
		return nil
	}

	for _, part := range strings.Split(field, ",") {
		step := 1
		if idx := strings.Index(part, "/"); idx >= 0 {
			s, err := strconv.Atoi(part[idx+1:])
			if err != nil || s <= 0 {
				return nil, fmt.Errorf("invalid step in %q", part)
			}
			step = s
			part = part[:idx]
		}

		lo, hi := min, max
		switch {
		case part == "*":
			// full range
		case strings.Contains(part, "-"):
			bounds := strings.SplitN(part, "-", 2)
			a, err1 := strconv.Atoi(bounds[0])
			b, err2 := strconv.Atoi(bounds[1])
			if err1 != nil || err2 != nil || a > b {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			lo, hi = a, b
		default:
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q", part)
			}
			lo, hi = v, v
		}

		for v := lo; v <= hi; v += step {
			if err := add(v); err != nil {
				return nil, err
			}
		}
	}

	return values, nil
}

// String returns the original expression.
func (ce *CronExpression) String() string {
	return ce.expr
}

// Next returns the next time matching the expression after t.
func (ce *CronExpression) Next(after time.Time) time.Time {
	// Minute resolution; scan forward up to four years before giving up
	t := after.Truncate(time.Minute).Add(time.Minute)
	limit := after.AddDate(4, 0, 0)

	for t.Before(limit) {
		if ce.matches(t) {
			return t
		}
		t = t.Add(time.Minute)
	}

	return time.Time{}
}

func (ce *CronExpression) matches(t time.Time) bool {
	return contains(ce.minutes, t.Minute()) &&
		contains(ce.hours, t.Hour()) &&
		contains(ce.daysOfMon, t.Day()) &&
		contains(ce.months, int(t.Month())) &&
		contains(ce.daysOfWeek, int(t.Weekday()))
}

func contains(slice []int, val int) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}
