package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule runs a job at a fixed interval. Intervals below one
// minute are clamped; the dead-letter retry job has no use for
// sub-minute cadence.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule creates a fixed-interval schedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &IntervalSchedule{Interval: interval}
}

// Next returns the next run time after t.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String describes the schedule.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}
