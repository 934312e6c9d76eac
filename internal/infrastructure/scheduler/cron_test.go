package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{name: "every minute", expr: "* * * * *"},
		{name: "daily at 08:00", expr: "0 8 * * *"},
		{name: "every five minutes", expr: "*/5 * * * *"},
		{name: "range with list", expr: "0 9-17 * * 1,2,3,4,5"},
		{name: "too few fields", expr: "* * * *", wantErr: true},
		{name: "too many fields", expr: "* * * * * *", wantErr: true},
		{name: "minute out of range", expr: "60 * * * *", wantErr: true},
		{name: "hour out of range", expr: "0 24 * * *", wantErr: true},
		{name: "day of week out of range", expr: "0 0 * * 7", wantErr: true},
		{name: "invalid step", expr: "*/0 * * * *", wantErr: true},
		{name: "inverted range", expr: "30-10 * * * *", wantErr: true},
		{name: "garbage", expr: "a b c d e", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce, err := ParseCronExpression(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expr, ce.String())
		})
	}
}

func TestCronExpressionNext(t *testing.T) {
	// Monday 2026-03-02 10:30:45 UTC
	base := time.Date(2026, 3, 2, 10, 30, 45, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		want time.Time
	}{
		{
			name: "every minute rolls to next minute",
			expr: "* * * * *",
			want: time.Date(2026, 3, 2, 10, 31, 0, 0, time.UTC),
		},
		{
			name: "daily time later today",
			expr: "0 14 * * *",
			want: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		},
		{
			name: "daily time already passed rolls to tomorrow",
			expr: "0 8 * * *",
			want: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "step within hour",
			expr: "*/15 * * * *",
			want: time.Date(2026, 3, 2, 10, 45, 0, 0, time.UTC),
		},
		{
			name: "specific weekday",
			expr: "0 9 * * 5",
			want: time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "first of month",
			expr: "30 0 1 * *",
			want: time.Date(2026, 4, 1, 0, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := MustParseCronExpression(tt.expr)
			assert.Equal(t, tt.want, ce.Next(base))
		})
	}
}

func TestCronExpressionNextIsStrictlyAfter(t *testing.T) {
	// An exact boundary hit must advance to the NEXT occurrence, not return t.
	ce := MustParseCronExpression("0 8 * * *")
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	next := ce.Next(at)
	assert.Equal(t, time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), next)
}

func TestIntervalScheduleNext(t *testing.T) {
	s := NewIntervalSchedule(10 * time.Minute)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(10*time.Minute), s.Next(base))
	assert.Equal(t, "@every 10m0s", s.String())
}
