package dashboard

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFormatPercentChange(t *testing.T) {
	tests := []struct {
		current, previous float64
		want              string
	}{
		{2000, 1000, "+100.0%"},
		{150, 0, "+15000.0%"},
		{500, 1000, "-50.0%"},
		{1000, 1000, "+0.0%"},
		{0, 0, "+0.0%"},
		{1001, 1000, "+0.1%"},
		{9999.99, 10000.00, "+0.0%"},
	}
	for _, tt := range tests {
		if got := formatPercentChange(tt.current, tt.previous); got != tt.want {
			t.Errorf("formatPercentChange(%v, %v) = %q, want %q", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestMonthWindows(t *testing.T) {
	now := time.Date(2025, time.January, 15, 13, 45, 0, 0, time.UTC)

	from, to := monthWindow(now)
	if from != time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("current window start = %v", from)
	}
	if to.Month() != time.January || to.Day() != 31 {
		t.Errorf("current window end = %v, want last instant of January", to)
	}

	prevFrom, prevTo := previousMonthWindow(now)
	if prevFrom != time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("previous window start = %v, want December 2024", prevFrom)
	}
	if prevTo.Month() != time.December || prevTo.Year() != 2024 {
		t.Errorf("previous window end = %v", prevTo)
	}
}

type revenueOnlyStore struct {
	Store
	fn func(from, to time.Time) (float64, error)
}

func (s *revenueOnlyStore) RevenueBetween(_ context.Context, _ string, from, to time.Time) (float64, error) {
	return s.fn(from, to)
}

func TestFetchRevenue(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	store := &revenueOnlyStore{fn: func(from, _ time.Time) (float64, error) {
		if from.Month() == time.March {
			return 2000, nil
		}
		return 1000, nil
	}}

	rev := fetchRevenue(context.Background(), store, "clinic-a", now, zerolog.New(io.Discard), nil)
	if rev.Current != 2000 || rev.Previous != 1000 {
		t.Fatalf("got current=%v previous=%v", rev.Current, rev.Previous)
	}
	if rev.PercentChange != "+100.0%" {
		t.Errorf("percentChange = %q, want +100.0%%", rev.PercentChange)
	}
}

func TestFetchRevenue_QueryFailureIsZero(t *testing.T) {
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	store := &revenueOnlyStore{fn: func(from, _ time.Time) (float64, error) {
		if from.Month() == time.March {
			return 0, fmt.Errorf("connection reset")
		}
		return 1000, nil
	}}

	rev := fetchRevenue(context.Background(), store, "clinic-a", now, zerolog.New(io.Discard), nil)
	if rev.Current != 0 {
		t.Errorf("failed window should degrade to zero, got %v", rev.Current)
	}
	if rev.Previous != 1000 {
		t.Errorf("healthy window should survive, got %v", rev.Previous)
	}
	if rev.PercentChange != "-100.0%" {
		t.Errorf("percentChange = %q, want -100.0%%", rev.PercentChange)
	}
}
