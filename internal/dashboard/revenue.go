package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// The revenue windows are point-in-time fetches, not live sources: they run
// once per recompute, so invoice writes between recomputes lag until the
// next source change fires the barrier.

func startOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// monthWindow returns the inclusive bounds of the calendar month containing
// now.
func monthWindow(now time.Time) (time.Time, time.Time) {
	start := startOfMonth(now)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// previousMonthWindow returns the inclusive bounds of the month before the
// one containing now.
func previousMonthWindow(now time.Time) (time.Time, time.Time) {
	start := startOfMonth(now).AddDate(0, -1, 0)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// formatPercentChange renders the revenue trend with an explicit sign. A
// zero previous period divides by 1 instead, which keeps the figure defined
// (previous=0, current=150 reads +15000.0%).
func formatPercentChange(current, previous float64) string {
	base := previous
	if base == 0 {
		base = 1
	}
	pct := round1((current - previous) / base * 100)
	if pct == 0 {
		pct = 0 // a decline that rounds to zero must not render as "-0.0%"
	}
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// errorSink receives user-visible, non-blocking failure notifications.
type errorSink interface {
	PublishError(tenantID, msg string)
}

// fetchRevenue sums invoice totals over the current and previous month
// windows. A failed window query degrades to a zero total for that window
// rather than failing the snapshot; the sink, when non-nil, is notified so
// consumers can surface the gap.
func fetchRevenue(ctx context.Context, store Store, tenantID string, now time.Time, log zerolog.Logger, sink errorSink) RevenueStats {
	curFrom, curTo := monthWindow(now)
	prevFrom, prevTo := previousMonthWindow(now)

	current, err := store.RevenueBetween(ctx, tenantID, curFrom, curTo)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("current month revenue query failed, using zero")
		if sink != nil {
			sink.PublishError(tenantID, "current month revenue is unavailable")
		}
		current = 0
	}
	previous, err := store.RevenueBetween(ctx, tenantID, prevFrom, prevTo)
	if err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Msg("previous month revenue query failed, using zero")
		if sink != nil {
			sink.PublishError(tenantID, "previous month revenue is unavailable")
		}
		previous = 0
	}

	return RevenueStats{
		Current:       current,
		Previous:      previous,
		PercentChange: formatPercentChange(current, previous),
	}
}
