package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/clinicops/clinicops/internal/domain/appointment"
	"github.com/clinicops/clinicops/internal/domain/inventory"
	"github.com/clinicops/clinicops/internal/domain/patient"
)

// Pure reductions over the ready collections. No I/O happens here; the
// engine calls these with captured data and a fixed reference instant so
// the same inputs always yield the same snapshot.

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func computePatientStats(patients []*patient.Patient, monthStart time.Time) PatientStats {
	stats := PatientStats{Total: len(patients)}
	for _, p := range patients {
		if !p.CreatedAt.Before(monthStart) {
			stats.NewThisMonth++
		}
	}
	if stats.Total > 0 {
		stats.PercentChange = round1(float64(stats.NewThisMonth) / float64(stats.Total) * 100)
	}
	return stats
}

func computeTodayStats(appts []*appointment.Appointment) AppointmentStats {
	stats := AppointmentStats{Total: len(appts)}
	for _, a := range appts {
		switch a.Status {
		case appointment.StatusCompleted:
			stats.Completed++
		case appointment.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// computeDemographics groups patients by the raw gender string. An unset
// gender forms a literal "undefined" bucket so group percentages still sum
// to 100. Values are not normalized, so "male" and "Male" are distinct
// buckets.
func computeDemographics(patients []*patient.Patient) []DemographicGroup {
	if len(patients) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, p := range patients {
		label := p.Gender
		if label == "" {
			label = "undefined"
		}
		counts[label]++
	}
	groups := make([]DemographicGroup, 0, len(counts))
	for label, count := range counts {
		groups = append(groups, DemographicGroup{
			Label:      label,
			Count:      count,
			Percentage: round1(float64(count) / float64(len(patients)) * 100),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Label < groups[j].Label
	})
	return groups
}

// computePopularServices ranks the month's appointments by service type:
// count descending, ties broken by ascending type name, top five kept.
// Appointments without a type are excluded from the buckets but still count
// toward the percentage denominator.
func computePopularServices(appts []*appointment.Appointment) []ServiceStat {
	if len(appts) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, a := range appts {
		if a.Type == "" {
			continue
		}
		counts[a.Type]++
	}
	stats := make([]ServiceStat, 0, len(counts))
	for typ, count := range counts {
		stats = append(stats, ServiceStat{
			Type:       typ,
			Count:      count,
			Percentage: round1(float64(count) / float64(len(appts)) * 100),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Type < stats[j].Type
	})
	if len(stats) > 5 {
		stats = stats[:5]
	}
	return stats
}

// computeLowStock filters items at or below their reorder threshold. The
// raw quantities travel with each entry; severity classification happens at
// render time.
func computeLowStock(items []*inventory.Item) LowStock {
	low := LowStock{}
	for _, i := range items {
		if !i.LowStock() {
			continue
		}
		low.Items = append(low.Items, LowStockItem{
			ID:          i.ID,
			Name:        i.Name,
			Quantity:    i.Quantity,
			MinQuantity: i.MinQuantity,
			Unit:        i.Unit,
		})
	}
	low.Total = len(low.Items)
	return low
}

// computeUpcoming projects the upcoming view, which arrives already ordered
// ascending by start time. The cap guards against an over-fetching store.
func computeUpcoming(appts []*appointment.Appointment) []UpcomingAppointment {
	if len(appts) > upcomingLimit {
		appts = appts[:upcomingLimit]
	}
	out := make([]UpcomingAppointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, UpcomingAppointment{
			ID:          a.ID,
			PatientName: a.PatientName,
			StartTime:   a.StartTime,
			Type:        a.Type,
			Status:      string(a.Status),
			Duration:    a.Duration,
		})
	}
	return out
}

// buildSnapshot assembles a full snapshot from captured source data and the
// already-fetched revenue totals.
func buildSnapshot(tenantID string, data sourceData, revenue RevenueStats, now time.Time) *MetricsSnapshot {
	return &MetricsSnapshot{
		TenantID:          tenantID,
		GeneratedAt:       now,
		Patients:          computePatientStats(data.patients, startOfMonth(now)),
		AppointmentsToday: computeTodayStats(data.today),
		Revenue:           revenue,
		LowStock:          computeLowStock(data.inventory),
		Demographics:      computeDemographics(data.patients),
		PopularServices:   computePopularServices(data.month),
		Upcoming:          computeUpcoming(data.upcoming),
	}
}
