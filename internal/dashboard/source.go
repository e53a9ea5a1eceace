package dashboard

import (
	"context"
	"time"

	"github.com/clinicops/clinicops/internal/domain/appointment"
	"github.com/clinicops/clinicops/internal/domain/inventory"
	"github.com/clinicops/clinicops/internal/domain/patient"
	"github.com/clinicops/clinicops/internal/platform/db"
)

// Store supplies the tenant-scoped reads the engine aggregates over. The
// five collection reads back the live sources; RevenueBetween serves the
// point-in-time revenue windows.
type Store interface {
	Patients(ctx context.Context, tenantID string) ([]*patient.Patient, error)
	TodayAppointments(ctx context.Context, tenantID string, now time.Time) ([]*appointment.Appointment, error)
	UpcomingAppointments(ctx context.Context, tenantID string, now time.Time, limit int) ([]*appointment.Appointment, error)
	MonthAppointments(ctx context.Context, tenantID string, now time.Time) ([]*appointment.Appointment, error)
	Inventory(ctx context.Context, tenantID string) ([]*inventory.Item, error)
	RevenueBetween(ctx context.Context, tenantID string, from, to time.Time) (float64, error)
}

// ChangeFeed delivers row-change notifications for one tenant. The cancel
// func releases the subscription.
type ChangeFeed interface {
	Subscribe(tenantID string) (<-chan db.Change, func())
}

type sourceKey string

const (
	srcPatients  sourceKey = "patients"
	srcToday     sourceKey = "todayAppointments"
	srcUpcoming  sourceKey = "upcomingAppointments"
	srcMonth     sourceKey = "monthAppointments"
	srcInventory sourceKey = "inventory"
)

// upcomingLimit caps the upcoming-appointments view.
const upcomingLimit = 5

var allSources = []sourceKey{srcPatients, srcToday, srcUpcoming, srcMonth, srcInventory}

// sourcesForTable maps a changed table to the sources it invalidates. One
// appointment write touches all three appointment views; re-reading a view
// that turns out unchanged is harmless. A resync marker, emitted after the
// change feed dropped notifications, invalidates everything.
func sourcesForTable(table string) []sourceKey {
	switch table {
	case db.TableAll:
		return allSources
	case "patients":
		return []sourceKey{srcPatients}
	case "appointments":
		return []sourceKey{srcToday, srcUpcoming, srcMonth}
	case "inventory":
		return []sourceKey{srcInventory}
	default:
		return nil
	}
}

// sourceState tracks one live source. A failed fetch does not clear ready:
// the last good collection stays usable until fresh data arrives.
type sourceState struct {
	data   any
	ready  bool
	failed bool
}

// sourceData is an immutable copy of all five collections handed to a
// computation. The event loop never mutates a collection after capture, so
// sharing the slices with an in-flight computation is safe.
type sourceData struct {
	patients  []*patient.Patient
	today     []*appointment.Appointment
	upcoming  []*appointment.Appointment
	month     []*appointment.Appointment
	inventory []*inventory.Item
}
