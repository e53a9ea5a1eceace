package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// MetricsSnapshot is one complete, internally consistent view of a clinic's
// operational metrics. Snapshots are recomputed in full on every source
// change and replaced atomically; fields are never updated in place.
type MetricsSnapshot struct {
	TenantID          string                `json:"tenantId"`
	GeneratedAt       time.Time             `json:"generatedAt"`
	Patients          PatientStats          `json:"patients"`
	AppointmentsToday AppointmentStats      `json:"appointmentsToday"`
	Revenue           RevenueStats          `json:"revenue"`
	LowStock          LowStock              `json:"lowStock"`
	Demographics      []DemographicGroup    `json:"demographics"`
	PopularServices   []ServiceStat         `json:"popularServices"`
	Upcoming          []UpcomingAppointment `json:"upcomingAppointments"`
}

type PatientStats struct {
	Total         int     `json:"total"`
	NewThisMonth  int     `json:"newThisMonth"`
	PercentChange float64 `json:"percentChange"`
}

type AppointmentStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// RevenueStats carries the two window totals in the tenant currency.
// PercentChange is pre-rendered with an explicit sign so every consumer
// shows the same string.
type RevenueStats struct {
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	PercentChange string  `json:"percentChange"`
}

type LowStock struct {
	Total int            `json:"total"`
	Items []LowStockItem `json:"items"`
}

// LowStockItem keeps the raw quantities so the consumer can classify
// severity (quantity at or below half the threshold is critical).
type LowStockItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"minQuantity"`
	Unit        string    `json:"unit"`
}

type DemographicGroup struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ServiceStat struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type UpcomingAppointment struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patientName"`
	StartTime   time.Time `json:"startTime"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Duration    int       `json:"duration"`
}
