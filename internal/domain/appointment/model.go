package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

// Status values are stored verbatim; the dashboard counts on the exact
// strings.
const (
	StatusScheduled Status = "Scheduled"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Appointment maps to the appointments table. PatientName is denormalized
// so list views and the dashboard avoid a join per row.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenantId"`
	PatientID   uuid.UUID `db:"patient_id" json:"patientId"`
	PatientName string    `db:"patient_name" json:"patientName"`
	StartTime   time.Time `db:"start_time" json:"startTime"`
	Duration    int       `db:"duration_minutes" json:"duration"`
	Type        string    `db:"type" json:"type"`
	Status      Status    `db:"status" json:"status"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
