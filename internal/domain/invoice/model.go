package invoice

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusIssued    Status = "Issued"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

// Invoice maps to the invoices table. Only Total and CreatedAt feed the
// revenue aggregation; line items are an opaque detail payload for the
// billing screens.
type Invoice struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	TenantID    string          `db:"tenant_id" json:"tenantId"`
	PatientID   uuid.UUID       `db:"patient_id" json:"patientId"`
	PatientName string          `db:"patient_name" json:"patientName"`
	Total       float64         `db:"total" json:"total"`
	Status      Status          `db:"status" json:"status"`
	LineItems   json.RawMessage `db:"line_items" json:"lineItems,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}
