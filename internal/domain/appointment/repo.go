package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*Appointment, int, error)
	// ListBetween returns appointments whose start time falls in [from, to],
	// ordered ascending by start time.
	ListBetween(ctx context.Context, tenantID string, from, to time.Time) ([]*Appointment, error)
}
