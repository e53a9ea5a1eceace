package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var validStatuses = map[Status]bool{
	StatusScheduled: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	if a.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetAppointment(ctx context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !validStatuses[a.Status] {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	return s.repo.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *Service) ListAppointments(ctx context.Context, tenantID string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, tenantID, limit, offset)
}

func (s *Service) ListAppointmentsBetween(ctx context.Context, tenantID string, from, to time.Time) ([]*Appointment, error) {
	return s.repo.ListBetween(ctx, tenantID, from, to)
}
