package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePrescription(ctx context.Context, p *Prescription) error {
	if p.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.Medication == "" {
		return fmt.Errorf("medication is required")
	}
	if p.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPrescription(ctx context.Context, tenantID string, id uuid.UUID) (*Prescription, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *Service) UpdatePrescription(ctx context.Context, p *Prescription) error {
	if p.Medication == "" {
		return fmt.Errorf("medication is required")
	}
	if p.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePrescription(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *Service) ListPrescriptions(ctx context.Context, tenantID string, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, tenantID, limit, offset)
}
