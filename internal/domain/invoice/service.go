package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

var validStatuses = map[Status]bool{
	StatusDraft: true, StatusIssued: true, StatusPaid: true, StatusCancelled: true,
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if inv.Total < 0 {
		return fmt.Errorf("total must not be negative")
	}
	if inv.Status == "" {
		inv.Status = StatusDraft
	}
	if !validStatuses[inv.Status] {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	return s.repo.Create(ctx, inv)
}

func (s *Service) GetInvoice(ctx context.Context, tenantID string, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *Service) UpdateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.Total < 0 {
		return fmt.Errorf("total must not be negative")
	}
	if inv.Status != "" && !validStatuses[inv.Status] {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	return s.repo.Update(ctx, inv)
}

func (s *Service) DeleteInvoice(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *Service) ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.List(ctx, tenantID, limit, offset)
}
