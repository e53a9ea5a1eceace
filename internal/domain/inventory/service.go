package inventory

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

func (s *Service) validate(i *Item) error {
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	if i.MinQuantity < 0 {
		return fmt.Errorf("min_quantity must not be negative")
	}
	if i.MaxQuantity > 0 && i.MaxQuantity < i.MinQuantity {
		return fmt.Errorf("max_quantity must not be below min_quantity")
	}
	return nil
}

func (s *Service) CreateItem(ctx context.Context, i *Item) error {
	if i.TenantID == "" {
		return fmt.Errorf("tenant_id is required")
	}
	if err := s.validate(i); err != nil {
		return err
	}
	return s.repo.Create(ctx, i)
}

func (s *Service) GetItem(ctx context.Context, tenantID string, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

func (s *Service) UpdateItem(ctx context.Context, i *Item) error {
	if err := s.validate(i); err != nil {
		return err
	}
	return s.repo.Update(ctx, i)
}

func (s *Service) DeleteItem(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

func (s *Service) ListItems(ctx context.Context, tenantID string, limit, offset int) ([]*Item, int, error) {
	return s.repo.List(ctx, tenantID, limit, offset)
}
