package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Item
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Item)}
}

func (m *mockRepo) Create(_ context.Context, i *Item) error {
	i.ID = uuid.New()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	m.items[i.ID] = i
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Item, error) {
	i, ok := m.items[id]
	if !ok || i.TenantID != tenantID {
		return nil, fmt.Errorf("not found")
	}
	return i, nil
}

func (m *mockRepo) Update(_ context.Context, i *Item) error {
	m.items[i.ID] = i
	return nil
}

func (m *mockRepo) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	if i, ok := m.items[id]; ok && i.TenantID == tenantID {
		delete(m.items, id)
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Item, int, error) {
	var result []*Item
	for _, i := range m.items {
		if i.TenantID == tenantID {
			result = append(result, i)
		}
	}
	return result, len(result), nil
}

func TestCreateItem(t *testing.T) {
	svc := NewService(newMockRepo())
	i := &Item{TenantID: "clinic-a", Name: "Gloves", Quantity: 100, MinQuantity: 20, Unit: "box"}
	if err := svc.CreateItem(context.Background(), i); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateItem_NameRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	i := &Item{TenantID: "clinic-a", Quantity: 10}
	if err := svc.CreateItem(context.Background(), i); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreateItem_NegativeQuantityRejected(t *testing.T) {
	svc := NewService(newMockRepo())
	i := &Item{TenantID: "clinic-a", Name: "Gloves", Quantity: -1}
	if err := svc.CreateItem(context.Background(), i); err == nil {
		t.Error("expected error for negative quantity")
	}
}

func TestCreateItem_MaxBelowMinRejected(t *testing.T) {
	svc := NewService(newMockRepo())
	i := &Item{TenantID: "clinic-a", Name: "Gloves", Quantity: 5, MinQuantity: 10, MaxQuantity: 4}
	if err := svc.CreateItem(context.Background(), i); err == nil {
		t.Error("expected error for max_quantity below min_quantity")
	}
}

func TestItemStockThresholds(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		low      bool
		critical bool
	}{
		{"well stocked", Item{Quantity: 100, MinQuantity: 20}, false, false},
		{"at threshold", Item{Quantity: 20, MinQuantity: 20}, true, false},
		{"below threshold", Item{Quantity: 15, MinQuantity: 20}, true, false},
		{"at half threshold", Item{Quantity: 10, MinQuantity: 20}, true, true},
		{"empty", Item{Quantity: 0, MinQuantity: 20}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.LowStock(); got != tt.low {
				t.Errorf("LowStock() = %v, want %v", got, tt.low)
			}
			if got := tt.item.Critical(); got != tt.critical {
				t.Errorf("Critical() = %v, want %v", got, tt.critical)
			}
		})
	}
}
