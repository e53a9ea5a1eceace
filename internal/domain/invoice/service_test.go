package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Invoice
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Invoice)}
}

func (m *mockRepo) Create(_ context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	m.items[inv.ID] = inv
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Invoice, error) {
	inv, ok := m.items[id]
	if !ok || inv.TenantID != tenantID {
		return nil, fmt.Errorf("not found")
	}
	return inv, nil
}

func (m *mockRepo) Update(_ context.Context, inv *Invoice) error {
	m.items[inv.ID] = inv
	return nil
}

func (m *mockRepo) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	if inv, ok := m.items[id]; ok && inv.TenantID == tenantID {
		delete(m.items, id)
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Invoice, int, error) {
	var result []*Invoice
	for _, inv := range m.items {
		if inv.TenantID == tenantID {
			result = append(result, inv)
		}
	}
	return result, len(result), nil
}

func TestCreateInvoice_DefaultsToDraft(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := &Invoice{TenantID: "clinic-a", PatientID: uuid.New(), PatientName: "Ana Souza", Total: 150}
	if err := svc.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != StatusDraft {
		t.Errorf("expected default status %q, got %q", StatusDraft, inv.Status)
	}
}

func TestCreateInvoice_PatientIDRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := &Invoice{TenantID: "clinic-a", Total: 150}
	if err := svc.CreateInvoice(context.Background(), inv); err == nil {
		t.Error("expected error for missing patient_id")
	}
}

func TestCreateInvoice_NegativeTotalRejected(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := &Invoice{TenantID: "clinic-a", PatientID: uuid.New(), Total: -5}
	if err := svc.CreateInvoice(context.Background(), inv); err == nil {
		t.Error("expected error for negative total")
	}
}

func TestCreateInvoice_InvalidStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := &Invoice{TenantID: "clinic-a", PatientID: uuid.New(), Total: 10, Status: "void"}
	if err := svc.CreateInvoice(context.Background(), inv); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestUpdateInvoice(t *testing.T) {
	svc := NewService(newMockRepo())
	inv := &Invoice{TenantID: "clinic-a", PatientID: uuid.New(), Total: 100, Status: StatusIssued}
	if err := svc.CreateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inv.Status = StatusPaid
	if err := svc.UpdateInvoice(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fetched, err := svc.GetInvoice(context.Background(), "clinic-a", inv.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetched.Status != StatusPaid {
		t.Errorf("expected status %q, got %q", StatusPaid, fetched.Status)
	}
}
