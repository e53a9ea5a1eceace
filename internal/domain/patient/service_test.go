package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Patient, error) {
	p, ok := m.items[id]
	if !ok || p.TenantID != tenantID {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	if p, ok := m.items[id]; ok && p.TenantID == tenantID {
		delete(m.items, id)
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.items {
		if p.TenantID == tenantID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{TenantID: "clinic-a", Name: "Ana Souza", Gender: "female"}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePatient_NameRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{TenantID: "clinic-a"}
	if err := svc.CreatePatient(context.Background(), p); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreatePatient_TenantRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{Name: "Ana Souza"}
	if err := svc.CreatePatient(context.Background(), p); err == nil {
		t.Error("expected error for missing tenant_id")
	}
}

func TestCreatePatient_FutureBirthDateRejected(t *testing.T) {
	svc := NewService(newMockRepo())
	dob := time.Now().Add(48 * time.Hour)
	p := &Patient{TenantID: "clinic-a", Name: "Ana Souza", DateOfBirth: &dob}
	if err := svc.CreatePatient(context.Background(), p); err == nil {
		t.Error("expected error for future date_of_birth")
	}
}

func TestGetPatient_TenantScoped(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Patient{TenantID: "clinic-a", Name: "Ana Souza"}
	svc.CreatePatient(context.Background(), p)

	if _, err := svc.GetPatient(context.Background(), "clinic-a", p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetPatient(context.Background(), "clinic-b", p.ID); err == nil {
		t.Error("expected cross-tenant read to fail")
	}
}

func TestListPatients(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.CreatePatient(context.Background(), &Patient{TenantID: "clinic-a", Name: "Ana"})
	svc.CreatePatient(context.Background(), &Patient{TenantID: "clinic-a", Name: "Bruno"})
	svc.CreatePatient(context.Background(), &Patient{TenantID: "clinic-b", Name: "Carla"})

	items, total, err := svc.ListPatients(context.Background(), "clinic-a", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 patients for clinic-a, got %d (total %d)", len(items), total)
	}
}
