package prescription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Prescription, error) {
	p, ok := m.items[id]
	if !ok || p.TenantID != tenantID {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Prescription) error {
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	if p, ok := m.items[id]; ok && p.TenantID == tenantID {
		delete(m.items, id)
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.items {
		if p.TenantID == tenantID {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func TestCreatePrescription(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Prescription{TenantID: "clinic-a", PatientID: uuid.New(), Medication: "Amoxicillin", Dosage: "500mg"}
	if err := svc.CreatePrescription(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreatePrescription_MedicationRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Prescription{TenantID: "clinic-a", PatientID: uuid.New(), Dosage: "500mg"}
	if err := svc.CreatePrescription(context.Background(), p); err == nil {
		t.Error("expected error for missing medication")
	}
}

func TestCreatePrescription_DosageRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Prescription{TenantID: "clinic-a", PatientID: uuid.New(), Medication: "Amoxicillin"}
	if err := svc.CreatePrescription(context.Background(), p); err == nil {
		t.Error("expected error for missing dosage")
	}
}

func TestGetPrescription_TenantScoped(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Prescription{TenantID: "clinic-a", PatientID: uuid.New(), Medication: "Amoxicillin", Dosage: "500mg"}
	svc.CreatePrescription(context.Background(), p)

	if _, err := svc.GetPrescription(context.Background(), "clinic-a", p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetPrescription(context.Background(), "clinic-b", p.ID); err == nil {
		t.Error("expected cross-tenant read to fail")
	}
}
