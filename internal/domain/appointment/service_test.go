package appointment

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, tenantID string, id uuid.UUID) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok || a.TenantID != tenantID {
		return nil, fmt.Errorf("not found")
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, tenantID string, id uuid.UUID) error {
	if a, ok := m.items[id]; ok && a.TenantID == tenantID {
		delete(m.items, id)
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.TenantID == tenantID {
			result = append(result, a)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListBetween(_ context.Context, tenantID string, from, to time.Time) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.items {
		if a.TenantID == tenantID && !a.StartTime.Before(from) && !a.StartTime.After(to) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func validAppointment() *Appointment {
	return &Appointment{
		TenantID:    "clinic-a",
		PatientID:   uuid.New(),
		PatientName: "Ana Souza",
		StartTime:   time.Now().Add(24 * time.Hour),
		Duration:    30,
		Type:        "Consultation",
	}
}

func TestCreateAppointment_DefaultsToScheduled(t *testing.T) {
	svc := NewService(newMockRepo())
	a := validAppointment()
	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("expected default status %q, got %q", StatusScheduled, a.Status)
	}
}

func TestCreateAppointment_PatientIDRequired(t *testing.T) {
	svc := NewService(newMockRepo())
	a := validAppointment()
	a.PatientID = uuid.Nil
	if err := svc.CreateAppointment(context.Background(), a); err == nil {
		t.Error("expected error for missing patient_id")
	}
}

func TestCreateAppointment_InvalidStatus(t *testing.T) {
	svc := NewService(newMockRepo())
	a := validAppointment()
	a.Status = "pending"
	if err := svc.CreateAppointment(context.Background(), a); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestCreateAppointment_DurationPositive(t *testing.T) {
	svc := NewService(newMockRepo())
	a := validAppointment()
	a.Duration = 0
	if err := svc.CreateAppointment(context.Background(), a); err == nil {
		t.Error("expected error for non-positive duration")
	}
}

func TestListAppointmentsBetween(t *testing.T) {
	svc := NewService(newMockRepo())
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, 2 * time.Hour, 72 * time.Hour} {
		a := validAppointment()
		a.StartTime = base.Add(offset)
		if err := svc.CreateAppointment(context.Background(), a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := svc.ListAppointmentsBetween(context.Background(), "clinic-a", base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments in window, got %d", len(got))
	}
	if got[0].StartTime.After(got[1].StartTime) {
		t.Error("expected ascending order by start time")
	}
}
