package tenant

import (
	"context"
	"errors"
	"testing"
)

type mockRepo struct {
	members map[string]string
	clinics map[string]*Clinic
	calls   int
}

func (m *mockRepo) MemberTenantID(_ context.Context, principal string) (string, error) {
	m.calls++
	tid, ok := m.members[principal]
	if !ok {
		return "", ErrTenantNotFound
	}
	return tid, nil
}

func (m *mockRepo) ClinicSettings(_ context.Context, tenantID string) (*Clinic, error) {
	c, ok := m.clinics[tenantID]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return c, nil
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		members: map[string]string{"user-1": "clinic-a"},
		clinics: map[string]*Clinic{
			"clinic-a": {TenantID: "clinic-a", DisplayName: "Main Street Clinic", Currency: "USD"},
		},
	}
}

func TestResolve_Success(t *testing.T) {
	r := NewResolver(newMockRepo())

	clinic, err := r.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clinic.TenantID != "clinic-a" {
		t.Errorf("expected tenant clinic-a, got %s", clinic.TenantID)
	}
	if clinic.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", clinic.Currency)
	}
}

func TestResolve_EmptyPrincipal(t *testing.T) {
	r := NewResolver(newMockRepo())

	_, err := r.Resolve(context.Background(), "")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestResolve_UnknownPrincipal(t *testing.T) {
	r := NewResolver(newMockRepo())

	_, err := r.Resolve(context.Background(), "stranger")
	if !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestResolve_MissingSettings(t *testing.T) {
	repo := newMockRepo()
	repo.members["user-2"] = "clinic-ghost"
	r := NewResolver(repo)

	_, err := r.Resolve(context.Background(), "user-2")
	if !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestResolve_CachesPerPrincipal(t *testing.T) {
	repo := newMockRepo()
	r := NewResolver(repo)

	if _, err := r.Resolve(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Resolve(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 1 {
		t.Errorf("expected 1 repository lookup, got %d", repo.calls)
	}

	r.Invalidate("user-1")
	if _, err := r.Resolve(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 2 {
		t.Errorf("expected lookup after invalidate, got %d calls", repo.calls)
	}
}
