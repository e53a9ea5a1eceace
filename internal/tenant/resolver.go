package tenant

import (
	"context"
	"fmt"
	"sync"
)

type Repository interface {
	// MemberTenantID returns the tenant the principal belongs to, or
	// ErrTenantNotFound.
	MemberTenantID(ctx context.Context, principal string) (string, error)
	// ClinicSettings returns the settings row for a tenant, or
	// ErrTenantNotFound.
	ClinicSettings(ctx context.Context, tenantID string) (*Clinic, error)
}

// Resolver maps an authenticated principal to its clinic context. Results
// are cached per principal; membership changes only on re-login, so the
// cache lives for the process lifetime.
type Resolver struct {
	repo Repository

	mu    sync.RWMutex
	cache map[string]*Clinic
}

func NewResolver(repo Repository) *Resolver {
	return &Resolver{
		repo:  repo,
		cache: make(map[string]*Clinic),
	}
}

// Resolve returns the clinic context for the principal. It fails with
// ErrNotAuthenticated for an empty principal and ErrTenantNotFound when no
// membership or settings exist. Nothing downstream may open a subscription
// until this succeeds.
func (r *Resolver) Resolve(ctx context.Context, principal string) (*Clinic, error) {
	if principal == "" {
		return nil, ErrNotAuthenticated
	}

	r.mu.RLock()
	cached, ok := r.cache[principal]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	tenantID, err := r.repo.MemberTenantID(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("resolve membership for %s: %w", principal, err)
	}

	clinic, err := r.repo.ClinicSettings(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve settings for %s: %w", tenantID, err)
	}

	r.mu.Lock()
	r.cache[principal] = clinic
	r.mu.Unlock()

	return clinic, nil
}

// Invalidate drops the cached context for a principal, forcing the next
// Resolve to hit the repository.
func (r *Resolver) Invalidate(principal string) {
	r.mu.Lock()
	delete(r.cache, principal)
	r.mu.Unlock()
}
