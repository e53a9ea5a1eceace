package tenant

import "errors"

// Clinic is the tenant context every scoped query and formatted output needs.
type Clinic struct {
	TenantID    string `json:"tenantId" db:"tenant_id"`
	DisplayName string `json:"displayName" db:"display_name"`
	Currency    string `json:"currency" db:"currency"`
}

var (
	// ErrNotAuthenticated is returned when no principal is present.
	ErrNotAuthenticated = errors.New("tenant: not authenticated")
	// ErrTenantNotFound is returned when the principal has no clinic
	// membership or the clinic settings row is missing.
	ErrTenantNotFound = errors.New("tenant: tenant not found")
)
