package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) MemberTenantID(ctx context.Context, principal string) (string, error) {
	var tenantID string
	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id FROM clinic_members WHERE principal = $1`,
		principal).Scan(&tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrTenantNotFound
	}
	if err != nil {
		return "", err
	}
	return tenantID, nil
}

func (r *repoPG) ClinicSettings(ctx context.Context, tenantID string) (*Clinic, error) {
	var c Clinic
	err := r.pool.QueryRow(ctx,
		`SELECT tenant_id, display_name, currency FROM clinics WHERE tenant_id = $1`,
		tenantID).Scan(&c.TenantID, &c.DisplayName, &c.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
