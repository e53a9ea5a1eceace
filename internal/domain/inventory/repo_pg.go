package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const itemCols = `id, tenant_id, name, quantity, min_quantity, max_quantity,
	unit, created_at, updated_at`

func scanItem(row pgx.Row) (*Item, error) {
	var i Item
	err := row.Scan(&i.ID, &i.TenantID, &i.Name, &i.Quantity, &i.MinQuantity,
		&i.MaxQuantity, &i.Unit, &i.CreatedAt, &i.UpdatedAt)
	return &i, err
}

func (r *repoPG) Create(ctx context.Context, i *Item) error {
	i.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory (id, tenant_id, name, quantity, min_quantity, max_quantity, unit)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		i.ID, i.TenantID, i.Name, i.Quantity, i.MinQuantity, i.MaxQuantity, i.Unit)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Item, error) {
	return scanItem(r.pool.QueryRow(ctx,
		`SELECT `+itemCols+` FROM inventory WHERE tenant_id = $1 AND id = $2`,
		tenantID, id))
}

func (r *repoPG) Update(ctx context.Context, i *Item) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE inventory SET name=$3, quantity=$4, min_quantity=$5, max_quantity=$6,
			unit=$7, updated_at=NOW()
		WHERE tenant_id = $1 AND id = $2`,
		i.TenantID, i.ID, i.Name, i.Quantity, i.MinQuantity, i.MaxQuantity, i.Unit)
	return err
}

func (r *repoPG) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM inventory WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return err
}

func (r *repoPG) List(ctx context.Context, tenantID string, limit, offset int) ([]*Item, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+itemCols+` FROM inventory
		WHERE tenant_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, i)
	}
	return items, total, rows.Err()
}
