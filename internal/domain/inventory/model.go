package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Item maps to the inventory table.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenantId"`
	Name        string    `db:"name" json:"name"`
	Quantity    int       `db:"quantity" json:"quantity"`
	MinQuantity int       `db:"min_quantity" json:"minQuantity"`
	MaxQuantity int       `db:"max_quantity" json:"maxQuantity"`
	Unit        string    `db:"unit" json:"unit"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// LowStock reports whether the item has fallen to its reorder threshold.
func (i *Item) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// Critical reports whether the item has fallen to half its reorder threshold.
func (i *Item) Critical() bool {
	return i.Quantity <= i.MinQuantity/2
}
