package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a denormalized stock record kept alongside Product. The
// two stock figures are not reconciled automatically; see the inventory
// service for the explicit reconciliation report.
type InventoryItem struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ProductID    string    `gorm:"column:product_id;uniqueIndex;not null" json:"productId"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Category     string    `gorm:"column:category" json:"category"`
	CurrentStock int       `gorm:"column:current_stock;not null;default:0" json:"currentStock"`
	MinimumStock int       `gorm:"column:minimum_stock;not null;default:0" json:"minimumStock"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Normalize coerces malformed numeric fields at the repository boundary.
func (i *InventoryItem) Normalize() {
	if i.CurrentStock < 0 {
		i.CurrentStock = 0
	}
	if i.MinimumStock < 0 {
		i.MinimumStock = 0
	}
}

// LowStock reports whether the item sits at or below its minimum.
func (i InventoryItem) LowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}
