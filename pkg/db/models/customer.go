package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jewelstack/jewelpos-backend/pkg/enums"
)

// Customer is created through the counter workflow and never auto-updated by
// sales; TotalPurchases is an operator-maintained accumulator.
type Customer struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	CustomerID     string               `gorm:"column:customer_id;uniqueIndex;not null" json:"customerId"`
	Name           string               `gorm:"column:name;not null" json:"name"`
	Phone          string               `gorm:"column:phone" json:"phone"`
	Email          *string              `gorm:"column:email" json:"email,omitempty"`
	Status         enums.CustomerStatus `gorm:"column:status;not null;default:'New'" json:"status"`
	TotalPurchases float64              `gorm:"column:total_purchases;type:numeric(14,2);not null;default:0" json:"totalPurchases"`
	LastVisit      *time.Time           `gorm:"column:last_visit" json:"lastVisit,omitempty"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Normalize coerces malformed numeric fields at the repository boundary.
func (c *Customer) Normalize() {
	c.TotalPurchases = coerceFloat(c.TotalPurchases)
	if !c.Status.IsValid() {
		c.Status = enums.CustomerStatusNew
	}
}
