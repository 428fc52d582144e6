package models

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jewelstack/jewelpos-backend/pkg/enums"
)

// Product represents one catalog item. ProductID is the externally assigned
// natural identifier used for lookups and mutations; the surrogate row id
// never crosses the API boundary.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ProductID   string          `gorm:"column:product_id;uniqueIndex;not null" json:"productId"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Category    string          `gorm:"column:category" json:"category"`
	MetalType   enums.MetalType `gorm:"column:metal_type;not null" json:"metalType"`
	Carat       string          `gorm:"column:carat" json:"carat"`
	WeightGrams float64         `gorm:"column:weight_grams;type:numeric(12,3);not null;default:0" json:"weightGrams"`
	Quantity    int             `gorm:"column:quantity;not null;default:0" json:"quantity"`
	Notes       *string         `gorm:"column:notes" json:"notes,omitempty"`
	ImageRef    *string         `gorm:"column:image_ref" json:"imageRef,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// Normalize coerces malformed numeric fields at the repository boundary.
// Downstream arithmetic assumes well-formed numbers, so NaN, infinities, and
// negative stock all collapse to zero here and nowhere else.
func (p *Product) Normalize() {
	p.WeightGrams = coerceFloat(p.WeightGrams)
	if p.Quantity < 0 {
		p.Quantity = 0
	}
}

func coerceFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
