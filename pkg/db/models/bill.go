package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jewelstack/jewelpos-backend/pkg/enums"
)

// Bill is one persisted invoice line. A multi-item sale produces one Bill per
// cart line sharing no order grouping beyond a near-identical timestamp; this
// is deliberate simplicity, and reporting aggregates must not assume a single
// row per sale.
//
// Bills are immutable after creation except for deletion.
type Bill struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	BillNo    string    `gorm:"column:bill_no;uniqueIndex;not null" json:"billNo"`
	BillDate  time.Time `gorm:"column:bill_date;autoCreateTime" json:"billDate"`

	CustomerName  string `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerPhone string `gorm:"column:customer_phone;not null" json:"customerPhone"`

	ProductID   string          `gorm:"column:product_id;not null" json:"productId"`
	ProductName string          `gorm:"column:product_name;not null" json:"productName"`
	Category    string          `gorm:"column:category" json:"category"`
	MetalType   enums.MetalType `gorm:"column:metal_type" json:"metalType"`
	Carat       string          `gorm:"column:carat" json:"carat"`
	Quantity    int             `gorm:"column:quantity;not null;default:0" json:"quantity"`

	// WeightGrams is the product weight scaled by the quantity sold.
	WeightGrams float64 `gorm:"column:weight_grams;type:numeric(12,3);not null;default:0" json:"weightGrams"`
	RatePerGram float64 `gorm:"column:rate_per_gram;type:numeric(12,2);not null;default:0" json:"ratePerGram"`

	MakingCharges       float64 `gorm:"column:making_charges;type:numeric(14,2);not null;default:0" json:"makingCharges"`
	MakingChargePercent float64 `gorm:"column:making_charge_percent;type:numeric(5,2);not null;default:0" json:"makingChargePercent"`
	GSTPercent          float64 `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0" json:"gstPercent"`

	// Rate snapshots are quoted per 10 grams, matching how counter staff see
	// the day's bullion prices.
	GoldRatePer10g   float64 `gorm:"column:gold_rate_per_10g;type:numeric(14,2);not null;default:0" json:"goldRatePer10g"`
	SilverRatePer10g float64 `gorm:"column:silver_rate_per_10g;type:numeric(14,2);not null;default:0" json:"silverRatePer10g"`

	TotalAmount float64   `gorm:"column:total_amount;type:numeric(14,2);not null;default:0" json:"totalAmount"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// Normalize coerces malformed numeric fields at the repository boundary.
func (b *Bill) Normalize() {
	if b.Quantity < 0 {
		b.Quantity = 0
	}
	b.WeightGrams = coerceFloat(b.WeightGrams)
	b.RatePerGram = coerceFloat(b.RatePerGram)
	b.MakingCharges = coerceFloat(b.MakingCharges)
	b.MakingChargePercent = coerceFloat(b.MakingChargePercent)
	b.GSTPercent = coerceFloat(b.GSTPercent)
	b.GoldRatePer10g = coerceFloat(b.GoldRatePer10g)
	b.SilverRatePer10g = coerceFloat(b.SilverRatePer10g)
	b.TotalAmount = coerceFloat(b.TotalAmount)
}
