package bill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jewelstack/jewelpos-backend/pkg/db"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS bills (
  id TEXT PRIMARY KEY,
  bill_no TEXT NOT NULL UNIQUE,
  bill_date DATETIME,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  category TEXT,
  metal_type TEXT,
  carat TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  weight_grams REAL NOT NULL DEFAULT 0,
  rate_per_gram REAL NOT NULL DEFAULT 0,
  making_charges REAL NOT NULL DEFAULT 0,
  making_charge_percent REAL NOT NULL DEFAULT 0,
  gst_percent REAL NOT NULL DEFAULT 0,
  gold_rate_per_10g REAL NOT NULL DEFAULT 0,
  silver_rate_per_10g REAL NOT NULL DEFAULT 0,
  total_amount REAL NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func invoice(billNo string) *models.Bill {
	return &models.Bill{
		BillNo:        billNo,
		BillDate:      time.Now(),
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		ProductID:     "P-1",
		ProductName:   "gold chain",
		MetalType:     enums.MetalTypeGold,
		Carat:         "24K",
		Quantity:      1,
		WeightGrams:   10,
		RatePerGram:   5000,
		MakingCharges: 5000,
		TotalAmount:   56650,
	}
}

func TestCreateAndListBills(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	first := invoice("INV-1")
	first.CreatedAt = time.Now().Add(-time.Minute)
	_, err := repo.CreateBill(ctx, first)
	require.NoError(t, err)

	second := invoice("INV-2")
	second.CreatedAt = time.Now()
	_, err = repo.CreateBill(ctx, second)
	require.NoError(t, err)

	rows, err := repo.ListBills(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-2", rows[0].BillNo)
}

func TestDuplicateBillNoRejected(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateBill(ctx, invoice("INV-1"))
	require.NoError(t, err)
	_, err = repo.CreateBill(ctx, invoice("INV-1"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestDeleteBill(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateBill(ctx, invoice("INV-1"))
	require.NoError(t, err)
	require.NoError(t, repo.DeleteBill(ctx, "INV-1"))

	err = repo.DeleteBill(ctx, "INV-1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateBillNormalizesNumerics(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	b := invoice("INV-1")
	b.TotalAmount = -1
	b.Quantity = -2

	created, err := repo.CreateBill(ctx, b)
	require.NoError(t, err)
	assert.Zero(t, created.TotalAmount)
	assert.Zero(t, created.Quantity)
}
