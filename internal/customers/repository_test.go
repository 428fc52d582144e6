package customer

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
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  status TEXT NOT NULL DEFAULT 'New',
  total_purchases REAL NOT NULL DEFAULT 0,
  last_visit DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func walkIn(customerID string) *models.Customer {
	return &models.Customer{
		CustomerID: customerID,
		Name:       "Asha",
		Phone:      "9876543210",
		Status:     enums.CustomerStatusNew,
	}
}

func TestCreateAndListCustomers(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	older := walkIn("C-1")
	older.CreatedAt = time.Now().Add(-time.Hour)
	_, err := repo.CreateCustomer(ctx, older)
	require.NoError(t, err)

	newer := walkIn("C-2")
	newer.CreatedAt = time.Now()
	_, err = repo.CreateCustomer(ctx, newer)
	require.NoError(t, err)

	rows, err := repo.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "C-2", rows[0].CustomerID)
}

func TestDuplicateCustomerID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateCustomer(ctx, walkIn("C-1"))
	require.NoError(t, err)
	_, err = repo.CreateCustomer(ctx, walkIn("C-1"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestCreateNormalizesStatusAndPurchases(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	c := walkIn("C-1")
	c.Status = enums.CustomerStatus("Gold Member")
	c.TotalPurchases = -500

	created, err := repo.CreateCustomer(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, enums.CustomerStatusNew, created.Status)
	assert.Zero(t, created.TotalPurchases)
}

func TestUpdateCustomerByNaturalID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateCustomer(ctx, walkIn("C-1"))
	require.NoError(t, err)

	update := walkIn("C-1")
	update.Status = enums.CustomerStatusVIP
	update.TotalPurchases = 125000

	updated, err := repo.UpdateCustomer(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, enums.CustomerStatusVIP, updated.Status)
}

func TestUpdateMissingCustomer(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	_, err := repo.UpdateCustomer(context.Background(), walkIn("C-404"))
	require.Error(t, err)
}
