package product

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jewelstack/jewelpos-backend/pkg/db"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/enums"
)

func goldRing(productID string) *models.Product {
	return &models.Product{
		ProductID:   productID,
		Name:        "gold ring",
		Category:    "Rings",
		MetalType:   enums.MetalTypeGold,
		Carat:       "22K",
		WeightGrams: 4.25,
		Quantity:    3,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, goldRing("P-100"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByProductID(ctx, "P-100")
	require.NoError(t, err)
	assert.Equal(t, "gold ring", found.Name)
	assert.Equal(t, 4.25, found.WeightGrams)
}

func TestRepositoryCreateRejectsDuplicateProductID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateProduct(ctx, goldRing("P-100"))
	require.NoError(t, err)

	_, err = repo.CreateProduct(ctx, goldRing("P-100"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestRepositoryCreateNormalizesNumerics(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	p := goldRing("P-100")
	p.WeightGrams = math.NaN()
	p.Quantity = -4

	created, err := repo.CreateProduct(ctx, p)
	require.NoError(t, err)
	assert.Zero(t, created.WeightGrams)
	assert.Zero(t, created.Quantity)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	older := goldRing("P-1")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := goldRing("P-2")
	newer.CreatedAt = time.Now()
	_, err := repo.CreateProduct(ctx, older)
	require.NoError(t, err)
	_, err = repo.CreateProduct(ctx, newer)
	require.NoError(t, err)

	rows, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "P-2", rows[0].ProductID)
	assert.Equal(t, "P-1", rows[1].ProductID)
}

func TestRepositoryUpdateByNaturalID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateProduct(ctx, goldRing("P-100"))
	require.NoError(t, err)

	update := goldRing("P-100")
	update.Name = "engraved gold ring"
	update.Quantity = 7

	updated, err := repo.UpdateProduct(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "surrogate id survives update")
	assert.Equal(t, "engraved gold ring", updated.Name)

	rows, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRepositoryDeleteMissingProduct(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	err := repo.DeleteProduct(context.Background(), "P-404")
	require.Error(t, err)
}

func TestRepositoryReplaceAll(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateProduct(ctx, goldRing("P-1"))
	require.NoError(t, err)

	err = repo.ReplaceAll(ctx, []models.Product{*goldRing("P-10"), *goldRing("P-11")})
	require.NoError(t, err)

	rows, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "P-1", row.ProductID)
	}
}
