package appstate

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customer "github.com/jewelstack/jewelpos-backend/internal/customers"
	"github.com/jewelstack/jewelpos-backend/internal/inventory"
	product "github.com/jewelstack/jewelpos-backend/internal/products"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

type fakeProducts struct {
	listCalls int
	rows      []models.Product
	createErr error
}

func (f *fakeProducts) ListProducts(context.Context) ([]models.Product, error) {
	f.listCalls++
	return f.rows, nil
}

func (f *fakeProducts) CreateProduct(_ context.Context, input product.ProductInput) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p := models.Product{ProductID: input.ProductID, Name: input.Name}
	f.rows = append(f.rows, p)
	return &p, nil
}

func (f *fakeProducts) UpdateProduct(_ context.Context, productID string, input product.ProductInput) (*models.Product, error) {
	return &models.Product{ProductID: productID, Name: input.Name}, nil
}

func (f *fakeProducts) DeleteProduct(context.Context, string) error { return nil }

type fakeCustomers struct {
	listCalls int
	rows      []models.Customer
}

func (f *fakeCustomers) ListCustomers(context.Context) ([]models.Customer, error) {
	f.listCalls++
	return f.rows, nil
}

func (f *fakeCustomers) CreateCustomer(_ context.Context, input customer.CustomerInput) (*models.Customer, error) {
	c := models.Customer{CustomerID: input.CustomerID, Name: input.Name}
	f.rows = append(f.rows, c)
	return &c, nil
}

func (f *fakeCustomers) UpdateCustomer(_ context.Context, customerID string, input customer.CustomerInput) (*models.Customer, error) {
	return &models.Customer{CustomerID: customerID}, nil
}

func (f *fakeCustomers) DeleteCustomer(context.Context, string) error { return nil }

type fakeBills struct {
	listCalls int
	rows      []models.Bill
}

func (f *fakeBills) ListBills(context.Context) ([]models.Bill, error) {
	f.listCalls++
	return f.rows, nil
}

func (f *fakeBills) GetBill(context.Context, string) (*models.Bill, error) { return nil, nil }
func (f *fakeBills) DeleteBill(context.Context, string) error             { return nil }

type fakeInventory struct {
	listCalls int
	rows      []models.InventoryItem
}

func (f *fakeInventory) ListItems(context.Context) ([]models.InventoryItem, error) {
	f.listCalls++
	return f.rows, nil
}

func (f *fakeInventory) UpsertItem(_ context.Context, input inventory.ItemInput) (*models.InventoryItem, error) {
	return &models.InventoryItem{ProductID: input.ProductID}, nil
}

func (f *fakeInventory) LowStock(context.Context) ([]models.InventoryItem, error) { return nil, nil }
func (f *fakeInventory) Reconcile(context.Context) ([]inventory.Drift, error)     { return nil, nil }

type stateFixture struct {
	state     *State
	cache     *Cache
	now       *time.Time
	products  *fakeProducts
	customers *fakeCustomers
	bills     *fakeBills
	inventory *fakeInventory
}

func newStateFixture(t *testing.T) *stateFixture {
	t.Helper()
	cache, now := newTestCache()
	products := &fakeProducts{}
	customers := &fakeCustomers{}
	bills := &fakeBills{}
	inv := &fakeInventory{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	state, err := NewState(products, customers, bills, inv, cache, logg)
	require.NoError(t, err)
	return &stateFixture{state: state, cache: cache, now: now, products: products, customers: customers, bills: bills, inventory: inv}
}

func TestReadsGoThroughCache(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Products(ctx)
	require.NoError(t, err)
	_, err = f.state.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.products.listCalls)
}

func TestStaleReadServedWithoutRefetch(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Products(ctx)
	require.NoError(t, err)

	*f.now = f.now.Add(20 * time.Minute)
	_, err = f.state.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.products.listCalls, "stale entries are served without a background refresh")
}

func TestEvictedReadRefetches(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Products(ctx)
	require.NoError(t, err)

	*f.now = f.now.Add(31 * time.Minute)
	_, err = f.state.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.listCalls)
}

func TestMutationInvalidatesEntityAndDashboard(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Products(ctx)
	require.NoError(t, err)
	_, err = f.state.GetDashboard(ctx)
	require.NoError(t, err)

	_, err = f.state.AddProduct(ctx, product.ProductInput{ProductID: "P-1", Name: "ring", MetalType: "Gold"})
	require.NoError(t, err)

	_, ok := f.cache.Get(KeyProducts)
	assert.False(t, ok)
	_, ok = f.cache.Get(KeyDashboard)
	assert.False(t, ok)

	_, err = f.state.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.listCalls)
}

func TestFailedMutationLeavesCacheIntact(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Products(ctx)
	require.NoError(t, err)

	f.products.createErr = pkgerrors.New(pkgerrors.CodeConflict, "product id already exists")
	_, err = f.state.AddProduct(ctx, product.ProductInput{ProductID: "P-1", Name: "ring", MetalType: "Gold"})
	require.Error(t, err)

	_, ok := f.cache.Get(KeyProducts)
	assert.True(t, ok, "a rejected mutation must not invalidate")
}

func TestMutationDoesNotTouchOtherEntities(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Bills(ctx)
	require.NoError(t, err)

	_, err = f.state.AddCustomer(ctx, customer.CustomerInput{CustomerID: "C-1", Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)

	_, ok := f.cache.Get(KeyBills)
	assert.True(t, ok)
	_, ok = f.cache.Get(KeyCustomers)
	assert.False(t, ok)
}

func TestRefreshDataDropsEverything(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Products(ctx)
	require.NoError(t, err)
	_, err = f.state.Bills(ctx)
	require.NoError(t, err)

	f.state.RefreshData(ctx)
	for _, key := range AllKeys {
		_, ok := f.cache.Get(key)
		assert.False(t, ok, key)
	}
}

func TestDashboardAggregates(t *testing.T) {
	f := newStateFixture(t)
	f.bills.rows = []models.Bill{
		{BillNo: "INV-1", TotalAmount: 56650},
		{BillNo: "INV-2", TotalAmount: 12000},
	}
	f.products.rows = []models.Product{{ProductID: "P-1"}}
	f.inventory.rows = []models.InventoryItem{
		{ProductID: "P-1", CurrentStock: 1, MinimumStock: 2},
		{ProductID: "P-2", CurrentStock: 9, MinimumStock: 2},
	}

	dash, err := f.state.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, dash.ProductCount)
	assert.Equal(t, 2, dash.BillCount)
	assert.Equal(t, 68650.0, dash.TotalRevenue)
	assert.Equal(t, 1, dash.LowStockCount)
	assert.Len(t, dash.RecentBills, 2)
}

func TestOnSaleCompletedInvalidatesBills(t *testing.T) {
	f := newStateFixture(t)
	ctx := context.Background()

	_, err := f.state.Bills(ctx)
	require.NoError(t, err)

	f.state.OnSaleCompleted(ctx)
	_, ok := f.cache.Get(KeyBills)
	assert.False(t, ok)
}
