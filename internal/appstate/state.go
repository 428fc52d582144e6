package appstate

import (
	"context"
	"fmt"

	bill "github.com/jewelstack/jewelpos-backend/internal/bills"
	customer "github.com/jewelstack/jewelpos-backend/internal/customers"
	"github.com/jewelstack/jewelpos-backend/internal/inventory"
	product "github.com/jewelstack/jewelpos-backend/internal/products"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
)

// State is the single coordination point between the API and persistence.
// All reads go through the cache; all mutations go through the underlying
// services and invalidate the touched entity plus the dashboard, but only
// after the mutation succeeded. A failed mutation leaves the cache exactly
// as it was.
type State struct {
	products  product.Service
	customers customer.Service
	bills     bill.Service
	inventory inventory.Service
	cache     *Cache
	logg      *logger.Logger
}

func NewState(
	products product.Service,
	customers customer.Service,
	bills bill.Service,
	inv inventory.Service,
	cache *Cache,
	logg *logger.Logger,
) (*State, error) {
	if products == nil || customers == nil || bills == nil || inv == nil {
		return nil, fmt.Errorf("all entity services required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &State{
		products:  products,
		customers: customers,
		bills:     bills,
		inventory: inv,
		cache:     cache,
		logg:      logg,
	}, nil
}

// Products returns the catalog through the cache.
func (s *State) Products(ctx context.Context) ([]models.Product, error) {
	if cached, ok := s.cache.Get(KeyProducts); ok {
		return cached.([]models.Product), nil
	}
	rows, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(KeyProducts, rows)
	return rows, nil
}

// Customers returns the customer book through the cache.
func (s *State) Customers(ctx context.Context) ([]models.Customer, error) {
	if cached, ok := s.cache.Get(KeyCustomers); ok {
		return cached.([]models.Customer), nil
	}
	rows, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(KeyCustomers, rows)
	return rows, nil
}

// Bills returns the bill history through the cache.
func (s *State) Bills(ctx context.Context) ([]models.Bill, error) {
	if cached, ok := s.cache.Get(KeyBills); ok {
		return cached.([]models.Bill), nil
	}
	rows, err := s.bills.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(KeyBills, rows)
	return rows, nil
}

// Inventory returns the stock records through the cache.
func (s *State) Inventory(ctx context.Context) ([]models.InventoryItem, error) {
	if cached, ok := s.cache.Get(KeyInventory); ok {
		return cached.([]models.InventoryItem), nil
	}
	rows, err := s.inventory.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Put(KeyInventory, rows)
	return rows, nil
}

func (s *State) invalidated(ctx context.Context, keys ...string) {
	s.cache.Invalidate(append(keys, KeyDashboard)...)
	s.logg.Info(s.logg.WithField(ctx, "keys", keys), "cache invalidated after mutation")
}

// AddProduct creates a catalog entry and invalidates the product cache.
func (s *State) AddProduct(ctx context.Context, input product.ProductInput) (*models.Product, error) {
	created, err := s.products.CreateProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidated(ctx, KeyProducts)
	return created, nil
}

// UpdateProduct updates a catalog entry and invalidates the product cache.
func (s *State) UpdateProduct(ctx context.Context, productID string, input product.ProductInput) (*models.Product, error) {
	updated, err := s.products.UpdateProduct(ctx, productID, input)
	if err != nil {
		return nil, err
	}
	s.invalidated(ctx, KeyProducts)
	return updated, nil
}

// DeleteProduct removes a catalog entry and invalidates the product cache.
func (s *State) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.invalidated(ctx, KeyProducts)
	return nil
}

// AddCustomer creates a customer and invalidates the customer cache.
func (s *State) AddCustomer(ctx context.Context, input customer.CustomerInput) (*models.Customer, error) {
	created, err := s.customers.CreateCustomer(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidated(ctx, KeyCustomers)
	return created, nil
}

// UpdateCustomer updates a customer and invalidates the customer cache.
func (s *State) UpdateCustomer(ctx context.Context, customerID string, input customer.CustomerInput) (*models.Customer, error) {
	updated, err := s.customers.UpdateCustomer(ctx, customerID, input)
	if err != nil {
		return nil, err
	}
	s.invalidated(ctx, KeyCustomers)
	return updated, nil
}

// DeleteCustomer removes a customer and invalidates the customer cache.
func (s *State) DeleteCustomer(ctx context.Context, customerID string) error {
	if err := s.customers.DeleteCustomer(ctx, customerID); err != nil {
		return err
	}
	s.invalidated(ctx, KeyCustomers)
	return nil
}

// DeleteBill voids a bill and invalidates the bill cache.
func (s *State) DeleteBill(ctx context.Context, billNo string) error {
	if err := s.bills.DeleteBill(ctx, billNo); err != nil {
		return err
	}
	s.invalidated(ctx, KeyBills)
	return nil
}

// UpsertInventory saves a stock record and invalidates the inventory cache.
func (s *State) UpsertInventory(ctx context.Context, input inventory.ItemInput) (*models.InventoryItem, error) {
	item, err := s.inventory.UpsertItem(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidated(ctx, KeyInventory)
	return item, nil
}

// OnSaleCompleted invalidates everything a finished sale touches. The
// billing engine persists bills directly, so the cache only learns about
// them here.
func (s *State) OnSaleCompleted(ctx context.Context) {
	s.invalidated(ctx, KeyBills)
}

// RefreshData drops every cache entry so the next reads hit the database.
func (s *State) RefreshData(ctx context.Context) {
	s.cache.InvalidateAll()
	s.logg.Info(ctx, "cache fully invalidated on manual refresh")
}

// Dashboard is the aggregate view for the landing screen.
type Dashboard struct {
	ProductCount  int           `json:"productCount"`
	CustomerCount int           `json:"customerCount"`
	BillCount     int           `json:"billCount"`
	TotalRevenue  float64       `json:"totalRevenue"`
	LowStockCount int           `json:"lowStockCount"`
	RecentBills   []models.Bill `json:"recentBills"`
}

// GetDashboard computes the aggregate from the cached collections, caching
// the result under its own key.
func (s *State) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if cached, ok := s.cache.Get(KeyDashboard); ok {
		return cached.(*Dashboard), nil
	}

	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.Customers(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.Bills(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		ProductCount:  len(products),
		CustomerCount: len(customers),
		BillCount:     len(bills),
	}
	for _, b := range bills {
		dash.TotalRevenue += b.TotalAmount
	}
	for _, item := range items {
		if item.LowStock() {
			dash.LowStockCount++
		}
	}
	recent := bills
	if len(recent) > 5 {
		recent = recent[:5]
	}
	dash.RecentBills = append([]models.Bill(nil), recent...)

	s.cache.Put(KeyDashboard, dash)
	return dash, nil
}
