package customer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
)

// Repository persists customers keyed by their natural customer id.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCustomers returns all customers, newest first.
func (r *Repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByCustomerID loads one customer by natural id.
func (r *Repository) FindByCustomerID(ctx context.Context, customerID string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "customer_id = ?", customerID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a new customer row after numeric normalization.
func (r *Repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	customer.Normalize()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer updates the row matching the customer's natural id.
func (r *Repository) UpdateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	customer.Normalize()
	existing, err := r.FindByCustomerID(ctx, customer.CustomerID)
	if err != nil {
		return nil, err
	}
	customer.ID = existing.ID
	customer.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer by natural id.
func (r *Repository) DeleteCustomer(ctx context.Context, customerID string) error {
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAll swaps the entire customer book for the given rows.
func (r *Repository) ReplaceAll(ctx context.Context, rows []models.Customer) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("1 = 1").Delete(&models.Customer{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].Normalize()
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return tx.Create(&rows).Error
}
