package bill

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
)

// Repository persists bills. Bills are write-once: there is no update path,
// only create, list, and delete.
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

// ListBills returns all bills, newest first.
func (r *Repository) ListBills(ctx context.Context) ([]models.Bill, error) {
	var rows []models.Bill
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// FindByBillNo loads one bill.
func (r *Repository) FindByBillNo(ctx context.Context, billNo string) (*models.Bill, error) {
	var row models.Bill
	if err := r.db.WithContext(ctx).First(&row, "bill_no = ?", billNo).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateBill inserts one bill row after numeric normalization.
func (r *Repository) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	bill.Normalize()
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(bill).Error; err != nil {
		return nil, err
	}
	return bill, nil
}

// DeleteBill removes a bill by number.
func (r *Repository) DeleteBill(ctx context.Context, billNo string) error {
	res := r.db.WithContext(ctx).Where("bill_no = ?", billNo).Delete(&models.Bill{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAll swaps the entire bill history for the given rows.
func (r *Repository) ReplaceAll(ctx context.Context, rows []models.Bill) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("1 = 1").Delete(&models.Bill{}).Error; err != nil {
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
