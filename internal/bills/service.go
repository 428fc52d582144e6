package bill

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
)

// Service exposes bill history reads and the delete path used to void a
// mistaken entry. New bills come exclusively from the billing engine.
type Service interface {
	ListBills(ctx context.Context) ([]models.Bill, error)
	GetBill(ctx context.Context, billNo string) (*models.Bill, error)
	DeleteBill(ctx context.Context, billNo string) error
}

type service struct {
	repo *Repository
}

// NewService constructs a bill service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bill repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListBills(ctx context.Context) ([]models.Bill, error) {
	rows, err := s.repo.ListBills(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to list bills")
	}
	return rows, nil
}

func (s *service) GetBill(ctx context.Context, billNo string) (*models.Bill, error) {
	row, err := s.repo.FindByBillNo(ctx, billNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to load bill")
	}
	return row, nil
}

func (s *service) DeleteBill(ctx context.Context, billNo string) error {
	if err := s.repo.DeleteBill(ctx, billNo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "bill not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to delete bill")
	}
	return nil
}
