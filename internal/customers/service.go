package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jewelstack/jewelpos-backend/pkg/db"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/enums"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
)

// Service exposes customer book management.
type Service interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, input CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}

// CustomerInput holds the payload for create and update.
type CustomerInput struct {
	CustomerID     string     `json:"customerId" validate:"required"`
	Name           string     `json:"name" validate:"required"`
	Phone          string     `json:"phone" validate:"required"`
	Email          *string    `json:"email"`
	Status         string     `json:"status"`
	TotalPurchases float64    `json:"totalPurchases"`
	LastVisit      *time.Time `json:"lastVisit"`
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to list customers")
	}
	return rows, nil
}

func (input CustomerInput) toModel() (*models.Customer, error) {
	status := enums.CustomerStatusNew
	if input.Status != "" {
		parsed, err := enums.ParseCustomerStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown customer status "+input.Status)
		}
		status = parsed
	}
	return &models.Customer{
		CustomerID:     strings.TrimSpace(input.CustomerID),
		Name:           strings.TrimSpace(input.Name),
		Phone:          strings.TrimSpace(input.Phone),
		Email:          input.Email,
		Status:         status,
		TotalPurchases: input.TotalPurchases,
		LastVisit:      input.LastVisit,
	}, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	customer, err := input.toModel()
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to create customer")
	}
	return created, nil
}

func (s *service) UpdateCustomer(ctx context.Context, customerID string, input CustomerInput) (*models.Customer, error) {
	customer, err := input.toModel()
	if err != nil {
		return nil, err
	}
	customer.CustomerID = customerID
	updated, err := s.repo.UpdateCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to update customer")
	}
	return updated, nil
}

func (s *service) DeleteCustomer(ctx context.Context, customerID string) error {
	if err := s.repo.DeleteCustomer(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to delete customer")
	}
	return nil
}
