package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jewelstack/jewelpos-backend/pkg/db"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/enums"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
)

// Service exposes catalog management operations.
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID string, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// ProductInput holds the payload for create and update. Numeric fields are
// accepted as-is; the repository normalizes malformed values rather than
// rejecting them.
type ProductInput struct {
	ProductID   string  `json:"productId" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category"`
	MetalType   string  `json:"metalType" validate:"required"`
	Carat       string  `json:"carat"`
	WeightGrams float64 `json:"weightGrams"`
	Quantity    int     `json:"quantity"`
	Notes       *string `json:"notes"`
	ImageRef    *string `json:"imageRef"`
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to list products")
	}
	return rows, nil
}

func (input ProductInput) toModel() (*models.Product, error) {
	metal, err := enums.ParseMetalType(input.MetalType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown metal type "+input.MetalType)
	}
	return &models.Product{
		ProductID:   strings.TrimSpace(input.ProductID),
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		MetalType:   metal,
		Carat:       strings.TrimSpace(input.Carat),
		WeightGrams: input.WeightGrams,
		Quantity:    input.Quantity,
		Notes:       input.Notes,
		ImageRef:    input.ImageRef,
	}, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product, err := input.toModel()
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID string, input ProductInput) (*models.Product, error) {
	product, err := input.toModel()
	if err != nil {
		return nil, err
	}
	product.ProductID = productID
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to update product")
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to delete product")
	}
	return nil
}
