package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
)

// Service exposes stock record management. Stock records live beside the
// catalog and are not reconciled with it automatically; Reconcile produces
// the explicit drift report instead.
type Service interface {
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	UpsertItem(ctx context.Context, input ItemInput) (*models.InventoryItem, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	Reconcile(ctx context.Context) ([]Drift, error)
}

// ItemInput holds the payload for creating or updating a stock record.
type ItemInput struct {
	ProductID    string `json:"productId" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category"`
	CurrentStock int    `json:"currentStock"`
	MinimumStock int    `json:"minimumStock"`
}

// Drift is one catalog/stock disagreement found by Reconcile.
type Drift struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	CatalogQty    int    `json:"catalogQty"`
	InventoryQty  int    `json:"inventoryQty"`
	MissingRecord bool   `json:"missingRecord"`
}

type catalogReader interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo    *Repository
	catalog catalogReader
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, catalog catalogReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

func (s *service) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to list inventory")
	}
	return rows, nil
}

func (s *service) UpsertItem(ctx context.Context, input ItemInput) (*models.InventoryItem, error) {
	productID := strings.TrimSpace(input.ProductID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	item, err := s.repo.UpsertItem(ctx, &models.InventoryItem{
		ProductID:    productID,
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.TrimSpace(input.Category),
		CurrentStock: input.CurrentStock,
		MinimumStock: input.MinimumStock,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to save inventory item")
	}
	return item, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]models.InventoryItem, 0)
	for _, item := range rows {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// Reconcile compares catalog quantities against stock records and reports
// every product whose figures disagree or whose stock record is missing.
func (s *service) Reconcile(ctx context.Context) ([]Drift, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to load catalog for reconciliation")
	}
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to load inventory for reconciliation")
	}

	byProduct := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		byProduct[item.ProductID] = item
	}

	var drifts []Drift
	for _, p := range products {
		item, ok := byProduct[p.ProductID]
		if !ok {
			drifts = append(drifts, Drift{
				ProductID:     p.ProductID,
				Name:          p.Name,
				CatalogQty:    p.Quantity,
				MissingRecord: true,
			})
			continue
		}
		if item.CurrentStock != p.Quantity {
			drifts = append(drifts, Drift{
				ProductID:    p.ProductID,
				Name:         p.Name,
				CatalogQty:   p.Quantity,
				InventoryQty: item.CurrentStock,
			})
		}
	}
	return drifts, nil
}
