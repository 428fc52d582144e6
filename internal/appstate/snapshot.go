package appstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	bill "github.com/jewelstack/jewelpos-backend/internal/bills"
	customer "github.com/jewelstack/jewelpos-backend/internal/customers"
	"github.com/jewelstack/jewelpos-backend/internal/inventory"
	product "github.com/jewelstack/jewelpos-backend/internal/products"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/enums"
	pkgerrors "github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
	"github.com/jewelstack/jewelpos-backend/pkg/types"
)

// Snapshot is the full-store backup document. All four collections are
// always present on export, even when empty.
type Snapshot struct {
	ExportedAt time.Time              `json:"exportedAt"`
	Products   []models.Product       `json:"products"`
	Customers  []models.Customer      `json:"customers"`
	Bills      []models.Bill          `json:"bills"`
	Inventory  []models.InventoryItem `json:"inventory"`
}

// ImportSummary reports what a successful import replaced.
type ImportSummary struct {
	Products  int `json:"products"`
	Customers int `json:"customers"`
	Bills     int `json:"bills"`
	Inventory int `json:"inventory"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Snapshotter handles whole-store export and import. Import is replace-all
// and runs in one transaction; a document missing any of the four
// collections is rejected before anything is touched.
type Snapshotter struct {
	dbClient  txRunner
	products  *product.Repository
	customers *customer.Repository
	bills     *bill.Repository
	inventory *inventory.Repository
	state     *State
	logg      *logger.Logger
	now       func() time.Time
}

func NewSnapshotter(
	dbClient txRunner,
	products *product.Repository,
	customers *customer.Repository,
	bills *bill.Repository,
	inv *inventory.Repository,
	state *State,
	logg *logger.Logger,
) (*Snapshotter, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if products == nil || customers == nil || bills == nil || inv == nil {
		return nil, fmt.Errorf("all repositories required")
	}
	if state == nil {
		return nil, fmt.Errorf("state required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Snapshotter{
		dbClient:  dbClient,
		products:  products,
		customers: customers,
		bills:     bills,
		inventory: inv,
		state:     state,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Export assembles the backup document and the date-stamped filename it
// should be saved under.
func (s *Snapshotter) Export(ctx context.Context) (*Snapshot, string, error) {
	products, err := s.state.Products(ctx)
	if err != nil {
		return nil, "", err
	}
	customers, err := s.state.Customers(ctx)
	if err != nil {
		return nil, "", err
	}
	bills, err := s.state.Bills(ctx)
	if err != nil {
		return nil, "", err
	}
	items, err := s.state.Inventory(ctx)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	snap := &Snapshot{
		ExportedAt: now,
		Products:   emptyNotNil(products),
		Customers:  emptyNotNil(customers),
		Bills:      emptyNotNil(bills),
		Inventory:  emptyNotNil(items),
	}
	filename := fmt.Sprintf("jewelpos-backup-%s.json", now.Format("2006-01-02"))
	return snap, filename, nil
}

func emptyNotNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// Import documents carry every numeric field through the flexible decoders:
// backups hand-edited in spreadsheets arrive with quoted numbers, nulls, and
// blanks, and all of those coerce to zero rather than failing the restore.
type importDoc struct {
	Products  *[]importProduct  `json:"products"`
	Customers *[]importCustomer `json:"customers"`
	Bills     *[]importBill     `json:"bills"`
	Inventory *[]importItem     `json:"inventory"`
}

type importProduct struct {
	ProductID   string          `json:"productId"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	MetalType   string          `json:"metalType"`
	Carat       string          `json:"carat"`
	WeightGrams types.FlexFloat `json:"weightGrams"`
	Quantity    types.FlexInt   `json:"quantity"`
	Notes       *string         `json:"notes"`
	ImageRef    *string         `json:"imageRef"`
}

type importCustomer struct {
	CustomerID     string          `json:"customerId"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Email          *string         `json:"email"`
	Status         string          `json:"status"`
	TotalPurchases types.FlexFloat `json:"totalPurchases"`
	LastVisit      *time.Time      `json:"lastVisit"`
}

type importBill struct {
	BillNo              string          `json:"billNo"`
	BillDate            *time.Time      `json:"billDate"`
	CustomerName        string          `json:"customerName"`
	CustomerPhone       string          `json:"customerPhone"`
	ProductID           string          `json:"productId"`
	ProductName         string          `json:"productName"`
	Category            string          `json:"category"`
	MetalType           string          `json:"metalType"`
	Carat               string          `json:"carat"`
	Quantity            types.FlexInt   `json:"quantity"`
	WeightGrams         types.FlexFloat `json:"weightGrams"`
	RatePerGram         types.FlexFloat `json:"ratePerGram"`
	MakingCharges       types.FlexFloat `json:"makingCharges"`
	MakingChargePercent types.FlexFloat `json:"makingChargePercent"`
	GSTPercent          types.FlexFloat `json:"gstPercent"`
	GoldRatePer10g      types.FlexFloat `json:"goldRatePer10g"`
	SilverRatePer10g    types.FlexFloat `json:"silverRatePer10g"`
	TotalAmount         types.FlexFloat `json:"totalAmount"`
}

type importItem struct {
	ProductID    string        `json:"productId"`
	Name         string        `json:"name"`
	Category     string        `json:"category"`
	CurrentStock types.FlexInt `json:"currentStock"`
	MinimumStock types.FlexInt `json:"minimumStock"`
}

// Import validates and restores a backup document, replacing all four
// collections atomically and dropping every cache entry afterwards.
func (s *Snapshotter) Import(ctx context.Context, raw []byte) (*ImportSummary, error) {
	var doc importDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeImportFormat, err, "backup document is not valid JSON")
	}

	var missing error
	if doc.Products == nil {
		missing = multierr.Append(missing, fmt.Errorf("missing key %q", KeyProducts))
	}
	if doc.Customers == nil {
		missing = multierr.Append(missing, fmt.Errorf("missing key %q", KeyCustomers))
	}
	if doc.Bills == nil {
		missing = multierr.Append(missing, fmt.Errorf("missing key %q", KeyBills))
	}
	if doc.Inventory == nil {
		missing = multierr.Append(missing, fmt.Errorf("missing key %q", KeyInventory))
	}
	if missing != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeImportFormat, missing, "backup document is incomplete")
	}

	products := make([]models.Product, 0, len(*doc.Products))
	for _, p := range *doc.Products {
		metal, err := enums.ParseMetalType(p.MetalType)
		if err != nil {
			metal = enums.MetalTypeOther
		}
		products = append(products, models.Product{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Category:    p.Category,
			MetalType:   metal,
			Carat:       p.Carat,
			WeightGrams: p.WeightGrams.Float64(),
			Quantity:    p.Quantity.Int(),
			Notes:       p.Notes,
			ImageRef:    p.ImageRef,
		})
	}

	customers := make([]models.Customer, 0, len(*doc.Customers))
	for _, c := range *doc.Customers {
		status, err := enums.ParseCustomerStatus(c.Status)
		if err != nil {
			status = enums.CustomerStatusNew
		}
		customers = append(customers, models.Customer{
			CustomerID:     c.CustomerID,
			Name:           c.Name,
			Phone:          c.Phone,
			Email:          c.Email,
			Status:         status,
			TotalPurchases: c.TotalPurchases.Float64(),
			LastVisit:      c.LastVisit,
		})
	}

	bills := make([]models.Bill, 0, len(*doc.Bills))
	for _, b := range *doc.Bills {
		metal, err := enums.ParseMetalType(b.MetalType)
		if err != nil {
			metal = enums.MetalTypeOther
		}
		billDate := s.now()
		if b.BillDate != nil {
			billDate = *b.BillDate
		}
		bills = append(bills, models.Bill{
			BillNo:              b.BillNo,
			BillDate:            billDate,
			CustomerName:        b.CustomerName,
			CustomerPhone:       b.CustomerPhone,
			ProductID:           b.ProductID,
			ProductName:         b.ProductName,
			Category:            b.Category,
			MetalType:           metal,
			Carat:               b.Carat,
			Quantity:            b.Quantity.Int(),
			WeightGrams:         b.WeightGrams.Float64(),
			RatePerGram:         b.RatePerGram.Float64(),
			MakingCharges:       b.MakingCharges.Float64(),
			MakingChargePercent: b.MakingChargePercent.Float64(),
			GSTPercent:          b.GSTPercent.Float64(),
			GoldRatePer10g:      b.GoldRatePer10g.Float64(),
			SilverRatePer10g:    b.SilverRatePer10g.Float64(),
			TotalAmount:         b.TotalAmount.Float64(),
		})
	}

	items := make([]models.InventoryItem, 0, len(*doc.Inventory))
	for _, i := range *doc.Inventory {
		items = append(items, models.InventoryItem{
			ProductID:    i.ProductID,
			Name:         i.Name,
			Category:     i.Category,
			CurrentStock: i.CurrentStock.Int(),
			MinimumStock: i.MinimumStock.Int(),
		})
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.products.WithTx(tx).ReplaceAll(ctx, products); err != nil {
			return err
		}
		if err := s.customers.WithTx(tx).ReplaceAll(ctx, customers); err != nil {
			return err
		}
		if err := s.bills.WithTx(tx).ReplaceAll(ctx, bills); err != nil {
			return err
		}
		return s.inventory.WithTx(tx).ReplaceAll(ctx, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeRepository, err, "failed to restore backup")
	}

	s.state.RefreshData(ctx)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"products": len(products), "customers": len(customers),
		"bills": len(bills), "inventory": len(items),
	}), "backup imported")

	return &ImportSummary{
		Products:  len(products),
		Customers: len(customers),
		Bills:     len(bills),
		Inventory: len(items),
	}, nil
}
