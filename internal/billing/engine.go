package billing

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jewelstack/jewelpos-backend/internal/rates"
	"github.com/jewelstack/jewelpos-backend/pkg/db/models"
	"github.com/jewelstack/jewelpos-backend/pkg/errors"
	"github.com/jewelstack/jewelpos-backend/pkg/logger"
	"github.com/jewelstack/jewelpos-backend/pkg/metrics"
)

// BillWriter persists a single bill. Implemented by the bills repository.
type BillWriter interface {
	CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error)
}

// Customer identifies who the sale is billed to.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// SaleResult reports what was persisted. On a partial failure the slices
// hold only the bills that made it to the database.
type SaleResult struct {
	Bills       []models.Bill `json:"bills"`
	BillNos     []string      `json:"billNos"`
	TotalAmount float64       `json:"totalAmount"`
}

// Engine turns a cart plus a billing context into persisted bills, one bill
// per cart line.
type Engine struct {
	bills    BillWriter
	metrics  *metrics.SaleMetrics
	logg     *logger.Logger
	now      func() time.Time
	nextBill func(t time.Time) string
}

func NewEngine(bills BillWriter, m *metrics.SaleMetrics, logg *logger.Logger) (*Engine, error) {
	if bills == nil {
		return nil, errors.New(errors.CodeInternal, "billing engine requires a bill writer")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "billing engine requires a logger")
	}
	return &Engine{
		bills:    bills,
		metrics:  m,
		logg:     logg,
		now:      time.Now,
		nextBill: generateBillNo,
	}, nil
}

// generateBillNo builds a bill number from the wall clock plus a random
// suffix, so numbers sort by sale time while staying unique within a batch.
func generateBillNo(t time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", t.Format("20060102150405"), rand.Intn(10000))
}

const (
	rejectEmptyCart  = "empty_cart"
	rejectCustomer   = "missing_customer"
	rejectGoldRate   = "missing_gold_rate"
	rejectSilverRate = "missing_silver_rate"
)

// validate checks the sale inputs in a fixed order and returns the first
// failure: cart, then customer, then gold rate, then silver rate. Metal
// rate checks only fire for metals actually present in the cart.
func (e *Engine) validate(lines []CartLine, bctx Context, cust Customer) error {
	if len(lines) == 0 {
		e.metrics.IncRejected(rejectEmptyCart)
		return errors.New(errors.CodeValidation, "cart is empty")
	}
	if cust.Name == "" || cust.Phone == "" {
		e.metrics.IncRejected(rejectCustomer)
		return errors.New(errors.CodeValidation, "customer name and phone are required")
	}

	needGold, needSilver := false, false
	for _, line := range lines {
		if line.Product.MetalType.ContainsGold() {
			needGold = true
		}
		if line.Product.MetalType.ContainsSilver() {
			needSilver = true
		}
	}
	if needGold && bctx.GoldRatePer10g <= 0 {
		e.metrics.IncRejected(rejectGoldRate)
		return errors.New(errors.CodeValidation, "gold rate is required for gold items")
	}
	if needSilver && bctx.SilverRatePer10g <= 0 {
		e.metrics.IncRejected(rejectSilverRate)
		return errors.New(errors.CodeValidation, "silver rate is required for silver items")
	}
	return nil
}

// ratePerGram derives the charged rate for one line. Operator overrides win;
// otherwise gold lines take the 10g gold rate scaled by carat purity, silver
// lines take the 10g silver rate, and anything else prices at zero until an
// override is supplied.
func ratePerGram(line CartLine, bctx Context, overrides map[string]float64) float64 {
	if r, ok := overrides[line.Product.ProductID]; ok {
		return r
	}
	switch {
	case line.Product.MetalType.ContainsGold():
		return bctx.GoldRatePer10g / 10 * rates.PurityFactor(line.Product.Carat)
	case line.Product.MetalType.ContainsSilver():
		return bctx.SilverRatePer10g / 10
	default:
		return 0
	}
}

// buildDrafts prices every cart line and returns the unsaved bills in cart
// order. The persisted weight is the unit weight scaled by quantity, and
// each bill carries its own making charge and GST computed from its line.
func (e *Engine) buildDrafts(lines []CartLine, bctx Context, cust Customer, overrides map[string]float64) []models.Bill {
	now := e.now()
	drafts := make([]models.Bill, 0, len(lines))
	for _, line := range lines {
		rate := ratePerGram(line, bctx, overrides)
		weight := line.Product.WeightGrams * float64(line.Quantity)

		subtotal := LineAmount(weight, rate)
		making := MakingCharges(subtotal, bctx.MakingChargePercent)
		gst := GST(GSTBase(subtotal, making), bctx.GSTPercent)
		total := Total(subtotal, making, gst)

		drafts = append(drafts, models.Bill{
			BillNo:              e.nextBill(now),
			BillDate:            now,
			CustomerName:        cust.Name,
			CustomerPhone:       cust.Phone,
			ProductID:           line.Product.ProductID,
			ProductName:         line.Product.Name,
			Category:            line.Product.Category,
			MetalType:           line.Product.MetalType,
			Carat:               line.Product.Carat,
			Quantity:            line.Quantity,
			WeightGrams:         weight,
			RatePerGram:         rate,
			MakingCharges:       RoundMoney(making).InexactFloat64(),
			MakingChargePercent: bctx.MakingChargePercent,
			GSTPercent:          bctx.GSTPercent,
			GoldRatePer10g:      bctx.GoldRatePer10g,
			SilverRatePer10g:    bctx.SilverRatePer10g,
			TotalAmount:         RoundMoney(total).InexactFloat64(),
		})
	}
	return drafts
}

// PreviewTotals prices the cart against the billing context without
// persisting anything. Overrides are not applied; previews show list pricing.
func PreviewTotals(lines []CartLine, bctx Context) Totals {
	priced := make([]LinePrice, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, LinePrice{
			WeightGrams: line.Product.WeightGrams,
			RatePerGram: ratePerGram(line, bctx, nil),
			Quantity:    line.Quantity,
		})
	}
	return ComputeTotals(priced, bctx.MakingChargePercent, bctx.GSTPercent)
}

// CompleteSale validates the sale, builds one bill per cart line, and
// persists the bills sequentially in cart order. Submission stops at the
// first repository failure: if no bill was persisted the whole sale fails,
// otherwise a partial-submission error reports exactly how many made it so
// the caller never tells the operator nothing was recorded.
func (e *Engine) CompleteSale(ctx context.Context, lines []CartLine, bctx Context, cust Customer, overrides map[string]float64) (*SaleResult, error) {
	start := e.now()
	if err := e.validate(lines, bctx, cust); err != nil {
		return nil, err
	}

	drafts := e.buildDrafts(lines, bctx, cust, overrides)
	result := &SaleResult{}
	for i := range drafts {
		lctx := e.logg.WithBillNo(ctx, drafts[i].BillNo)
		saved, err := e.bills.CreateBill(lctx, &drafts[i])
		if err != nil {
			e.logg.Error(lctx, "bill submission failed mid-sale", err)
			if len(result.Bills) == 0 {
				e.metrics.IncRejected("repository_error")
				return nil, errors.Wrap(errors.CodeRepository, err, "failed to record sale")
			}
			e.metrics.IncPartialFailure()
			e.metrics.AddSubmitted(len(result.Bills))
			return result, errors.Wrap(errors.CodePartialSubmission, err,
				fmt.Sprintf("%d of %d bills persisted; remaining items were not recorded", len(result.Bills), len(drafts)),
			).WithDetails(map[string]any{
				"submittedBillNos": result.BillNos,
				"failedProductId":  drafts[i].ProductID,
			})
		}
		result.Bills = append(result.Bills, *saved)
		result.BillNos = append(result.BillNos, saved.BillNo)
		result.TotalAmount += saved.TotalAmount
	}

	e.metrics.AddSubmitted(len(result.Bills))
	e.metrics.ObserveDuration(e.now().Sub(start))
	e.logg.Info(e.logg.WithField(ctx, "bills", len(result.Bills)), "sale completed")
	return result, nil
}
