package billing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Money arithmetic for invoice computation. All functions are pure and treat
// malformed inputs (NaN, infinities, negatives) as zero rather than erroring:
// a half-typed rate at the counter must never crash a sale in progress.
//
// Nothing here rounds. Rounding to two decimal places happens once, at the
// point of persistence, via RoundMoney.

// GSTOnSubtotalPlusMaking documents the tax base ordering: GST is charged on
// subtotal plus making charges, not on the subtotal alone.

func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// LineAmount returns weight * rate with no rounding.
func LineAmount(weightGrams, ratePerGram float64) decimal.Decimal {
	return toDecimal(weightGrams).Mul(toDecimal(ratePerGram))
}

// LinePrice is one priced cart line: its weight, the per-gram rate actually
// charged, and the quantity sold.
type LinePrice struct {
	WeightGrams float64
	RatePerGram float64
	Quantity    int
}

// Subtotal sums line amounts scaled by quantity across the cart.
func Subtotal(lines []LinePrice) decimal.Decimal {
	sum := decimal.Zero
	for _, line := range lines {
		qty := line.Quantity
		if qty < 0 {
			qty = 0
		}
		amount := LineAmount(line.WeightGrams, line.RatePerGram).Mul(decimal.NewFromInt(int64(qty)))
		sum = sum.Add(amount)
	}
	return sum
}

// MakingCharges returns subtotal * percent / 100.
func MakingCharges(subtotal decimal.Decimal, percent float64) decimal.Decimal {
	return subtotal.Mul(toDecimal(percent)).Div(decimal.NewFromInt(100))
}

// GST returns base * percent / 100. The base must be subtotal plus making
// charges; callers use GSTBase to build it.
func GST(base decimal.Decimal, percent float64) decimal.Decimal {
	return base.Mul(toDecimal(percent)).Div(decimal.NewFromInt(100))
}

// GSTBase returns the taxable base: subtotal plus making charges.
func GSTBase(subtotal, making decimal.Decimal) decimal.Decimal {
	return subtotal.Add(making)
}

// Total returns subtotal + making + gst, unrounded.
func Total(subtotal, making, gst decimal.Decimal) decimal.Decimal {
	return subtotal.Add(making).Add(gst)
}

// RoundMoney rounds to two decimal places, half away from zero. Applied only
// to the persisted total; intermediate values stay exact.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Totals bundles the derived amounts for one invoice computation.
type Totals struct {
	Subtotal      decimal.Decimal
	MakingCharges decimal.Decimal
	GST           decimal.Decimal
	Total         decimal.Decimal
}

// ComputeTotals runs the full invoice formula over priced lines.
func ComputeTotals(lines []LinePrice, makingPercent, gstPercent float64) Totals {
	subtotal := Subtotal(lines)
	making := MakingCharges(subtotal, makingPercent)
	gst := GST(GSTBase(subtotal, making), gstPercent)
	return Totals{
		Subtotal:      subtotal,
		MakingCharges: making,
		GST:           gst,
		Total:         Total(subtotal, making, gst),
	}
}
