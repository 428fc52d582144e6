package billing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsGoldChain(t *testing.T) {
	// 10g of gold at 5000/g, 10% making, 3% GST.
	lines := []LinePrice{{WeightGrams: 10, RatePerGram: 5000, Quantity: 1}}
	totals := ComputeTotals(lines, 10, 3)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(50000)), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.MakingCharges.Equal(decimal.NewFromInt(5000)), "making %s", totals.MakingCharges)
	assert.True(t, totals.GST.Equal(decimal.NewFromInt(1650)), "gst %s", totals.GST)
	assert.Equal(t, "56650.00", RoundMoney(totals.Total).StringFixed(2))
}

func TestGSTBaseIncludesMaking(t *testing.T) {
	subtotal := decimal.NewFromInt(1000)
	making := MakingCharges(subtotal, 10)
	withMaking := GST(GSTBase(subtotal, making), 3)
	withoutMaking := GST(subtotal, 3)
	assert.True(t, withMaking.GreaterThan(withoutMaking))
	assert.Equal(t, "33.00", RoundMoney(withMaking).StringFixed(2))
}

func TestSubtotalScalesByQuantity(t *testing.T) {
	one := Subtotal([]LinePrice{{WeightGrams: 2.5, RatePerGram: 80, Quantity: 1}})
	three := Subtotal([]LinePrice{{WeightGrams: 2.5, RatePerGram: 80, Quantity: 3}})
	assert.True(t, three.Equal(one.Mul(decimal.NewFromInt(3))))
}

func TestMalformedInputsCoerceToZero(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -4} {
		assert.True(t, LineAmount(v, 5000).IsZero(), "weight %v", v)
		assert.True(t, LineAmount(10, v).IsZero(), "rate %v", v)
	}

	totals := ComputeTotals([]LinePrice{{WeightGrams: math.NaN(), RatePerGram: 5000, Quantity: 2}}, math.NaN(), 3)
	assert.True(t, totals.Total.IsZero())
}

func TestNegativeQuantityContributesNothing(t *testing.T) {
	sum := Subtotal([]LinePrice{
		{WeightGrams: 10, RatePerGram: 100, Quantity: -2},
		{WeightGrams: 1, RatePerGram: 100, Quantity: 1},
	})
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
}

func TestTotalMonotonicInEachInput(t *testing.T) {
	base := struct {
		weight, rate, making, gst float64
	}{8, 5000, 10, 3}

	total := func(weight, rate, making, gst float64) decimal.Decimal {
		totals := ComputeTotals([]LinePrice{{WeightGrams: weight, RatePerGram: rate, Quantity: 1}}, making, gst)
		return totals.Total
	}

	axes := []struct {
		name   string
		sweep  []float64
		totals func(v float64) decimal.Decimal
	}{
		{"weight", []float64{0, 0.5, 8, 250}, func(v float64) decimal.Decimal {
			return total(v, base.rate, base.making, base.gst)
		}},
		{"rate", []float64{0, 100, 1000, 5000, 9999.99}, func(v float64) decimal.Decimal {
			return total(base.weight, v, base.making, base.gst)
		}},
		{"makingPercent", []float64{0, 5, 10, 35}, func(v float64) decimal.Decimal {
			return total(base.weight, base.rate, v, base.gst)
		}},
		{"gstPercent", []float64{0, 3, 12, 28}, func(v float64) decimal.Decimal {
			return total(base.weight, base.rate, base.making, v)
		}},
	}

	for _, axis := range axes {
		prev := decimal.NewFromInt(-1)
		for _, v := range axis.sweep {
			got := axis.totals(v)
			require.True(t, got.GreaterThanOrEqual(prev), "%s %v: %s < %s", axis.name, v, got, prev)
			prev = got
		}
	}
}

func TestRoundMoneyOnlyAtPersistence(t *testing.T) {
	// 1.005 * 3 keeps its exact value until the final rounding.
	lines := []LinePrice{{WeightGrams: 1.005, RatePerGram: 3, Quantity: 1}}
	totals := ComputeTotals(lines, 0, 0)
	assert.Equal(t, "3.015", totals.Total.String())
	assert.Equal(t, "3.02", RoundMoney(totals.Total).StringFixed(2))
}
