package rates

import (
	"strconv"
	"strings"
)

// PurityFactor maps a carat label to the fraction of pure metal, used to
// scale a 24K spot rate down to the rate actually charged for an alloy.
// Unrecognized labels fall back to 1.0 so a missing carat never silently
// discounts a sale.
func PurityFactor(carat string) float64 {
	label := strings.ToUpper(strings.TrimSpace(carat))
	label = strings.TrimSuffix(label, "K")
	label = strings.TrimSuffix(label, "KT")
	label = strings.TrimSpace(label)
	if label == "" {
		return 1.0
	}
	k, err := strconv.ParseFloat(label, 64)
	if err != nil || k <= 0 || k > 24 {
		return 1.0
	}
	return k / 24.0
}
