package enums

import "fmt"

// CustomerStatus represents the loyalty tier recorded per customer.
type CustomerStatus string

const (
	CustomerStatusNew     CustomerStatus = "New"
	CustomerStatusRegular CustomerStatus = "Regular"
	CustomerStatusVIP     CustomerStatus = "VIP"
)

var validCustomerStatuses = []CustomerStatus{
	CustomerStatusNew,
	CustomerStatusRegular,
	CustomerStatusVIP,
}

// String implements fmt.Stringer.
func (s CustomerStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CustomerStatus.
func (s CustomerStatus) IsValid() bool {
	for _, candidate := range validCustomerStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCustomerStatus converts raw input into a CustomerStatus.
func ParseCustomerStatus(value string) (CustomerStatus, error) {
	for _, candidate := range validCustomerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer status %q", value)
}
