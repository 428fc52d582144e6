package enums

import (
	"fmt"
	"strings"
)

// MetalType represents the metal families the catalog prices against.
type MetalType string

const (
	MetalTypeGold     MetalType = "Gold"
	MetalTypeSilver   MetalType = "Silver"
	MetalTypePlatinum MetalType = "Platinum"
	MetalTypeOther    MetalType = "Other"
)

var validMetalTypes = []MetalType{
	MetalTypeGold,
	MetalTypeSilver,
	MetalTypePlatinum,
	MetalTypeOther,
}

// String implements fmt.Stringer.
func (m MetalType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MetalType.
func (m MetalType) IsValid() bool {
	for _, candidate := range validMetalTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ContainsGold reports whether the metal label references gold. Matching is a
// case-insensitive substring check so labels like "gold 22K" still price
// against the gold rate.
func (m MetalType) ContainsGold() bool {
	return strings.Contains(strings.ToLower(string(m)), "gold")
}

// ContainsSilver reports whether the metal label references silver.
func (m MetalType) ContainsSilver() bool {
	return strings.Contains(strings.ToLower(string(m)), "silver")
}

// ParseMetalType converts raw input into a MetalType.
func ParseMetalType(value string) (MetalType, error) {
	for _, candidate := range validMetalTypes {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid metal type %q", value)
}
