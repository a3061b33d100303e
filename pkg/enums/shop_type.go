package enums

import "fmt"

// ShopType classifies a shop's catalog.
type ShopType string

const (
	ShopTypeRestaurant  ShopType = "restaurant"
	ShopTypeSupermarket ShopType = "supermarket"
	ShopTypeAllmart     ShopType = "allmart"
)

var validShopTypes = []ShopType{
	ShopTypeRestaurant,
	ShopTypeSupermarket,
	ShopTypeAllmart,
}

// String implements fmt.Stringer.
func (s ShopType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShopType.
func (s ShopType) IsValid() bool {
	for _, candidate := range validShopTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShopType converts raw input into a ShopType.
func ParseShopType(value string) (ShopType, error) {
	for _, candidate := range validShopTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop type %q", value)
}
