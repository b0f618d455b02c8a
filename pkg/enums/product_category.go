package enums

import "fmt"

// ProductCategory classifies storefront listings.
type ProductCategory string

const (
	CategoryDresses     ProductCategory = "dresses"
	CategoryTops        ProductCategory = "tops"
	CategoryBottoms     ProductCategory = "bottoms"
	CategoryOuterwear   ProductCategory = "outerwear"
	CategoryShoes       ProductCategory = "shoes"
	CategoryBags        ProductCategory = "bags"
	CategoryAccessories ProductCategory = "accessories"
)

var validProductCategories = []ProductCategory{
	CategoryDresses,
	CategoryTops,
	CategoryBottoms,
	CategoryOuterwear,
	CategoryShoes,
	CategoryBags,
	CategoryAccessories,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
