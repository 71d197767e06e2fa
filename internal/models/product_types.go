package models

import (
	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Nullable columns are pointers so they serialize as null instead of empty structs.
type Product struct {
	ID                   int64            `json:"id" db:"id"`
	Cost                 *decimal.Decimal `json:"cost,omitempty" db:"cost"`
	Category             *string          `json:"category,omitempty" db:"category"`
	Name                 *string          `json:"name,omitempty" db:"name"`
	Brand                *string          `json:"brand,omitempty" db:"brand"`
	RetailPrice          *decimal.Decimal `json:"retail_price,omitempty" db:"retail_price"`
	Department           *string          `json:"department,omitempty" db:"department"`
	SKU                  *string          `json:"sku,omitempty" db:"sku"`
	DistributionCenterID *int64           `json:"distribution_center_id,omitempty" db:"distribution_center_id"`
}

// DisplayName returns the product name, or "" when the column is NULL.
func (p Product) DisplayName() string {
	return Deref(p.Name)
}

// ProductSales is one row of the "top products by sales" aggregate.
type ProductSales struct {
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	Category   string `json:"category"`
	SalesCount int64  `json:"sales_count"`
}

// LabelCount is one row of a group-by-count aggregate (categories, brands).
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
