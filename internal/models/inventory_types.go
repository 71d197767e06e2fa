package models

// InventoryCounts is the per-product stock breakdown. Available + Sold == Total.
type InventoryCounts struct {
	Available int64 `json:"available"`
	Total     int64 `json:"total"`
}

// Sold is the number of units with sold_at set.
func (c InventoryCounts) Sold() int64 {
	return c.Total - c.Available
}

// InventorySummary is the catalog-wide inventory snapshot used for grounding context.
type InventorySummary struct {
	Products       int64 `json:"products"`
	InventoryItems int64 `json:"inventory_items"`
	Available      int64 `json:"available"`
}
