package store_test

import (
	"context"
	"testing"

	"github.com/01moynul/shopassist-golang/internal/models"
	"github.com/01moynul/shopassist-golang/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *store.Catalog {
	t.Helper()
	db := newTestDB(t)
	seedCatalog(t, db)
	return store.NewCatalog(db)
}

func TestCountTotal(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	n, err := c.CountTotal(ctx, store.EntityProducts)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	n, err = c.CountTotal(ctx, store.EntityOrderItems)
	require.NoError(t, err)
	assert.EqualValues(t, 11, n)

	_, err = c.CountTotal(ctx, store.Entity("products; DROP TABLE products"))
	assert.Error(t, err)
}

func TestInventoryCounts(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		productID        int64
		available, total int64
	}{
		{1, 7, 10},
		{2, 2, 2},
		{3, 0, 1},
		{4, 0, 0},
	}
	for _, tt := range tests {
		available, err := c.CountAvailableInventory(ctx, tt.productID)
		require.NoError(t, err)
		total, err := c.CountTotalInventory(ctx, tt.productID)
		require.NoError(t, err)

		assert.Equal(t, tt.available, available, "product %d available", tt.productID)
		assert.Equal(t, tt.total, total, "product %d total", tt.productID)

		counts := models.InventoryCounts{Available: available, Total: total}
		assert.Equal(t, total, counts.Available+counts.Sold())
	}
}

func TestInventorySummary(t *testing.T) {
	c := newCatalog(t)
	s, err := c.InventorySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.InventorySummary{Products: 5, InventoryItems: 13, Available: 9}, s)
}

func TestTopProductsBySales(t *testing.T) {
	c := newCatalog(t)
	top, err := c.TopProductsBySales(context.Background(), 3)
	require.NoError(t, err)

	// Tie between products 1 and 3 is broken by product id.
	assert.Equal(t, []models.ProductSales{
		{Name: "Classic T-Shirt", Brand: "Basics", Category: "Tops", SalesCount: 4},
		{Name: "Summer Dress", Brand: "Basics", Category: "Dresses", SalesCount: 4},
		{Name: "Slim Fit Jeans", Brand: "Denimco", Category: "Jeans", SalesCount: 2},
	}, top)

	all, err := c.TopProductsBySales(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, all, 4, "products without order items are not ranked")
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i].SalesCount, all[i-1].SalesCount)
	}
}

func TestTopCategoriesAndBrands(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	categories, err := c.TopCategories(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []models.LabelCount{
		{Label: "Tops", Count: 2},
		{Label: "Dresses", Count: 1},
		{Label: "Jeans", Count: 1},
	}, categories)

	brands, err := c.TopBrands(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.LabelCount{{Label: "Basics", Count: 3}}, brands)
}

func TestFindOrderByID(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	order, found, err := c.FindOrderByID(ctx, 12345)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 12345, order.OrderID)
	require.NotNil(t, order.Status)
	assert.Equal(t, "Shipped", *order.Status)
	require.NotNil(t, order.CreatedAt)
	assert.True(t, created.Equal(*order.CreatedAt))
	require.NotNil(t, order.ShippedAt)
	assert.Nil(t, order.DeliveredAt)
	assert.Nil(t, order.ReturnedAt)
	require.NotNil(t, order.NumOfItem)
	assert.EqualValues(t, 2, *order.NumOfItem)

	sparse, found, err := c.FindOrderByID(ctx, 777)
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, sparse.Status)
	assert.Nil(t, sparse.CreatedAt)

	_, found, err = c.FindOrderByID(ctx, 99999999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindProductByExactName(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	p, found, err := c.FindProductByExactName(ctx, "Classic T-Shirt")
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, 1, p.ID)
	require.NotNil(t, p.RetailPrice)
	assert.Equal(t, "25", p.RetailPrice.String())

	_, found, err = c.FindProductByExactName(ctx, "classic t-shirt")
	require.NoError(t, err)
	assert.False(t, found, "exact match is case-sensitive")
}

func TestSearchProductsByNameSubstring(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	tests := []struct {
		token  string
		wantID int64
		found  bool
	}{
		{"JEANS", 2, true},
		{"dress", 3, true},
		{"s", 1, true}, // lowest id wins
		{"100%_linen", 5, true},
		{"0%_", 5, true},
		{"%", 5, true},  // literal percent, not a wildcard
		{"_l", 5, true}, // literal underscore
		{"x%y", 0, false},
		{"parka", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			p, found, err := c.SearchProductsByNameSubstring(ctx, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			if tt.found {
				assert.Equal(t, tt.wantID, p.ID)
			}
		})
	}
}

func TestStats(t *testing.T) {
	c := newCatalog(t)
	stats, err := c.Stats(context.Background())
	require.NoError(t, err)

	assert.Len(t, stats, len(store.Entities))
	assert.EqualValues(t, 5, stats[store.EntityProducts])
	assert.EqualValues(t, 13, stats[store.EntityInventoryItems])
	assert.EqualValues(t, 2, stats[store.EntityOrders])
	assert.EqualValues(t, 0, stats[store.EntityMessages])
}
