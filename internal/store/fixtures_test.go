package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func exec(t *testing.T, db *database.DB, query string, args ...any) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), db.Rebind(query), args...)
	require.NoError(t, err)
}

var created = time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC)

// seedCatalog loads a small dataset:
//
//	1 Classic T-Shirt (Basics, Tops)   10 inventory rows, 3 sold, 4 order items
//	2 Slim Fit Jeans  (Denimco, Jeans)  2 inventory rows, 0 sold, 2 order items
//	3 Summer Dress    (Basics, Dresses) 1 inventory row,  1 sold, 4 order items
//	4 Wool Socks      (Basics, Tops)    no inventory,               1 order item
//	5 100%_Linen Shirt(NULL brand, NULL category)
func seedCatalog(t *testing.T, db *database.DB) {
	t.Helper()
	products := []struct {
		id              int64
		name            string
		brand, category any
	}{
		{1, "Classic T-Shirt", "Basics", "Tops"},
		{2, "Slim Fit Jeans", "Denimco", "Jeans"},
		{3, "Summer Dress", "Basics", "Dresses"},
		{4, "Wool Socks", "Basics", "Tops"},
		{5, "100%_Linen Shirt", nil, nil},
	}
	for _, p := range products {
		exec(t, db, "INSERT INTO products (id, name, brand, category, cost, retail_price) VALUES (?, ?, ?, ?, ?, ?)",
			p.id, p.name, p.brand, p.category, "12.50", "25.00")
	}

	invID := int64(1)
	addInventory := func(productID int64, total, sold int) {
		for i := 0; i < total; i++ {
			var soldAt any
			if i < sold {
				soldAt = created.Add(time.Duration(i) * time.Hour)
			}
			exec(t, db, "INSERT INTO inventory_items (id, product_id, created_at, sold_at) VALUES (?, ?, ?, ?)",
				invID, productID, created, soldAt)
			invID++
		}
	}
	addInventory(1, 10, 3)
	addInventory(2, 2, 0)
	addInventory(3, 1, 1)

	itemID := int64(1)
	addOrderItems := func(productID int64, n int) {
		for i := 0; i < n; i++ {
			exec(t, db, "INSERT INTO order_items (id, order_id, product_id, status) VALUES (?, ?, ?, ?)",
				itemID, 100+itemID, productID, "Complete")
			itemID++
		}
	}
	addOrderItems(1, 4)
	addOrderItems(2, 2)
	addOrderItems(3, 4)
	addOrderItems(4, 1)

	shipped := created.Add(24 * time.Hour)
	exec(t, db, `INSERT INTO orders (order_id, user_id, status, created_at, shipped_at, num_of_item)
		VALUES (?, ?, ?, ?, ?, ?)`, 12345, 7, "Shipped", created, shipped, 2)
	exec(t, db, `INSERT INTO orders (order_id, status) VALUES (?, ?)`, 777, nil)
}
