package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/01moynul/shopassist-golang/internal/models"
)

// Entity names a countable table of the dataset.
type Entity string

const (
	EntityUsers               Entity = "users"
	EntityConversations       Entity = "conversations"
	EntityMessages            Entity = "messages"
	EntityProducts            Entity = "products"
	EntityOrders              Entity = "orders"
	EntityOrderItems          Entity = "order_items"
	EntityInventoryItems      Entity = "inventory_items"
	EntityUserData            Entity = "user_data"
	EntityDistributionCenters Entity = "distribution_centers"
)

// Entities lists every countable entity in reporting order.
var Entities = []Entity{
	EntityUsers, EntityConversations, EntityMessages,
	EntityProducts, EntityOrders, EntityOrderItems,
	EntityInventoryItems, EntityUserData, EntityDistributionCenters,
}

// Catalog is the read-only query facade over products, orders, order items
// and inventory. It is constructed once at startup on the read-only pool and
// shared by every request.
type Catalog struct {
	db *database.DB
}

// NewCatalog wraps a (preferably read-only) connection pool.
func NewCatalog(db *database.DB) *Catalog {
	return &Catalog{db: db}
}

// CountTotal returns the number of rows of an entity.
func (c *Catalog) CountTotal(ctx context.Context, entity Entity) (int64, error) {
	if !knownEntity(entity) {
		return 0, fmt.Errorf("unknown entity %q", entity)
	}
	var n int64
	// entity is whitelisted above, so formatting it into the query is safe.
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", entity)
	if err := c.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", entity, err)
	}
	return n, nil
}

// CountTotalInventory returns the number of inventory rows of a product.
func (c *Catalog) CountTotalInventory(ctx context.Context, productID int64) (int64, error) {
	var n int64
	query := c.db.Rebind("SELECT COUNT(*) FROM inventory_items WHERE product_id = ?")
	if err := c.db.QueryRowContext(ctx, query, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting inventory for product %d: %w", productID, err)
	}
	return n, nil
}

// CountAvailableInventory returns the number of unsold inventory rows of a product.
func (c *Catalog) CountAvailableInventory(ctx context.Context, productID int64) (int64, error) {
	var n int64
	query := c.db.Rebind("SELECT COUNT(*) FROM inventory_items WHERE product_id = ? AND sold_at IS NULL")
	if err := c.db.QueryRowContext(ctx, query, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting available inventory for product %d: %w", productID, err)
	}
	return n, nil
}

// InventorySummary returns catalog-wide product and inventory totals.
func (c *Catalog) InventorySummary(ctx context.Context) (models.InventorySummary, error) {
	var s models.InventorySummary
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM inventory_items),
			(SELECT COUNT(*) FROM inventory_items WHERE sold_at IS NULL)`
	if err := c.db.QueryRowContext(ctx, query).Scan(&s.Products, &s.InventoryItems, &s.Available); err != nil {
		return s, fmt.Errorf("summarizing inventory: %w", err)
	}
	return s, nil
}

// TopProductsBySales returns products ranked by number of order items,
// most sold first. Ties keep catalog order.
func (c *Catalog) TopProductsBySales(ctx context.Context, limit int) ([]models.ProductSales, error) {
	query := c.db.Rebind(`
		SELECT p.name, p.brand, p.category, COUNT(oi.id) AS sales_count
		FROM products p
		JOIN order_items oi ON p.id = oi.product_id
		GROUP BY p.name, p.brand, p.category
		ORDER BY sales_count DESC, MIN(p.id) ASC
		LIMIT ?`)

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}
	defer rows.Close()

	var out []models.ProductSales
	for rows.Next() {
		var name, brand, category sql.NullString
		var row models.ProductSales
		if err := rows.Scan(&name, &brand, &category, &row.SalesCount); err != nil {
			return nil, fmt.Errorf("scanning top product: %w", err)
		}
		row.Name, row.Brand, row.Category = name.String, brand.String, category.String
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top products: %w", err)
	}
	return out, nil
}

// TopCategories returns non-null categories ranked by product count.
func (c *Catalog) TopCategories(ctx context.Context, limit int) ([]models.LabelCount, error) {
	return c.topLabels(ctx, "category", limit)
}

// TopBrands returns non-null brands ranked by product count.
func (c *Catalog) TopBrands(ctx context.Context, limit int) ([]models.LabelCount, error) {
	return c.topLabels(ctx, "brand", limit)
}

// topLabels groups products by a fixed column. column is never user input.
func (c *Catalog) topLabels(ctx context.Context, column string, limit int) ([]models.LabelCount, error) {
	query := c.db.Rebind(fmt.Sprintf(`
		SELECT %[1]s, COUNT(id) AS product_count
		FROM products
		WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s
		ORDER BY product_count DESC, %[1]s ASC
		LIMIT ?`, column))

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top %s: %w", column, err)
	}
	defer rows.Close()

	var out []models.LabelCount
	for rows.Next() {
		var lc models.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, fmt.Errorf("scanning top %s: %w", column, err)
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top %s: %w", column, err)
	}
	return out, nil
}

const orderColumns = "order_id, user_id, status, gender, created_at, returned_at, shipped_at, delivered_at, num_of_item"

// FindOrderByID looks up an order by its dataset order_id.
// found is false when no such order exists.
func (c *Catalog) FindOrderByID(ctx context.Context, orderID int64) (order models.Order, found bool, err error) {
	query := c.db.Rebind("SELECT " + orderColumns + " FROM orders WHERE order_id = ?")
	err = c.db.QueryRowContext(ctx, query, orderID).Scan(
		&order.OrderID, &order.UserID, &order.Status, &order.Gender,
		&order.CreatedAt, &order.ReturnedAt, &order.ShippedAt, &order.DeliveredAt,
		&order.NumOfItem,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, fmt.Errorf("finding order %d: %w", orderID, err)
	}
	return order, true, nil
}

const productColumns = "id, cost, category, name, brand, retail_price, department, sku, distribution_center_id"

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Cost, &p.Category, &p.Name, &p.Brand,
		&p.RetailPrice, &p.Department, &p.SKU, &p.DistributionCenterID)
	return p, err
}

// FindProductByExactName returns the first product whose name equals name.
func (c *Catalog) FindProductByExactName(ctx context.Context, name string) (models.Product, bool, error) {
	query := c.db.Rebind("SELECT " + productColumns + " FROM products WHERE name = ? ORDER BY id LIMIT 1")
	p, err := scanProduct(c.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, fmt.Errorf("finding product %q: %w", name, err)
	}
	return p, true, nil
}

// SearchProductsByNameSubstring returns the first product (lowest id) whose
// name contains token, ignoring case. LIKE wildcards in token match literally.
func (c *Catalog) SearchProductsByNameSubstring(ctx context.Context, token string) (models.Product, bool, error) {
	pattern := "%" + escapeLike(strings.ToLower(token)) + "%"
	query := c.db.Rebind("SELECT " + productColumns + " FROM products WHERE LOWER(name) LIKE ? ESCAPE '!' ORDER BY id LIMIT 1")
	p, err := scanProduct(c.db.QueryRowContext(ctx, query, pattern))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, fmt.Errorf("searching products for %q: %w", token, err)
	}
	return p, true, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func knownEntity(e Entity) bool {
	for _, known := range Entities {
		if e == known {
			return true
		}
	}
	return false
}

// Stats returns the row count of every entity.
func (c *Catalog) Stats(ctx context.Context) (map[Entity]int64, error) {
	stats := make(map[Entity]int64, len(Entities))
	for _, e := range Entities {
		n, err := c.CountTotal(ctx, e)
		if err != nil {
			return nil, err
		}
		stats[e] = n
	}
	return stats, nil
}
