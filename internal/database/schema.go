package database

import (
	"context"
	"fmt"
	"strings"
)

// table is one CREATE TABLE statement written with dialect tokens:
// {ts} timestamp type, {text} long text type, {money} decimal type.
type table struct {
	name string
	ddl  string
}

var tables = []table{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(120) NOT NULL UNIQUE,
		first_name VARCHAR(50) NULL,
		last_name VARCHAR(50) NULL,
		created_at {ts} NOT NULL,
		updated_at {ts} NOT NULL
	)`},
	{"conversations", `CREATE TABLE IF NOT EXISTS conversations (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		title VARCHAR(200) NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at {ts} NOT NULL,
		updated_at {ts} NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`},
	{"messages", `CREATE TABLE IF NOT EXISTS messages (
		id VARCHAR(36) PRIMARY KEY,
		conversation_id VARCHAR(36) NOT NULL,
		position BIGINT NOT NULL,
		role VARCHAR(20) NOT NULL,
		content {text} NOT NULL,
		created_at {ts} NOT NULL,
		UNIQUE (conversation_id, position),
		FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
	)`},
	{"products", `CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		cost {money} NULL,
		category VARCHAR(100) NULL,
		name VARCHAR(200) NULL,
		brand VARCHAR(100) NULL,
		retail_price {money} NULL,
		department VARCHAR(100) NULL,
		sku VARCHAR(100) NULL,
		distribution_center_id BIGINT NULL
	)`},
	{"orders", `CREATE TABLE IF NOT EXISTS orders (
		order_id BIGINT PRIMARY KEY,
		user_id BIGINT NULL,
		status VARCHAR(50) NULL,
		gender VARCHAR(20) NULL,
		created_at {ts} NULL,
		returned_at {ts} NULL,
		shipped_at {ts} NULL,
		delivered_at {ts} NULL,
		num_of_item BIGINT NULL
	)`},
	{"order_items", `CREATE TABLE IF NOT EXISTS order_items (
		id BIGINT PRIMARY KEY,
		order_id BIGINT NULL,
		user_id BIGINT NULL,
		product_id BIGINT NULL,
		inventory_item_id BIGINT NULL,
		status VARCHAR(50) NULL,
		created_at {ts} NULL,
		shipped_at {ts} NULL,
		delivered_at {ts} NULL,
		returned_at {ts} NULL
	)`},
	{"inventory_items", `CREATE TABLE IF NOT EXISTS inventory_items (
		id BIGINT PRIMARY KEY,
		product_id BIGINT NULL,
		created_at {ts} NULL,
		sold_at {ts} NULL,
		cost {money} NULL,
		product_category VARCHAR(100) NULL,
		product_name VARCHAR(200) NULL,
		product_brand VARCHAR(100) NULL,
		product_retail_price {money} NULL,
		product_department VARCHAR(100) NULL,
		product_sku VARCHAR(100) NULL,
		product_distribution_center_id BIGINT NULL
	)`},
	{"user_data", `CREATE TABLE IF NOT EXISTS user_data (
		id BIGINT PRIMARY KEY,
		first_name VARCHAR(50) NULL,
		last_name VARCHAR(50) NULL,
		email VARCHAR(120) NULL,
		age BIGINT NULL,
		gender VARCHAR(20) NULL,
		state VARCHAR(50) NULL,
		street_address VARCHAR(200) NULL,
		postal_code VARCHAR(20) NULL,
		city VARCHAR(100) NULL,
		country VARCHAR(100) NULL,
		latitude DOUBLE PRECISION NULL,
		longitude DOUBLE PRECISION NULL,
		traffic_source VARCHAR(100) NULL,
		created_at {ts} NULL
	)`},
	{"distribution_centers", `CREATE TABLE IF NOT EXISTS distribution_centers (
		id BIGINT PRIMARY KEY,
		name VARCHAR(100) NULL,
		latitude DOUBLE PRECISION NULL,
		longitude DOUBLE PRECISION NULL
	)`},
}

// indexes speed up the aggregate lookups of the chat assistant.
var indexes = []struct{ name, table, columns string }{
	{"idx_messages_conversation", "messages", "conversation_id, position"},
	{"idx_conversations_user", "conversations", "user_id"},
	{"idx_order_items_product", "order_items", "product_id"},
	{"idx_inventory_items_product", "inventory_items", "product_id"},
	{"idx_products_name", "products", "name"},
}

// TableNames lists every table managed by Migrate, in creation order.
func TableNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names
}

// Migrate creates all tables and indexes if they do not already exist.
func (db *DB) Migrate(ctx context.Context) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, db.dialectDDL(t.ddl)); err != nil {
			return fmt.Errorf("creating table %s: %w", t.name, err)
		}
	}
	for _, idx := range indexes {
		if err := db.createIndex(ctx, idx.name, idx.table, idx.columns); err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (db *DB) createIndex(ctx context.Context, name, table, columns string) error {
	if db.Driver == DriverMySQL {
		// MySQL has no CREATE INDEX IF NOT EXISTS.
		var count int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM information_schema.statistics
			 WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?`,
			table, name).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		_, err = db.ExecContext(ctx, fmt.Sprintf("CREATE INDEX %s ON %s (%s)", name, table, columns))
		return err
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, table, columns))
	return err
}

func (db *DB) dialectDDL(ddl string) string {
	ts, text, money := "DATETIME", "TEXT", "DECIMAL(12,4)"
	switch db.Driver {
	case DriverPostgres:
		ts, money = "TIMESTAMP", "NUMERIC(12,4)"
	case DriverMySQL:
		ts, text = "DATETIME(6)", "MEDIUMTEXT"
	}
	r := strings.NewReplacer("{ts}", ts, "{text}", text, "{money}", money)
	return r.Replace(ddl)
}
