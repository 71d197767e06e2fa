// Package loader ingests the e-commerce dataset CSV files into the database.
package loader

import (
	"path/filepath"
	"strings"
)

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindDecimal
	kindTime
)

type column struct {
	name string
	kind kind
}

// Table maps one dataset CSV file onto one database table. The first column
// is the primary key and must be present in the CSV header.
type Table struct {
	Name    string
	File    string
	columns []column
}

// Columns returns the database column names in insert order.
func (t Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

var productColumns = []column{
	{"id", kindInt},
	{"cost", kindDecimal},
	{"category", kindString},
	{"name", kindString},
	{"brand", kindString},
	{"retail_price", kindDecimal},
	{"department", kindString},
	{"sku", kindString},
	{"distribution_center_id", kindInt},
}

// Tables lists every dataset table in load order.
var Tables = []Table{
	{Name: "products", File: "products.csv", columns: productColumns},
	{Name: "orders", File: "orders.csv", columns: []column{
		{"order_id", kindInt},
		{"user_id", kindInt},
		{"status", kindString},
		{"gender", kindString},
		{"created_at", kindTime},
		{"returned_at", kindTime},
		{"shipped_at", kindTime},
		{"delivered_at", kindTime},
		{"num_of_item", kindInt},
	}},
	{Name: "order_items", File: "order_items.csv", columns: []column{
		{"id", kindInt},
		{"order_id", kindInt},
		{"user_id", kindInt},
		{"product_id", kindInt},
		{"inventory_item_id", kindInt},
		{"status", kindString},
		{"created_at", kindTime},
		{"shipped_at", kindTime},
		{"delivered_at", kindTime},
		{"returned_at", kindTime},
	}},
	{Name: "inventory_items", File: "inventory_items.csv", columns: []column{
		{"id", kindInt},
		{"product_id", kindInt},
		{"created_at", kindTime},
		{"sold_at", kindTime},
		{"cost", kindDecimal},
		{"product_category", kindString},
		{"product_name", kindString},
		{"product_brand", kindString},
		{"product_retail_price", kindDecimal},
		{"product_department", kindString},
		{"product_sku", kindString},
		{"product_distribution_center_id", kindInt},
	}},
	// users.csv holds dataset customers, not chat users.
	{Name: "user_data", File: "users.csv", columns: []column{
		{"id", kindInt},
		{"first_name", kindString},
		{"last_name", kindString},
		{"email", kindString},
		{"age", kindInt},
		{"gender", kindString},
		{"state", kindString},
		{"street_address", kindString},
		{"postal_code", kindString},
		{"city", kindString},
		{"country", kindString},
		{"latitude", kindFloat},
		{"longitude", kindFloat},
		{"traffic_source", kindString},
		{"created_at", kindTime},
	}},
	{Name: "distribution_centers", File: "distribution_centers.csv", columns: []column{
		{"id", kindInt},
		{"name", kindString},
		{"latitude", kindFloat},
		{"longitude", kindFloat},
	}},
}

// TableForFile returns the table loaded from the CSV at path.
func TableForFile(path string) (Table, bool) {
	base := strings.ToLower(filepath.Base(path))
	for _, t := range Tables {
		if t.File == base {
			return t, true
		}
	}
	return Table{}, false
}
