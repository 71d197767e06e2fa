package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/shopassist-golang/internal/database"
	"github.com/shopspring/decimal"
)

// timeLayouts are the timestamp formats found in the dataset, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// LoadAll loads every dataset table from dir. It stops at the first table
// that fails; tables loaded before it stay loaded.
func LoadAll(ctx context.Context, db *database.DB, dir string) (map[string]int, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("dataset path not found: %w", err)
	}

	loaded := make(map[string]int, len(Tables))
	for _, t := range Tables {
		log.Printf("Loading %s...", t.Name)
		n, err := LoadTable(ctx, db, t, filepath.Join(dir, t.File))
		if err != nil {
			return loaded, err
		}
		log.Printf("Loaded %d %s", n, t.Name)
		loaded[t.Name] = n
	}
	return loaded, nil
}

// LoadTable replaces the contents of t with the rows of the CSV at path in a
// single transaction and returns the number of rows inserted.
func LoadTable(ctx context.Context, db *database.DB, t Table, path string) (int, error) {
	// 1. --- Parse The CSV ---
	rows, err := readRows(t, path)
	if err != nil {
		return 0, err
	}

	// 2. --- Replace The Table ---
	cols := t.Columns()
	insert := db.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")))

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.Name); err != nil {
			return fmt.Errorf("clearing %s: %w", t.Name, err)
		}
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("preparing insert into %s: %w", t.Name, err)
		}
		defer stmt.Close()

		for i, args := range rows {
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("inserting %s row %d: %w", t.Name, i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// readRows parses the CSV into insert arguments ordered like t.Columns().
// Columns missing from the header and empty cells become NULL.
func readRows(t Table, path string) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	// 1. --- Map Header To Columns ---
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	positions := make([]int, len(t.columns))
	for i, c := range t.columns {
		pos, ok := index[c.name]
		if !ok {
			if i == 0 {
				return nil, fmt.Errorf("%s: missing key column %q", path, c.name)
			}
			pos = -1
		}
		positions[i] = pos
	}

	// 2. --- Convert Records ---
	var rows [][]any
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		args := make([]any, len(t.columns))
		for i, c := range t.columns {
			if positions[i] < 0 || positions[i] >= len(record) {
				continue
			}
			v, err := convert(c.kind, record[positions[i]])
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %s: %w", path, line, c.name, err)
			}
			args[i] = v
		}
		if args[0] == nil {
			return nil, fmt.Errorf("%s line %d: empty %s", path, line, t.columns[0].name)
		}
		rows = append(rows, args)
	}
	return rows, nil
}

// convert turns one CSV cell into a driver value. Empty cells are NULL.
func convert(k kind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	switch k {
	case kindInt:
		return parseInt(raw)
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	case kindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		return d, nil
	case kindTime:
		// Unparseable timestamps are stored as NULL.
		if t, ok := parseTime(raw); ok {
			return t, nil
		}
		return nil, nil
	default:
		return raw, nil
	}
}

// parseInt accepts integral floats such as "12.0", which spreadsheet exports produce.
func parseInt(raw string) (int64, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int64(f), nil
}

func parseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
