package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DB wraps a connection pool together with the SQL dialect it speaks.
// Queries in this codebase are written with '?' placeholders and passed
// through Rebind before execution.
type DB struct {
	*sql.DB
	Driver string
}

// Open creates and configures a connection pool for the given driver and DSN.
// This is used for BOTH the primary and read-only pools.
func Open(driver, dsn string) (*DB, error) {
	// 1. --- Resolve Driver ---
	sqlDriver, err := sqlDriverName(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("empty DSN for driver %s", driver)
	}
	if driver == DriverMySQL {
		// Timestamps must scan into time.Time.
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parsing mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}

	// 2. --- Open Pool ---
	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, err
	}

	// 3. --- Configure Pool ---
	if driver == DriverSQLite {
		// A single connection keeps in-memory databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// 4. --- Verify Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Printf("Error connecting to %s database: %v", driver, err)
		db.Close()
		return nil, err
	}

	log.Printf("Database connection pool established successfully (%s)", driver)
	return &DB{DB: db, Driver: driver}, nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverMySQL:
		return "mysql", nil
	case DriverPostgres:
		return "pgx", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Rebind converts '?' placeholders to the driver's native form.
func (db *DB) Rebind(query string) string {
	return Rebind(db.Driver, query)
}

// Rebind converts '?' placeholders to $1, $2, ... for PostgreSQL and leaves
// the query untouched for the other drivers. Placeholders inside single-quoted
// literals are not rewritten.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
			b.WriteByte(ch)
		case ch == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction, committing on success and rolling back
// on any error.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Safety net

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
