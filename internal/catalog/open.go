package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DefaultSQLiteDSN keeps the catalog in a single file next to the site source.
const DefaultSQLiteDSN = "file:catalog.db?cache=shared&_fk=1"

var ErrUnsupportedDriver = errors.New("catalog: unsupported driver")

// OpenConfig selects the database backend for the catalog.
type OpenConfig struct {
	Driver string
	DSN    string
}

// Open connects to the configured backend and wraps it in a bun DB with the
// matching dialect. An empty config opens the default SQLite file.
func Open(cfg OpenConfig) (*bun.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("catalog: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("catalog: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// EnsureSchema creates the catalog tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("catalog: create table %T: %w", model, err)
		}
	}
	return nil
}
