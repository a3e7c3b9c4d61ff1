package storage

import "context"

// Provider encapsulates the operations generator outputs and catalog code rely
// on. Implementations range from the filesystem writer used for site builds to
// SQL-backed providers supplied by embedding applications.
type Provider interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	Transaction(ctx context.Context, fn func(tx Transaction) error) error
}

// Reloadable providers can apply a new configuration at runtime. Providers
// that do not support reloads may omit this interface; the container keeps
// using the existing provider.
type Reloadable interface {
	Reload(ctx context.Context, cfg Config) error
}

// CapabilityReporter exposes optional provider features so callers can make
// runtime decisions.
type CapabilityReporter interface {
	Capabilities() Capabilities
}

// Config captures the runtime configuration for a storage provider.
type Config struct {
	Name     string
	Driver   string
	DSN      string
	ReadOnly bool
	Options  map[string]any
}

// Capabilities documents optional behaviours supported by a provider.
type Capabilities struct {
	SupportsReload bool
	Metadata       map[string]any
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

type Transaction interface {
	Provider
	Commit() error
	Rollback() error
}
