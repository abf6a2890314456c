// Package repomanager opens the configured user store and vends
// repositories bound to it, both plain and transactional.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/falconusers/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	// WithTx runs fn with a repository whose writes commit or roll back
	// together.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
	Close() error
}

// Supported values of the database driver setting.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// New opens the store selected by driver. dsn is ignored for the memory
// driver.
func New(ctx context.Context, driver, dsn string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return NewPostgresRepositoryManager(ctx, dsn)
	case DriverSQLite:
		return NewSQLiteRepositoryManager(ctx, dsn)
	case DriverMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
