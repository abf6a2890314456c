package repomanager

import (
	"context"

	"github.com/dmitrijs2005/falconusers/internal/server/repositories/users"
)

// MemoryRepositoryManager holds a single in-process repository. WithTx is
// not transactional; uniqueness is still enforced at write time.
type MemoryRepositoryManager struct {
	repo *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{repo: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.repo }

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, m.repo)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
