// Package users contains the user repository: one interface and its
// PostgreSQL, SQLite and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/falconusers/internal/server/models"
)

// Repository persists user accounts.
//
// Contract:
//   - FindOne returns common.ErrorNotFound when nothing matches the filter.
//   - Create and Update return an error matching common.ErrConflict when the
//     email or username is already taken by another user.
//   - Update and Delete return common.ErrorNotFound for unknown ids.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindOne(ctx context.Context, filter models.UserFilter) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.User, error)
}
