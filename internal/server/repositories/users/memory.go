package users

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
)

// MemoryRepository keeps users in process memory. It enforces the same
// uniqueness rules as the SQL schema and hands out copies, never the
// stored values.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique("", user.Email, user.UserName); err != nil {
		return nil, err
	}

	now := timeNow().UTC()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored

	return user, nil
}

func (r *MemoryRepository) FindOne(ctx context.Context, filter models.UserFilter) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if filter.IsEmpty() {
		return nil, common.ErrorNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if filter.ID != "" {
		if u, ok := r.users[filter.ID]; ok {
			c := *u
			return &c, nil
		}
	}
	for _, u := range r.users {
		if (filter.Email != "" && u.Email == filter.Email) ||
			(filter.UserName != "" && u.UserName == filter.UserName) {
			c := *u
			return &c, nil
		}
	}

	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Update(ctx context.Context, id string, upd models.UserUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}

	email, username := "", ""
	if upd.Email != nil {
		email = *upd.Email
	}
	if upd.UserName != nil {
		username = *upd.UserName
	}
	if err := r.checkUnique(id, email, username); err != nil {
		return err
	}

	upd.Apply(u)
	u.UpdatedAt = timeNow().UTC()

	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.users, id)

	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	result := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		result = append(result, &c)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].UserName < result[j].UserName
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// checkUnique must be called with r.mu held.
func (r *MemoryRepository) checkUnique(selfID, email, username string) error {
	for id, u := range r.users {
		if id == selfID {
			continue
		}
		if email != "" && u.Email == email {
			return fmt.Errorf("%w: email %q", common.ErrConflict, email)
		}
		if username != "" && u.UserName == username {
			return fmt.Errorf("%w: username %q", common.ErrConflict, username)
		}
	}
	return nil
}
