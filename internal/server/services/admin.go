package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/repomanager"
)

// NewUser is the admin "create user" form.
type NewUser struct {
	Name     string
	Email    string
	UserName string
	Password string
	PhotoURL string
	IsAdmin  bool
}

// UserChanges is an admin edit of any user. Empty strings and a nil IsAdmin
// leave the field unchanged.
type UserChanges struct {
	ProfileUpdate
	IsAdmin *bool
}

// AdminService manages arbitrary accounts. Every method resolves the
// caller's session from ctx and fails with common.ErrForbidden unless it is
// an authenticated admin.
type AdminService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	logger      logging.Logger
}

func NewAdminService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AdminService {
	return &AdminService{
		repomanager: m,
		hasher:      auth.NewHasher(cfg.BcryptCost),
		logger:      logger,
	}
}

func (s *AdminService) authorize(ctx context.Context) (auth.Session, error) {
	sess := auth.SessionFromContext(ctx)
	if !sess.Authenticated || !sess.IsAdmin {
		return sess, fmt.Errorf("%w: admin privileges required", common.ErrForbidden)
	}
	return sess, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if _, err := s.authorize(ctx); err != nil {
		return nil, err
	}
	return s.repomanager.Users().List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := s.authorize(ctx); err != nil {
		return nil, err
	}
	return s.repomanager.Users().FindOne(ctx, models.UserFilter{ID: id})
}

// CreateUser registers a user on someone's behalf and returns the new id.
func (s *AdminService) CreateUser(ctx context.Context, in NewUser) (string, error) {
	sess, err := s.authorize(ctx)
	if err != nil {
		return "", err
	}
	if err := validateName(in.Name); err != nil {
		return "", err
	}

	u, err := createUser(ctx, s.repomanager.Users(), s.hasher, newUserFields(in))
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "admin created user", "admin_id", sess.UserID, "user_id", u.ID, "is_admin", u.IsAdmin)
	return u.ID, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, in UserChanges) (*models.User, error) {
	sess, err := s.authorize(ctx)
	if err != nil {
		return nil, err
	}

	upd, err := profileChanges(in.ProfileUpdate)
	if err != nil {
		return nil, err
	}
	upd.IsAdmin = in.IsAdmin

	u, err := updateUser(ctx, s.repomanager, id, upd)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "admin updated user", "admin_id", sess.UserID, "user_id", id)
	return u, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	sess, err := s.authorize(ctx)
	if err != nil {
		return err
	}

	if err := s.repomanager.Users().Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "admin deleted user", "admin_id", sess.UserID, "user_id", id)
	return nil
}

// ResetPassword sets a new password without the current-password check of
// the self-service flow.
func (s *AdminService) ResetPassword(ctx context.Context, id, newPassword string) error {
	sess, err := s.authorize(ctx)
	if err != nil {
		return err
	}

	repo := s.repomanager.Users()
	if _, err := repo.FindOne(ctx, models.UserFilter{ID: id}); err != nil {
		return err
	}
	if err := setPassword(ctx, repo, s.hasher, id, newPassword); err != nil {
		return err
	}

	s.logger.Info(ctx, "admin reset password", "admin_id", sess.UserID, "user_id", id)
	return nil
}
