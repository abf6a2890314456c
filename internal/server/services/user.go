// Package services contains server-side business logic. This file implements
// UserService, the self-service account operations: signup, login, logout,
// password change and profile edits.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/users"
)

// SignupInput is the self-registration form.
type SignupInput struct {
	Name     string
	Email    string
	UserName string
	Password string
	PhotoURL string
}

// ProfileUpdate is a partial profile edit. Empty fields are left unchanged.
type ProfileUpdate struct {
	Name     string
	Email    string
	UserName string
	PhotoURL string
}

// UserService provides authentication-related operations.
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	hasher                      *auth.Hasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repomanager:                 m,
		hasher:                      auth.NewHasher(cfg.BcryptCost),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger,
	}
}

// Signup registers a user and returns the new id. An existing user with the
// same email or username yields common.ErrConflict.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (string, error) {
	if err := validateName(in.Name); err != nil {
		return "", err
	}
	u, err := createUser(ctx, s.repomanager.Users(), s.hasher, newUserFields{
		Name:     in.Name,
		Email:    in.Email,
		UserName: in.UserName,
		Password: in.Password,
		PhotoURL: in.PhotoURL,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "user signed up", "user_id", u.ID)
	return u.ID, nil
}

// Login checks the identifier (email or username) and password and returns
// a signed access token for the HTTP layer to put into the session cookie.
func (s *UserService) Login(ctx context.Context, identifier, password string) (string, error) {
	user, err := s.repomanager.Users().FindOne(ctx, models.UserFilter{Email: identifier, UserName: identifier})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}

// Logout reports common.ErrorNotFound when there was no session token. The
// caller drops the cookie either way.
func (s *UserService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		s.logger.Warn(ctx, "logout without session cookie")
		return fmt.Errorf("session cookie: %w", common.ErrorNotFound)
	}
	return nil
}

// ChangePassword replaces the password after checking the current one.
// Tokens issued before the change stay valid until they expire.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	repo := s.repomanager.Users()

	user, err := repo.FindOne(ctx, models.UserFilter{ID: userID})
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return common.ErrInvalidCredentials
	}

	if err := setPassword(ctx, repo, s.hasher, user.ID, newPassword); err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "user_id", user.ID)
	return nil
}

// GetProfile returns the user behind userID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users().FindOne(ctx, models.UserFilter{ID: userID})
}

// UpdateProfile applies a partial edit of the user's own profile and
// returns the updated record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	upd, err := profileChanges(in)
	if err != nil {
		return nil, err
	}
	return updateUser(ctx, s.repomanager, userID, upd)
}

// IsUsernameAvailable reports whether username is free. Probes shorter than
// 2 or longer than 15 characters are rejected with common.ErrValidation.
func (s *UserService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if n := len([]rune(username)); n < minProbeLen || n > maxProbeLen {
		return false, invalid("username must be between %d and %d characters", minProbeLen, maxProbeLen)
	}

	_, err := s.repomanager.Users().FindOne(ctx, models.UserFilter{UserName: username})
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return true, nil
	case err != nil:
		return false, err
	default:
		return false, nil
	}
}

// --- helpers shared with AdminService ---

type newUserFields struct {
	Name     string
	Email    string
	UserName string
	Password string
	PhotoURL string
	IsAdmin  bool
}

func createUser(ctx context.Context, repo users.Repository, hasher *auth.Hasher, f newUserFields) (*models.User, error) {
	if err := validateEmail(f.Email); err != nil {
		return nil, err
	}
	if err := validateUserName(f.UserName); err != nil {
		return nil, err
	}
	if err := validatePassword(f.Password); err != nil {
		return nil, err
	}

	_, err := repo.FindOne(ctx, models.UserFilter{Email: f.Email, UserName: f.UserName})
	if err == nil {
		return nil, fmt.Errorf("%w: email or username is taken", common.ErrConflict)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := hasher.Hash(f.Password)
	if err != nil {
		return nil, err
	}

	// The pre-check above is racy; the repository reports a concurrent
	// duplicate as common.ErrConflict too.
	u, err := repo.Create(ctx, &models.User{
		Name:         f.Name,
		Email:        f.Email,
		UserName:     f.UserName,
		PhotoURL:     f.PhotoURL,
		IsAdmin:      f.IsAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

func setPassword(ctx context.Context, repo users.Repository, hasher *auth.Hasher, userID, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	return repo.Update(ctx, userID, models.UserUpdate{PasswordHash: &hash})
}

func profileChanges(in ProfileUpdate) (models.UserUpdate, error) {
	var upd models.UserUpdate
	if in.Name != "" {
		upd.Name = &in.Name
	}
	if in.Email != "" {
		if err := validateEmail(in.Email); err != nil {
			return upd, err
		}
		upd.Email = &in.Email
	}
	if in.UserName != "" {
		if err := validateUserName(in.UserName); err != nil {
			return upd, err
		}
		upd.UserName = &in.UserName
	}
	if in.PhotoURL != "" {
		upd.PhotoURL = &in.PhotoURL
	}
	return upd, nil
}

// updateUser checks that a changed email or username does not belong to a
// different user, then applies upd in one transaction.
func updateUser(ctx context.Context, m repomanager.RepositoryManager, userID string, upd models.UserUpdate) (*models.User, error) {
	var updated *models.User

	err := m.WithTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if _, err := repo.FindOne(ctx, models.UserFilter{ID: userID}); err != nil {
			return err
		}

		if upd.Email != nil {
			if err := ensureFree(ctx, repo, userID, models.UserFilter{Email: *upd.Email}); err != nil {
				return err
			}
		}
		if upd.UserName != nil {
			if err := ensureFree(ctx, repo, userID, models.UserFilter{UserName: *upd.UserName}); err != nil {
				return err
			}
		}

		if !upd.IsEmpty() {
			if err := repo.Update(ctx, userID, upd); err != nil {
				return err
			}
		}

		u, err := repo.FindOne(ctx, models.UserFilter{ID: userID})
		if err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func ensureFree(ctx context.Context, repo users.Repository, selfID string, filter models.UserFilter) error {
	other, err := repo.FindOne(ctx, filter)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != selfID:
		return fmt.Errorf("%w: email or username is taken", common.ErrConflict)
	default:
		return nil
	}
}
