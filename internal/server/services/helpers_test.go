package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "k"

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: time.Hour,
		BcryptCost:                  bcrypt.MinCost,
	}
}

func newServices(t *testing.T) (*UserService, *AdminService, repomanager.RepositoryManager) {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	cfg := testConfig()
	return NewUserService(m, cfg, logging.Nop()), NewAdminService(m, cfg, logging.Nop()), m
}

func signup(t *testing.T, s *UserService, username, email, password string) string {
	t.Helper()
	id, err := s.Signup(context.Background(), SignupInput{
		Name: "Test " + username, Email: email, UserName: username, Password: password,
	})
	require.NoError(t, err)
	return id
}

func adminCtx() context.Context {
	return auth.ContextWithSession(context.Background(), auth.Session{Authenticated: true, UserID: "root", IsAdmin: true})
}

func memberCtx() context.Context {
	return auth.ContextWithSession(context.Background(), auth.Session{Authenticated: true, UserID: "member"})
}

// racyRepo hides existing users from lookups so the unique constraint is
// the only thing that can detect a duplicate.
type racyRepo struct {
	users.Repository
}

func (r racyRepo) FindOne(ctx context.Context, f models.UserFilter) (*models.User, error) {
	return nil, common.ErrorNotFound
}

type racyManager struct {
	repomanager.RepositoryManager
	repo users.Repository
}

func (m racyManager) Users() users.Repository { return m.repo }
