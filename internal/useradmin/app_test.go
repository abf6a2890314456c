package useradmin

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/config"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		p := passwords[0]
		passwords = passwords[1:]
		return []byte(p), nil
	}
}

func newTestApp(t *testing.T, input string) (*App, repomanager.RepositoryManager, *bytes.Buffer) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{BcryptCost: bcrypt.MinCost}
	var out bytes.Buffer
	app := NewApp(services.NewAdminService(rm, cfg, logging.Nop()), rm.Users(), strings.NewReader(input), &out)
	return app, rm, &out
}

func TestCreateAdmin(t *testing.T) {
	stubPasswords(t, "rootpw1", "rootpw1")
	app, rm, out := newTestApp(t, "Root\nroot@example.com\nroot\n")

	require.NoError(t, app.Run(context.Background(), CommandCreateAdmin))
	assert.Contains(t, out.String(), "Admin root created")

	u, err := rm.Users().FindOne(context.Background(), models.UserFilter{UserName: "root"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rootpw1")))
}

func TestCreateAdmin_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "rootpw1", "rootpw2")
	app, _, _ := newTestApp(t, "Root\nroot@example.com\nroot\n")

	assert.ErrorIs(t, app.Run(context.Background(), CommandCreateAdmin), ErrPasswordMismatch)
}

func TestResetPassword(t *testing.T) {
	stubPasswords(t, "rootpw1", "rootpw1", "changed1", "changed1")
	app, rm, _ := newTestApp(t, "Root\nroot@example.com\nroot\nroot@example.com\n")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, CommandCreateAdmin))
	require.NoError(t, app.Run(ctx, CommandResetPassword))

	u, err := rm.Users().FindOne(ctx, models.UserFilter{UserName: "root"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("changed1")))
}

func TestResetPassword_UnknownUser(t *testing.T) {
	app, _, _ := newTestApp(t, "ghost\n")
	assert.ErrorIs(t, app.Run(context.Background(), CommandResetPassword), common.ErrorNotFound)
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _, out := newTestApp(t, "")
	assert.Error(t, app.Run(context.Background(), "drop-all"))
	assert.Contains(t, out.String(), "usage:")
}
