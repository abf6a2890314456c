// Package useradmin implements the operator tool for bootstrapping and
// recovering accounts directly against the user store: creating the first
// admin and resetting a forgotten password.
package useradmin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/models"
	"github.com/dmitrijs2005/falconusers/internal/server/repositories/users"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
)

const (
	CommandCreateAdmin   = "create-admin"
	CommandResetPassword = "reset-password"
)

// operatorSession is the identity the tool acts under. Access to the tool
// is access to the database, so it carries admin rights.
var operatorSession = auth.Session{Authenticated: true, UserID: "useradmin", IsAdmin: true}

var ErrPasswordMismatch = errors.New("passwords do not match")

type App struct {
	admin  *services.AdminService
	repo   users.Repository
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(admin *services.AdminService, repo users.Repository, in io.Reader, out io.Writer) *App {
	return &App{admin: admin, repo: repo, reader: bufio.NewReader(in), out: out}
}

// Usage describes the supported commands.
func Usage(w io.Writer) {
	fmt.Fprintf(w, "usage: useradmin <%s|%s> [server flags]\n", CommandCreateAdmin, CommandResetPassword)
}

func (a *App) Run(ctx context.Context, command string) error {
	ctx = auth.ContextWithSession(ctx, operatorSession)

	switch command {
	case CommandCreateAdmin:
		return a.CreateAdmin(ctx)
	case CommandResetPassword:
		return a.ResetPassword(ctx)
	default:
		Usage(a.out)
		return fmt.Errorf("unknown command %q", command)
	}
}

// CreateAdmin prompts for the account fields and creates an admin user.
func (a *App) CreateAdmin(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.admin.CreateUser(ctx, services.NewUser{
		Name:     name,
		Email:    email,
		UserName: username,
		Password: string(password),
		IsAdmin:  true,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Admin %s created (id=%s)\n", username, id)
	return nil
}

// ResetPassword sets a new password for the user found by email or
// username.
func (a *App) ResetPassword(ctx context.Context) error {
	identifier, err := GetSimpleText(a.reader, "Email or username", a.out)
	if err != nil {
		return err
	}

	u, err := a.repo.FindOne(ctx, models.UserFilter{Email: identifier, UserName: identifier})
	if err != nil {
		return fmt.Errorf("user %q: %w", identifier, err)
	}

	password, err := a.newPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.admin.ResetPassword(ctx, u.ID, string(password)); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Password for %s updated\n", u.UserName)
	return nil
}

func (a *App) newPassword() ([]byte, error) {
	first, err := GetPassword("New password", a.out)
	if err != nil {
		return nil, err
	}
	second, err := GetPassword("Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, ErrPasswordMismatch
	}
	return first, nil
}
