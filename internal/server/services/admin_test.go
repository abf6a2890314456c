package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_ForbiddenWithoutAdminSession(t *testing.T) {
	_, a, _ := newServices(t)
	yes := true

	for name, ctx := range map[string]context.Context{
		"anonymous": context.Background(),
		"member":    memberCtx(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.ListUsers(ctx)
			assert.ErrorIs(t, err, common.ErrForbidden)
			_, err = a.GetUser(ctx, "x")
			assert.ErrorIs(t, err, common.ErrForbidden)
			_, err = a.CreateUser(ctx, NewUser{Name: "A", Email: "a@x.com", UserName: "alice", Password: "secret1"})
			assert.ErrorIs(t, err, common.ErrForbidden)
			_, err = a.UpdateUser(ctx, "x", UserChanges{IsAdmin: &yes})
			assert.ErrorIs(t, err, common.ErrForbidden)
			assert.ErrorIs(t, a.DeleteUser(ctx, "x"), common.ErrForbidden)
			assert.ErrorIs(t, a.ResetPassword(ctx, "x", "secret1"), common.ErrForbidden)
		})
	}
}

func TestAdmin_CRUD(t *testing.T) {
	s, a, _ := newServices(t)
	ctx := adminCtx()

	id, err := a.CreateUser(ctx, NewUser{Name: "Bob", Email: "b@x.com", UserName: "bob", Password: "secret1", IsAdmin: true})
	require.NoError(t, err)

	_, err = a.CreateUser(ctx, NewUser{Name: "Bob2", Email: "b@x.com", UserName: "bob2", Password: "secret1"})
	assert.ErrorIs(t, err, common.ErrConflict)

	u, err := a.GetUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	no := false
	u, err = a.UpdateUser(ctx, id, UserChanges{ProfileUpdate: ProfileUpdate{Name: "Robert"}, IsAdmin: &no})
	require.NoError(t, err)
	assert.Equal(t, "Robert", u.Name)
	assert.False(t, u.IsAdmin)
	assert.Equal(t, "bob", u.UserName)

	list, err := a.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, a.ResetPassword(ctx, id, "resetpw1"))
	_, err = s.Login(context.Background(), "bob", "resetpw1")
	assert.NoError(t, err)
	assert.ErrorIs(t, a.ResetPassword(ctx, "missing", "resetpw1"), common.ErrorNotFound)

	require.NoError(t, a.DeleteUser(ctx, id))
	_, err = a.GetUser(ctx, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, a.DeleteUser(ctx, id), common.ErrorNotFound)
}
