package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFilter_IsEmpty(t *testing.T) {
	assert.True(t, UserFilter{}.IsEmpty())
	assert.False(t, UserFilter{Email: "a@x.com"}.IsEmpty())
}

func TestUserUpdate_ApplyLeavesUnsetFields(t *testing.T) {
	name := "New Name"
	admin := true
	u := &User{ID: "1", Name: "Old", UserName: "old", Email: "old@x.com", PhotoURL: "p"}

	upd := UserUpdate{Name: &name, IsAdmin: &admin}
	assert.False(t, upd.IsEmpty())
	upd.Apply(u)

	assert.Equal(t, "New Name", u.Name)
	assert.True(t, u.IsAdmin)
	assert.Equal(t, "old", u.UserName)
	assert.Equal(t, "old@x.com", u.Email)
	assert.Equal(t, "p", u.PhotoURL)
	assert.True(t, UserUpdate{}.IsEmpty())
}
