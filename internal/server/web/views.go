package web

import (
	"time"

	"github.com/dmitrijs2005/falconusers/internal/server/models"
)

type userView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserName string `json:"username"`
	Email    string `json:"email"`
	Photo    string `json:"photo,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

type adminUserView struct {
	userView
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:       u.ID,
		Name:     u.Name,
		UserName: u.UserName,
		Email:    u.Email,
		Photo:    u.PhotoURL,
		IsAdmin:  u.IsAdmin,
	}
}

func newAdminUserView(u *models.User) adminUserView {
	return adminUserView{
		userView:  newUserView(u),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newAdminUserViews(list []*models.User) []adminUserView {
	out := make([]adminUserView, 0, len(list))
	for _, u := range list {
		out = append(out, newAdminUserView(u))
	}
	return out
}
