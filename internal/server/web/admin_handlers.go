package web

import (
	"net/http"

	"github.com/dmitrijs2005/falconusers/internal/server/services"
	"github.com/gorilla/mux"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserName string `json:"username"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
	IsAdmin  bool   `json:"isAdmin"`
}

type updateUserRequest struct {
	profileRequest
	IsAdmin *bool `json:"isAdmin"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": newAdminUserViews(list), "count": len(list)})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.admin.CreateUser(r.Context(), services.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		PhotoURL: req.Photo,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"userId": id})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAdminUserView(u))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.admin.UpdateUser(r.Context(), mux.Vars(r)["id"], services.UserChanges{
		ProfileUpdate: services.ProfileUpdate{
			Name:     req.Name,
			Email:    req.Email,
			UserName: req.UserName,
			PhotoURL: req.Photo,
		},
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAdminUserView(u))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	writeNoContent(w)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.admin.ResetPassword(r.Context(), mux.Vars(r)["id"], req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	writeNoContent(w)
}
