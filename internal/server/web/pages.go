package web

import (
	"net/http"

	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/gorilla/mux"
)

// Page routes answer with the view model a renderer needs for the page.

type pageView struct {
	Page    string       `json:"page"`
	Session *sessionView `json:"session,omitempty"`
	Data    any          `json:"data,omitempty"`
}

type sessionView struct {
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, name string, data any) {
	v := pageView{Page: name, Data: data}
	if s := auth.SessionFromContext(r.Context()); s.Authenticated {
		v.Session = &sessionView{UserID: s.UserID, IsAdmin: s.IsAdmin}
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) homePage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "home", nil)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "login", nil)
}

func (h *Handler) signupPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "signup", nil)
}

func (h *Handler) profilePage(w http.ResponseWriter, r *http.Request) {
	h.profileView(w, r, "profile")
}

func (h *Handler) profileEditPage(w http.ResponseWriter, r *http.Request) {
	h.profileView(w, r, "profile-edit")
}

func (h *Handler) profileView(w http.ResponseWriter, r *http.Request, name string) {
	id, err := sessionUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.page(w, r, name, newUserView(u))
}

func (h *Handler) adminPage(w http.ResponseWriter, r *http.Request) {
	list, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.page(w, r, "admin", newAdminUserViews(list))
}

func (h *Handler) adminNewUserPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, "admin-new-user", nil)
}

func (h *Handler) adminEditPage(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.GetUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.page(w, r, "admin-edit-user", newAdminUserView(u))
}
