package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/server/metrics"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserName string `json:"username"`
	Password string `json:"password"`
	Photo    string `json:"photo"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// signup handles POST /api/auth/signup.
func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.users.Signup(r.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		UserName: req.UserName,
		Password: req.Password,
		PhotoURL: req.Photo,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"userId": id})
}

// login handles POST /api/auth/login. The token travels only in the
// cookie, never in the body.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(loginOutcome(err))
		if errors.Is(err, common.ErrorNotFound) {
			writeErrorMessage(w, http.StatusNotFound, "user not found")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.metrics.ObserveLogin(metrics.LoginSuccess)
	setSessionCookie(w, token, h.secureCookies)
	writeJSON(w, http.StatusOK, map[string]bool{"status": true})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return metrics.LoginInvalidCredentials
	case errors.Is(err, common.ErrorNotFound):
		return metrics.LoginUnknownUser
	default:
		return metrics.LoginError
	}
}

// logout handles POST /api/auth/logout. The cookie is dropped whether or
// not one was sent.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	_ = h.users.Logout(r.Context(), readSessionCookie(r))
	clearSessionCookie(w, h.secureCookies)
	writeNoContent(w)
}

// usernameAvailable handles GET /api/auth/username-available?username=.
func (h *Handler) usernameAvailable(w http.ResponseWriter, r *http.Request) {
	ok, err := h.users.IsUsernameAvailable(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": ok})
}
