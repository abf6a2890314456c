package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/server/assets"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
)

type profileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserName string `json:"username"`
	Photo    string `json:"photo"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// sessionUserID returns the caller's user id. The guard already keeps
// anonymous callers out; this is the handler-level check.
func sessionUserID(r *http.Request) (string, error) {
	sess := auth.SessionFromContext(r.Context())
	if !sess.Authenticated {
		return "", common.ErrUnauthenticated
	}
	return sess.UserID, nil
}

// getProfile handles GET /api/profile.
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, newUserView(u))
}

// updateProfile handles PATCH /api/profile.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := sessionUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), id, services.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		UserName: req.UserName,
		PhotoURL: req.Photo,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(u))
}

// changePassword handles POST /api/profile/password.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, err := sessionUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.users.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	writeNoContent(w)
}

// uploadPhoto handles POST /api/profile/photo, a multipart form with the
// image in the "photo" field.
func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := sessionUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, assets.MaxPhotoSize+maxBodyBytes)
	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, fmt.Errorf("%w: upload too large", common.ErrValidation))
			return
		}
		h.fail(w, r, fmt.Errorf("%w: photo file is required", common.ErrValidation))
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(io.LimitReader(file, assets.MaxPhotoSize+1))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	url, err := h.uploader.Upload(r.Context(), blob)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), id, services.ProfileUpdate{PhotoURL: url})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(u))
}
