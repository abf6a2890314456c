package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/falconusers/internal/common"
	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad email", common.ErrValidation), http.StatusBadRequest},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("wrap: %w", common.ErrForbidden), http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{fmt.Errorf("db error: %w", common.ErrConflict), http.StatusConflict},
		{common.ErrHashing, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, msg := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestRecoverer(t *testing.T) {
	h := &Handler{logger: logging.Nop()}
	panicky := h.recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	panicky.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
