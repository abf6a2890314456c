package web

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/common"
)

// setSessionCookie stores the access token. The cookie has no Max-Age and
// lives for the browser session; the token itself expires on its own.
func setSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func readSessionCookie(r *http.Request) string {
	c, err := r.Cookie(common.AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
