package web

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// recoverer turns handler panics into a 500 response.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				h.logger.Error(r.Context(), "panic in handler", "request_id", requestIDFrom(r.Context()), "panic", p)
				writeErrorMessage(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// accessLog assigns a request id and logs one line per request. Cookies and
// bodies are never logged.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		h.logger.Info(ctx, "request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

// sessionLoader installs the request's LazySession and drops the cookie
// when it carries an invalid or expired token.
func (h *Handler) sessionLoader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lazy := h.resolver.Lazy(readSessionCookie(r))

		if lazy.Resolution().ClearCookie {
			clearSessionCookie(w, h.secureCookies)
			h.metrics.ClearedCookies.Inc()
		}

		next.ServeHTTP(w, r.WithContext(auth.WithLazySession(r.Context(), lazy)))
	})
}

// guard enforces the route table before any handler runs. Page routes are
// redirected; API routes get a JSON 401 or 403 instead.
func (h *Handler) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := h.routes.Classify(r.URL.Path)
		sess := auth.SessionFromContext(r.Context())
		decision := auth.Decide(class, r.URL.Path, sess)
		h.metrics.ObserveDecision(class.String(), decision.String())

		if decision == auth.Allow {
			next.ServeHTTP(w, r)
			return
		}

		if isAPI(r.URL.Path) {
			if sess.Authenticated {
				writeErrorMessage(w, http.StatusForbidden, "forbidden")
			} else {
				writeErrorMessage(w, http.StatusUnauthorized, "not authenticated")
			}
			return
		}

		target := auth.LoginPath
		if decision == auth.RedirectProfile {
			target = auth.ProfilePath
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}

// instrument records per-route metrics using the matched route template.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		h.metrics.ObserveRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start))
	})
}

func isAPI(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
