package web

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/falconusers/internal/logging"
	"github.com/dmitrijs2005/falconusers/internal/server/auth"
	"github.com/dmitrijs2005/falconusers/internal/server/metrics"
	"github.com/dmitrijs2005/falconusers/internal/server/services"
	"github.com/gorilla/mux"
)

// PhotoUploader stores an image and returns its public URL.
type PhotoUploader interface {
	Upload(ctx context.Context, blob []byte) (string, error)
}

type Deps struct {
	Users         *services.UserService
	Admin         *services.AdminService
	Uploader      PhotoUploader
	Resolver      *auth.Resolver
	Routes        *auth.RouteTable
	Metrics       *metrics.Metrics
	Logger        logging.Logger
	SecureCookies bool
}

type Handler struct {
	users         *services.UserService
	admin         *services.AdminService
	uploader      PhotoUploader
	resolver      *auth.Resolver
	routes        *auth.RouteTable
	metrics       *metrics.Metrics
	logger        logging.Logger
	secureCookies bool
}

// NewHandler builds the full middleware chain around the router:
// recovery, access log, session loading, then the route guard.
func NewHandler(d Deps) http.Handler {
	h := &Handler{
		users:         d.Users,
		admin:         d.Admin,
		uploader:      d.Uploader,
		resolver:      d.Resolver,
		routes:        d.Routes,
		metrics:       d.Metrics,
		logger:        d.Logger.With("module", "web"),
		secureCookies: d.SecureCookies,
	}
	if h.routes == nil {
		h.routes = auth.DefaultRouteTable()
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}

	return h.recoverer(h.accessLog(h.sessionLoader(h.guard(h.router()))))
}

func (h *Handler) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.instrument)

	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)

	// Pages.
	r.HandleFunc("/", h.homePage).Methods(http.MethodGet)
	r.HandleFunc("/login", h.loginPage).Methods(http.MethodGet)
	r.HandleFunc("/signup", h.signupPage).Methods(http.MethodGet)
	r.HandleFunc("/profile", h.profilePage).Methods(http.MethodGet)
	r.HandleFunc("/profile/edit", h.profileEditPage).Methods(http.MethodGet)
	r.HandleFunc("/admin", h.adminPage).Methods(http.MethodGet)
	r.HandleFunc("/admin/new-user", h.adminNewUserPage).Methods(http.MethodGet)
	r.HandleFunc("/admin/edit/{userId}", h.adminEditPage).Methods(http.MethodGet)

	// Actions.
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/signup", h.signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/username-available", h.usernameAvailable).Methods(http.MethodGet)

	api.HandleFunc("/profile", h.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", h.updateProfile).Methods(http.MethodPatch)
	api.HandleFunc("/profile/password", h.changePassword).Methods(http.MethodPost)
	api.HandleFunc("/profile/photo", h.uploadPhoto).Methods(http.MethodPost)

	api.HandleFunc("/admin/users", h.listUsers).Methods(http.MethodGet)
	api.HandleFunc("/admin/users", h.createUser).Methods(http.MethodPost)
	api.HandleFunc("/admin/users/{id}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/admin/users/{id}", h.updateUser).Methods(http.MethodPatch)
	api.HandleFunc("/admin/users/{id}", h.deleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/admin/users/{id}/password", h.resetPassword).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
