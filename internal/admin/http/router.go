package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aussiebroadwan/backoffice/internal/admin/session"
	"github.com/aussiebroadwan/backoffice/pkg/httpx"
	"github.com/aussiebroadwan/backoffice/pkg/metrics"
	"github.com/aussiebroadwan/backoffice/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	db           Pinger
	sessions     *session.Manager
	renderer     Renderer

	Users  UserRecords
	Levels LevelLister
	Auth   Authenticator

	// LoginLimit throttles POST /login per IP and email.
	LoginLimit httpx.RateLimitConfig
	// TrustedProxies may set X-Forwarded-For; empty means none.
	TrustedProxies httpx.TrustedProxies

	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
	AuthMetrics *metrics.AuthMetrics
}

func NewRouter(
	buildVersion string,
	db Pinger,
	sessions *session.Manager,
	renderer Renderer,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		sessions:     sessions,
		renderer:     renderer,
		LoginLimit:   httpx.StrictLimit,
	}
}

func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(func(req *http.Request, v any) {
			slogx.FromContext(req.Context()).Error("panic serving request", "panic", v)
		}),
		r.sessions.Middleware,
		// Innermost so r.Pattern is set on the request it observes.
		r.HTTPMetrics.Middleware,
	}

	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Auth:     r.Auth,
		Renderer: r.renderer,
		Metrics:  r.AuthMetrics,
	}

	r.Mux.Handle("GET /{$}", &HomeHandler{Renderer: r.renderer})
	r.Mux.HandleFunc("GET /login", h.HandleLoginForm)

	// Brute force protection is keyed on IP + the email being tried.
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(r.LoginLimit, r.TrustedProxies, "userEmail"),
		),
	)
	r.Mux.HandleFunc("POST /logout", h.HandleLogout)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		Users:    r.Users,
		Levels:   r.Levels,
		Renderer: r.renderer,
	}
	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn, session.RequireAuth("/login"))
	}

	r.Mux.Handle("GET /users", secured(h.HandleList))
	r.Mux.Handle("GET /users/edit", secured(h.HandleEdit))
	r.Mux.Handle("POST /users/save", secured(h.HandleSave))
	r.Mux.Handle("POST /users/delete", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// Probes get polled often; keep them cheap and loosely limited.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit, r.TrustedProxies),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db),
			httpx.RateLimitByIP(httpx.LenientLimit, r.TrustedProxies),
		),
	)
	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.Gatherer))
	}
}
