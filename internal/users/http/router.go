package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/users/service"
	"github.com/aussiebroadwan/accounts/internal/users/store"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/metrics"
	"github.com/aussiebroadwan/accounts/pkg/slogx"

	_ "github.com/aussiebroadwan/accounts/api/users" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	store       store.Store
	UserService *service.UserService
	AuthService *service.AuthService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      m,
	}

	// Instrument sits inside the logger so it sees the request the mux
	// stamps with its route pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		m.Instrument,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	User registration, profile management and JWT login sessions.
//	@description
//	@description				Access tokens are HS256 signed JWTs. An expired access token is answered with 408
//	@description				and can be exchanged at /v1/auth/refresh while the server-side session lasts.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/accounts
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}
	authn := httpx.AuthnMiddleware(r.AuthService)

	r.Mux.HandleFunc("POST /v1/users", h.HandleRegister)
	r.Mux.HandleFunc("GET /v1/users/id/{id}", h.HandleCheckID)
	r.Mux.HandleFunc("GET /v1/users/nickName/{nickName}", h.HandleCheckNickName)
	r.Mux.HandleFunc("GET /v1/users/email/{email}", h.HandleCheckEmail)

	r.Mux.Handle("GET /v1/users", httpx.Chain(http.HandlerFunc(h.HandleMe), authn))
	r.Mux.Handle("PUT /v1/users", httpx.Chain(http.HandlerFunc(h.HandleUpdate), authn))
	r.Mux.Handle("PUT /v1/users/password", httpx.Chain(http.HandlerFunc(h.HandleChangePassword), authn))
	r.Mux.Handle("DELETE /v1/users", httpx.Chain(http.HandlerFunc(h.HandleDelete), authn))
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	r.Mux.HandleFunc("POST /v1/auth/login", h.HandleLogin)

	// refresh accepts an expired access token, so it checks the bearer
	// itself instead of going through AuthnMiddleware.
	r.Mux.HandleFunc("POST /v1/auth/refresh", h.HandleRefresh)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout), httpx.AuthnMiddleware(r.AuthService)),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
