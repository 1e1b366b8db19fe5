package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tabwriterlabs/identity/internal/identity/service"
	"github.com/tabwriterlabs/identity/internal/identity/store"
	"github.com/tabwriterlabs/identity/pkg/httpx"
	"github.com/tabwriterlabs/identity/pkg/slogx"

	_ "github.com/tabwriterlabs/identity/api/identity" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     httpx.TokenVerifier
	principals   httpx.PrincipalSource
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		principals:   NewPrincipalSource(st),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSocial()
	r.registerPassword()
	r.registerInvites()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			Identity Service API
//	@version		0.1.0
//	@description	User authentication and session management: email/password and social login, refresh token rotation, password recovery, and invitation-based onboarding.
//	@description
//	@description	All responses share one envelope: {"success": bool, "message": string, "code": string, "errors": [...], "data": ...}.
//
//	@contact.name				TabWriter Labs
//	@contact.url				https://github.com/tabwriterlabs/identity
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

// authn verifies the bearer token and loads the principal from the store.
func (r *Router) authn() httpx.Middleware {
	return httpx.Authenticate(r.verifier, r.principals)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints get the strict limit to slow brute force.
	r.Mux.Handle("POST /v1/users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.authn(),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSocial() {
	h := &SocialHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/users/social/{provider}",
		httpx.Chain(http.HandlerFunc(h.HandleSocialLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/users/forgot-password",
		httpx.Chain(http.HandlerFunc(h.HandleForgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/reset-password",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/users/change-password",
		httpx.Chain(http.HandlerFunc(h.HandleChange),
			r.authn(),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerInvites() {
	h := &InviteHandler{AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/users/invite",
		httpx.Chain(http.HandlerFunc(h.HandleInvite),
			r.authn(),
			httpx.RequireRole("ADMIN"),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	// Public: the invitee has no session yet.
	r.Mux.Handle("POST /v1/users/verify-invitation",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			r.authn(),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)

	admin := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			httpx.RequireRole("ADMIN"),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", admin(h.HandleList))
	r.Mux.Handle("GET /v1/users/{id}", admin(h.HandleGet))
	r.Mux.Handle("PUT /v1/users/{id}", admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/users/{id}", admin(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
