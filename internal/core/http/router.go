package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/stafflane/stafflane/internal/core/domain"
	"github.com/stafflane/stafflane/internal/core/service"
	"github.com/stafflane/stafflane/internal/core/store"
	"github.com/stafflane/stafflane/pkg/httpx"
	"github.com/stafflane/stafflane/pkg/jwtx"
	"github.com/stafflane/stafflane/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	LoginService     *service.LoginService
	AuthorizeService *service.AuthorizeService
	ScopeService     *service.ScopeService
	HierarchyService *service.HierarchyService
	IdentityService  *service.IdentityService
	TenantService    *service.TenantService
	AuditService     *service.AuditService
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerTenants()
	r.registerIdentities()
	r.registerAudit()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	loginHandler := &LoginHandler{LoginService: r.LoginService}

	// Login is the credential-stuffing target, so it gets the strict limit.
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	me := &MeHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(me.HandleGet),
			gate(r.AuthorizeService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// Password changes share the login bucket's strictness.
	r.Mux.Handle("PUT /v1/me/password",
		httpx.Chain(http.HandlerFunc(me.HandleChangePassword),
			gate(r.AuthorizeService),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTenants() {
	h := &TenantHandler{TenantService: r.TenantService, ScopeService: r.ScopeService}

	r.Mux.Handle("GET /v1/tenants",
		httpx.Chain(http.HandlerFunc(h.List),
			gate(r.AuthorizeService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/tenants",
		httpx.Chain(http.HandlerFunc(h.Create),
			gate(r.AuthorizeService, domain.RoleSuperAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/tenants/switch",
		httpx.Chain(http.HandlerFunc(h.Switch),
			gate(r.AuthorizeService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/tenants/{id}/members",
		httpx.Chain(http.HandlerFunc(h.AddMember),
			gate(r.AuthorizeService, domain.AdminRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/tenants/{id}/members/{identity_id}",
		httpx.Chain(http.HandlerFunc(h.RemoveMember),
			gate(r.AuthorizeService, domain.AdminRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerIdentities() {
	h := &IdentityHandler{IdentityService: r.IdentityService, HierarchyService: r.HierarchyService}

	// The team view is downline-scoped inside the service, so every staff
	// role may call it; external roles may not.
	r.Mux.Handle("GET /v1/team",
		httpx.Chain(&TeamHandler{IdentityService: r.IdentityService},
			gate(r.AuthorizeService, domain.StaffRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/identities",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			gate(r.AuthorizeService, domain.HRRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/identities",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			gate(r.AuthorizeService, domain.HRRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/identities/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleChangeRole),
			gate(r.AuthorizeService, domain.AdminRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/identities/{id}/active",
		httpx.Chain(http.HandlerFunc(h.HandleSetActive),
			gate(r.AuthorizeService, domain.HRRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/identities/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			gate(r.AuthorizeService, domain.AdminRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PUT /v1/identities/{id}/manager",
		httpx.Chain(http.HandlerFunc(h.HandleAssignManager),
			gate(r.AuthorizeService, domain.HRRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAudit() {
	r.Mux.Handle("GET /v1/audit",
		httpx.Chain(&AuditHandler{AuditService: r.AuditService},
			gate(r.AuthorizeService, domain.AdminRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Monitoring systems may poll frequently, so the health endpoints get
	// the lenient limit.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
