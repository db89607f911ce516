package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wealthguard/internal/api/http/handlers"
	"github.com/spec-kit/wealthguard/internal/auth"
	"github.com/spec-kit/wealthguard/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sessions       *handlers.SessionHandler
	Identities     *handlers.IdentitiesHandler
	Permissions    *handlers.PermissionsHandler
	Audit          *handlers.AuditHandler
	Portfolio      *handlers.PortfolioHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Sessions.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireSession())
	protected.Post("/auth/logout", cfg.Sessions.Logout)
	protected.Get("/me", cfg.Sessions.Me)
	protected.Post("/impersonation", cfg.Sessions.StartImpersonation)
	protected.Delete("/impersonation", cfg.Sessions.StopImpersonation)

	protected.Get("/identities", cfg.Identities.List)
	protected.Post("/identities", cfg.Identities.Create)
	protected.Patch("/identities/:id", cfg.Identities.Update)
	protected.Delete("/identities/:id", cfg.Identities.Delete)

	matrix := protected.Group("/permissions", auth.RequireRole(domain.RoleSuperAdmin))
	matrix.Get("", cfg.Permissions.List)
	matrix.Put("/:role/:capability", cfg.Permissions.Set)

	protected.Get("/audit-logs", cfg.Audit.List)
	protected.Get("/metrics", auth.RequireRole(domain.RoleSuperAdmin), cfg.Metrics.Snapshot)

	protected.Get("/families/:id/members", cfg.Portfolio.Members)
	protected.Post("/families/:id/members", cfg.Portfolio.AddMember)
	protected.Delete("/families/:id/members/:memberId", cfg.Portfolio.DeleteMember)
	protected.Get("/families/:id/summary", cfg.Portfolio.Summary)
	protected.Get("/families/:id/assets", cfg.Portfolio.Assets)
	protected.Post("/families/:id/assets", cfg.Portfolio.AddAsset)
	protected.Delete("/assets/:id", cfg.Portfolio.DeleteAsset)
	protected.Get("/families/:id/documents", cfg.Portfolio.Documents)
	protected.Post("/families/:id/documents", cfg.Portfolio.AddDocument)
	protected.Get("/documents/:id/download", cfg.Portfolio.DownloadDocument)
}
