package routes

import (
	"opspulse/internal/adapters/http/handlers"
	"opspulse/internal/adapters/http/middleware"
	"opspulse/internal/adapters/persistence/repositories"
	"opspulse/internal/config"
	"opspulse/internal/core/rbac"
	"opspulse/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	metricRepo := repositories.NewMetricRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	fyRepo := repositories.NewFYConfigRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, roleRepo)
	metricService := services.NewMetricService(metricRepo)
	reportService := services.NewReportService(reportRepo, metricRepo)
	exportService := services.NewExportService(reportRepo, cfg)
	fyService := services.NewFYConfigService(fyRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	metricHandler := handlers.NewMetricHandler(metricService)
	reportHandler := handlers.NewReportHandler(reportService, exportService)
	fyHandler := handlers.NewFYConfigHandler(fyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Published export artifacts
	app.Static(cfg.Export.PublicPath, cfg.Export.Dir)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler,
		metricHandler, reportHandler, fyHandler, authService)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	metricHandler *handlers.MetricHandler,
	reportHandler *handlers.ReportHandler,
	fyHandler *handlers.FYConfigHandler,
	authService *services.AuthService,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	authenticated := middleware.AuthMiddleware(authService)

	// Auth routes (public, rate limited)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, authenticated)

	// User management routes (global admin)
	userRoutes := router.Group("/users")
	userRoutes.Use(authenticated)
	setupUserRoutes(userRoutes, userHandler)

	// Role catalogue and role requests
	roleRoutes := router.Group("/roles")
	roleRoutes.Use(authenticated)
	setupRoleRoutes(roleRoutes, userHandler)

	// Metric definitions (reads for everyone, writes for dashboard admins)
	metricRoutes := router.Group("/metrics")
	metricRoutes.Use(authenticated)
	setupMetricRoutes(metricRoutes, metricHandler)

	// Weekly reports, drafts, dashboard, aggregation and export
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(authenticated)
	setupReportRoutes(reportRoutes, reportHandler)

	// Fiscal-year configuration
	fyRoutes := router.Group("/fy-configs")
	fyRoutes.Use(authenticated)
	setupFYConfigRoutes(fyRoutes, fyHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, authenticated fiber.Handler) {
	// Public routes (5 req/min/IP against credential stuffing)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)

	// Protected routes
	router.Get("/me", authenticated, handler.Me)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", middleware.RequireCapability(rbac.CapGlobalAdmin), handler.ListUsers)

	// Role reassignment is reserved for superadmin
	router.Put("/:id/roles", middleware.RequireCapability(rbac.CapSuperAdmin), handler.UpdateUserRoles)
}

// setupRoleRoutes configures role catalogue and role request routes
func setupRoleRoutes(router fiber.Router, handler *handlers.UserHandler) {
	// Any authenticated user can browse roles and file a request
	router.Get("/", handler.ListRoles)
	router.Post("/requests", handler.RequestRole)
	router.Get("/requests/mine", handler.ListMyRoleRequests)

	// Reviewing and deciding requests is a global-admin concern
	router.Get("/requests", middleware.RequireCapability(rbac.CapGlobalAdmin), handler.ListRoleRequests)
	router.Patch("/requests/:id", middleware.RequireCapability(rbac.CapGlobalAdmin), handler.DecideRoleRequest)
}

// setupMetricRoutes configures metric definition routes
func setupMetricRoutes(router fiber.Router, handler *handlers.MetricHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	// Mutations require admin rights on the service dashboard
	sdAdmin := middleware.RequireCapability(rbac.DashboardAdmin(rbac.DashboardService))
	router.Post("/", sdAdmin, handler.Define)
	router.Put("/:id", sdAdmin, handler.Update)
	router.Delete("/:id", sdAdmin, handler.Delete)
}

// setupReportRoutes configures weekly report routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/", handler.List)
	router.Get("/quarterly", handler.Quarterly)
	router.Get("/dashboard", handler.Dashboard)

	sdAdmin := middleware.RequireCapability(rbac.DashboardAdmin(rbac.DashboardService))

	// Draft autosave is scoped per principal but still an admin activity
	router.Put("/draft", sdAdmin, handler.SaveDraft)
	router.Get("/draft", sdAdmin, handler.GetDraft)

	router.Post("/", sdAdmin, handler.Commit)
	router.Post("/export", sdAdmin, handler.Export)

	// Named routes above must register before the ID wildcard
	router.Get("/:id", handler.Get)
	router.Put("/:id", sdAdmin, handler.Update)
	router.Delete("/:id", sdAdmin, handler.Delete)
}

// setupFYConfigRoutes configures fiscal-year configuration routes
func setupFYConfigRoutes(router fiber.Router, handler *handlers.FYConfigHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	sdAdmin := middleware.RequireCapability(rbac.DashboardAdmin(rbac.DashboardService))
	router.Post("/", sdAdmin, handler.Create)
	router.Put("/:id", sdAdmin, handler.Update)
	router.Delete("/:id", sdAdmin, handler.Delete)
}
