package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/spareshop-api/internal/config"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/handler"
	"github.com/sangkips/spareshop-api/internal/presentation/http/middleware"
	"github.com/sangkips/spareshop-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product        *handler.ProductHandler
	Category       *handler.CategoryHandler
	Agent          *handler.AgentHandler
	Sale           *handler.SaleHandler
	Reconciliation *handler.ReconciliationHandler
	Dashboard      *handler.DashboardHandler
	Audit          *handler.AuditHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	// HealthCheck reports whether the database is reachable
	HealthCheck func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes. Background work
// owned by the router, such as limiter cleanup, stops when ctx is done.
func Setup(ctx context.Context, h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		if deps.HealthCheck != nil {
			checkCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.HealthCheck(checkCtx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "unavailable",
					"service":  deps.Cfg.App.Name,
					"database": "down",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  deps.Cfg.App.Name,
			"database": "up",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		window := time.Duration(deps.Cfg.RateLimit.Duration) * time.Second
		rateLimiter := middleware.NewUserRateLimiter(ctx, middleware.NewRateLimiterConfig(deps.Cfg.RateLimit.Requests, window))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	ownerOnly := middleware.RequireRole(utils.RoleOwner)
	idempotent := middleware.IdempotencyRequired(middleware.IdempotencyConfig{
		Repo:   deps.IdempotencyRepo,
		Logger: deps.Logger,
	})

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	// Audit trail
	protected.GET("/audit-logs", ownerOnly, h.Audit.List)

	registerProductRoutes(protected, h, ownerOnly)
	registerCategoryRoutes(protected, h)
	registerAgentRoutes(protected, h, idempotent)
	registerSaleRoutes(protected, h, ownerOnly, idempotent)
	registerReconciliationRoutes(protected, h, ownerOnly)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers, ownerOnly gin.HandlerFunc) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", ownerOnly, h.Product.Delete)
		products.GET("/:id/verify-stock", h.Product.VerifyStock)
		products.POST("/:id/adjust", ownerOnly, h.Product.Adjust)
	}

	movements := protected.Group("/movements")
	{
		movements.GET("", h.Product.ListMovements)
		movements.POST("", h.Product.RecordMovement)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerAgentRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	agents := protected.Group("/agents")
	{
		agents.GET("", h.Agent.List)
		agents.POST("", h.Agent.Create)
		agents.GET("/:id", h.Agent.Get)
		agents.PUT("/:id", h.Agent.Update)
		agents.DELETE("/:id", h.Agent.Delete)
		agents.GET("/:id/debt-summary", h.Agent.DebtSummary)
		agents.GET("/:id/ledger", h.Agent.Ledger)
		agents.GET("/:id/payments", h.Agent.Payments)
		// Money-moving operations require an Idempotency-Key
		agents.POST("/:id/transfers", idempotent, h.Agent.Transfer)
		agents.POST("/:id/payments", idempotent, h.Agent.RecordPayment)
		agents.POST("/:id/returns", idempotent, h.Agent.Return)
	}
}

func registerSaleRoutes(protected *gin.RouterGroup, h *Handlers, ownerOnly, idempotent gin.HandlerFunc) {
	sales := protected.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.POST("", idempotent, h.Sale.Create)
		sales.GET("/daily-summary", h.Sale.DailySummary)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/reverse", ownerOnly, h.Sale.Reverse)
	}
}

func registerReconciliationRoutes(protected *gin.RouterGroup, h *Handlers, ownerOnly gin.HandlerFunc) {
	reconciliations := protected.Group("/reconciliations")
	{
		reconciliations.GET("", h.Reconciliation.List)
		reconciliations.POST("", h.Reconciliation.Start)
		reconciliations.GET("/:id", h.Reconciliation.Get)
		reconciliations.POST("/:id/counts", h.Reconciliation.AddCount)
		reconciliations.POST("/:id/complete", h.Reconciliation.Complete)
		reconciliations.POST("/:id/approve", ownerOnly, h.Reconciliation.Approve)
		reconciliations.POST("/:id/reject", ownerOnly, h.Reconciliation.Reject)
	}
}
