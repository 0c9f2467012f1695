package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/spareshop-api/internal/application/service"
	"github.com/sangkips/spareshop-api/internal/config"
	domainRepo "github.com/sangkips/spareshop-api/internal/domain/repository"
	"github.com/sangkips/spareshop-api/internal/infrastructure/database"
	"github.com/sangkips/spareshop-api/internal/infrastructure/repository"
	"github.com/sangkips/spareshop-api/internal/presentation/http/handler"
	"github.com/sangkips/spareshop-api/internal/presentation/http/routes"
	"github.com/sangkips/spareshop-api/pkg/logger"
	"github.com/sangkips/spareshop-api/pkg/utils"
	"go.uber.org/zap"
)

const idempotencySweepInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, zlog); err != nil {
		zlog.Warn("Failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)

	// Initialize repositories
	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db, cfg.Database.LockTimeout)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	inventoryService := service.NewInventoryService(repos, uow, zlog)
	categoryService := service.NewCategoryService(repos.Categories)
	agentService := service.NewAgentService(repos, uow, zlog)
	salesService := service.NewSalesService(repos, uow, zlog)
	reconciliationService := service.NewReconciliationService(repos, uow, zlog)
	dashboardService := service.NewDashboardService(repos)
	auditService := service.NewAuditService(repos.Audit)

	// Initialize handlers
	handlers := &routes.Handlers{
		Product:        handler.NewProductHandler(inventoryService),
		Category:       handler.NewCategoryHandler(categoryService),
		Agent:          handler.NewAgentHandler(agentService),
		Sale:           handler.NewSaleHandler(salesService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
		Dashboard:      handler.NewDashboardHandler(dashboardService),
		Audit:          handler.NewAuditHandler(auditService),
	}

	// Setup routes
	router := routes.Setup(ctx, handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          zlog,
		IdempotencyRepo: idempotencyRepo,
		HealthCheck: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	go sweepIdempotencyKeys(ctx, idempotencyRepo, zlog)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", cfg.App.Port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server shutdown failed", zap.Error(err))
	}
}

// sweepIdempotencyKeys deletes expired keys until ctx is done
func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, zlog *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				zlog.Warn("Failed to delete expired idempotency keys", zap.Error(err))
				continue
			}
			if removed > 0 {
				zlog.Debug("Deleted expired idempotency keys", zap.Int64("count", removed))
			}
		}
	}
}
