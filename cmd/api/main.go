package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sales-dashboard/internal/api/http"
	"github.com/spec-kit/sales-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/sales-dashboard/internal/auth"
	"github.com/spec-kit/sales-dashboard/internal/cache"
	"github.com/spec-kit/sales-dashboard/internal/config"
	"github.com/spec-kit/sales-dashboard/internal/events"
	"github.com/spec-kit/sales-dashboard/internal/observability"
	"github.com/spec-kit/sales-dashboard/internal/persistence"
	"github.com/spec-kit/sales-dashboard/internal/repository"
	"github.com/spec-kit/sales-dashboard/internal/service"
	"github.com/spec-kit/sales-dashboard/internal/store"
	"github.com/spec-kit/sales-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	rows := newRowStore(cfg, pg, logger)
	snapshots := newSnapshotCache(ctx, redis, logger)

	planLocation, err := time.LoadLocation(cfg.Plan.Timezone)
	if err != nil {
		logger.Warn("unknown plan timezone, using UTC", zap.String("timezone", cfg.Plan.Timezone))
		planLocation = time.UTC
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	userRepo := repository.NewUserRepository(rows, cfg.Sheets.UsersTable)
	portfolioRepo := repository.NewPortfolioRepository(rows, cfg.Sheets.PortfolioTable)
	planRepo := repository.NewPlanRepository(rows, cfg.Sheets.PlanTable)

	directoryService := service.NewDirectoryService(userRepo, snapshots, cfg.Cache.UsersTTL(), dispatcher, metrics)
	authService := service.NewAuthService(cfg.Auth, directoryService, dispatcher)
	portfolioService := service.NewPortfolioService(portfolioRepo, snapshots, cfg.Cache.PortfolioTTL(), dispatcher, metrics)
	planService := service.NewPlanService(planRepo, dispatcher, planLocation)
	analyticsService := service.NewAnalyticsService(portfolioService)

	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), directoryService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, directoryService, portfolioService, logger),
		Portfolio:      handlers.NewPortfolioHandler(portfolioService),
		Plan:           handlers.NewPlanHandler(planService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newRowStore picks the row store backend: the shared spreadsheet when
// credentials are configured, Postgres when a DSN is, else an empty
// in-process store.
func newRowStore(cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) store.RowStore {
	if cfg.Sheets.SpreadsheetID != "" && cfg.Sheets.CredentialsFile != "" {
		sheets, err := store.NewSheetsStore(cfg.Sheets, logger)
		if err != nil {
			logger.Fatal("failed to init sheets store", zap.Error(err))
		}
		logger.Info("using google sheets row store", zap.String("spreadsheet", cfg.Sheets.SpreadsheetID))
		return sheets
	}
	if pg.PoolHandle() != nil {
		logger.Info("using postgres row store")
		return store.NewPostgresStore(pg.PoolHandle())
	}
	logger.Warn("no sheets credentials or postgres DSN; using empty in-memory row store")
	memory := store.NewMemoryStore()
	memory.Seed(cfg.Sheets.UsersTable, []string{"staff_id", "username", "branch", "role", "allowed_sources", "is_active", "created_at"})
	memory.Seed(cfg.Sheets.PortfolioTable, []string{"Name", "Sender_Name", "Source_Channel", "Tel", "Business", "Amount", "Potential"})
	memory.Seed(cfg.Sheets.PlanTable, []string{"start", "end", "date", "activity", "location", "num_customers", "customer_name", "customer_contact", "customer_business", "staff_id", "submitted_at"})
	return memory
}

// newSnapshotCache prefers Redis so multiple instances share one freshness
// window, falling back to a per-process cache.
func newSnapshotCache(ctx context.Context, redis *persistence.Redis, logger *zap.Logger) cache.Cache {
	if redis.Available(ctx) {
		return cache.NewRedisCache(redis.Client)
	}
	logger.Warn("redis unavailable; snapshot caches are per-process")
	return cache.NewMemoryCache()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
