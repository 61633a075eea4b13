package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/sheet-analytics/internal/api/http"
	"github.com/spec-kit/sheet-analytics/internal/api/http/handlers"
	"github.com/spec-kit/sheet-analytics/internal/auth"
	"github.com/spec-kit/sheet-analytics/internal/cache"
	"github.com/spec-kit/sheet-analytics/internal/config"
	"github.com/spec-kit/sheet-analytics/internal/events"
	"github.com/spec-kit/sheet-analytics/internal/observability"
	"github.com/spec-kit/sheet-analytics/internal/persistence"
	"github.com/spec-kit/sheet-analytics/internal/repository"
	"github.com/spec-kit/sheet-analytics/internal/service"
	"github.com/spec-kit/sheet-analytics/internal/spreadsheet"
	"github.com/spec-kit/sheet-analytics/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	datasetRepo := repository.NewDatasetRepository(pool)

	store := cache.New(redis.Client, cfg.App.Name+":")
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger, store)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	parser := spreadsheet.NewParser(cfg.Upload.MaxRows)
	datasetService := service.NewDatasetService(datasetRepo, parser, store, dispatcher, logger)
	adminService := service.NewAdminService(userRepo, datasetRepo, store, dispatcher, logger)

	guard := auth.NewGuard(authService.TokenManager(), userRepo)
	guardMiddleware := auth.NewMiddleware(guard)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Upload.MaxFileSizeBytes()),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:     handlers.NewAuthHandler(authService),
		Datasets: handlers.NewDatasetsHandler(datasetService, cfg.Upload),
		Admin:    handlers.NewAdminHandler(adminService, metrics),
		Guard:    guardMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
