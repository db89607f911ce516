package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/wealthguard/internal/api/http"
	"github.com/spec-kit/wealthguard/internal/api/http/handlers"
	"github.com/spec-kit/wealthguard/internal/audit"
	"github.com/spec-kit/wealthguard/internal/auth"
	"github.com/spec-kit/wealthguard/internal/bootstrap"
	"github.com/spec-kit/wealthguard/internal/config"
	"github.com/spec-kit/wealthguard/internal/observability"
	"github.com/spec-kit/wealthguard/internal/persistence"
	"github.com/spec-kit/wealthguard/internal/repository"
	"github.com/spec-kit/wealthguard/internal/session"
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var auditOpts []audit.Option
	if cfg.Audit.LogToStdout {
		auditOpts = append(auditOpts, audit.WithSink(audit.NewLoggerSink(logger)))
	}
	if pg.Enabled() {
		auditOpts = append(auditOpts, audit.WithSink(repository.NewAuditRepository(pg.Pool)))
	}

	dependencies := map[string]handlers.Pinger{}
	if pg.Enabled() {
		dependencies["postgres"] = pg
	}

	var store session.Store
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		store = session.NewRedisStore(rdb.Client, cfg.Session.KeyPrefix, cfg.Auth.SessionTTL())
		dependencies["redis"] = rdb
	default:
		store = session.NewMemoryStore(cfg.Auth.SessionTTL())
	}

	metrics := observability.NewMetrics()
	core, err := bootstrap.NewCore(bootstrap.CoreOptions{
		SessionStore: store,
		AuditOptions: auditOpts,
		Metrics:      metrics,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("failed to build authorization core", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	authMiddleware := auth.NewAuthMiddleware(tokens, core.Portal)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Sessions:       handlers.NewSessionHandler(core.Portal, tokens),
		Identities:     handlers.NewIdentitiesHandler(core.Portal),
		Permissions:    handlers.NewPermissionsHandler(core.Portal),
		Audit:          handlers.NewAuditHandler(core.Portal),
		Portfolio:      handlers.NewPortfolioHandler(core.Portal),
		Metrics:        handlers.NewMetricsHandler(metrics),
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

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
