package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-core/internal/api/http"
	"github.com/spec-kit/helpdesk-core/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-core/internal/auth"
	"github.com/spec-kit/helpdesk-core/internal/cache"
	"github.com/spec-kit/helpdesk-core/internal/config"
	"github.com/spec-kit/helpdesk-core/internal/domain"
	"github.com/spec-kit/helpdesk-core/internal/events"
	"github.com/spec-kit/helpdesk-core/internal/gateway"
	"github.com/spec-kit/helpdesk-core/internal/gateway/httpapi"
	"github.com/spec-kit/helpdesk-core/internal/gateway/postgres"
	"github.com/spec-kit/helpdesk-core/internal/lifecycle"
	"github.com/spec-kit/helpdesk-core/internal/observability"
	"github.com/spec-kit/helpdesk-core/internal/persistence"
	"github.com/spec-kit/helpdesk-core/internal/service"
	"github.com/spec-kit/helpdesk-core/internal/worker"
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

	var (
		gw gateway.TicketGateway
		pg *persistence.Postgres
	)
	switch cfg.Upstream.Mode {
	case config.GatewayPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		gw = postgres.NewStore(pg.PoolHandle())
	default:
		gw = httpapi.NewClient(cfg.Upstream.BaseURL,
			httpapi.WithToken(cfg.Upstream.Token),
			httpapi.WithTimeout(cfg.Upstream.Timeout()))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	metricsCache := cache.NewMetricsCache(redis, cfg.Worker.CacheTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher(logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Gateway:    gw,
		Engine:     lifecycle.NewEngine(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Cache:      metricsCache,
		Logger:     logger,
	})
	reportService := service.NewReportService(gw, metricsCache, logger)
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	refreshWorker := worker.NewRefreshWorker(reportService, cfg.Worker, logger)
	if err := refreshWorker.Start(); err != nil {
		logger.Fatal("failed to start refresh worker", zap.Error(err))
	}
	defer refreshWorker.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	directory := auth.NewDirectory()
	seedAccounts(directory, cfg.Auth.BcryptCost, logger)
	authMiddleware := auth.NewMiddleware(tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(directory, tokens),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Complaints:     handlers.NewComplaintsHandler(ticketService),
		Reports:        handlers.NewReportsHandler(reportService, metrics),
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

// seedAccounts registers the development accounts. Production deployments
// authenticate against the upstream directory and never hit these.
func seedAccounts(directory *auth.Directory, bcryptCost int, logger *zap.Logger) {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		return
	}
	seeds := []struct {
		username string
		actor    domain.Actor
	}{
		{"worker", domain.Actor{ID: 1, Name: "Worker", Role: domain.RoleWorker, Classification: domain.ClassificationStandard}},
		{"tech", domain.Actor{ID: 2, Name: "Technician", Role: domain.RoleTechnician, Classification: domain.ClassificationStandard}},
		{"admin", domain.Actor{ID: 3, Name: "Administrator", Role: domain.RoleAdmin, Classification: domain.ClassificationManager}},
	}
	for _, seed := range seeds {
		if err := directory.Register(seed.username, password, bcryptCost, seed.actor); err != nil {
			logger.Warn("failed to seed account", zap.String("username", seed.username), zap.Error(err))
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
