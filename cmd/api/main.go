package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fitops/studio-support/internal/api/http"
	"github.com/fitops/studio-support/internal/api/http/handlers"
	"github.com/fitops/studio-support/internal/config"
	"github.com/fitops/studio-support/internal/events"
	"github.com/fitops/studio-support/internal/observability"
	"github.com/fitops/studio-support/internal/persistence"
	"github.com/fitops/studio-support/internal/repository"
	"github.com/fitops/studio-support/internal/service"
	"github.com/fitops/studio-support/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)

	if cfg.Postgres.SeedRouting && pool != nil {
		if err := service.SeedDepartments(ctx, departmentRepo, logger); err != nil {
			logger.Fatal("failed to seed departments", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		MessageRepo:    messageRepo,
		DepartmentRepo: departmentRepo,
		HistoryRepo:    historyRepo,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
	})
	slaService := service.NewSLAService(service.SLADependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: historyRepo,
		Marker:      redis,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
		AlertTTL:    cfg.SLA.AlertTTL(),
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	worker.StartSLAWorker(ctx, slaService, cfg.SLA.SweepInterval(), logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Triage:  handlers.NewTriageHandler(ticketService),
		Tickets: handlers.NewTicketsHandler(ticketService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
