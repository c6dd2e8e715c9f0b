package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/cache"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/notifier"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
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
	agentRepo := repository.NewAgentRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	uow := repository.NewUnitOfWork(pool)

	ticketCache := cache.NewTicketCache(redis.ClientHandle(), cfg.Cache.TicketTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher()
	balancer := service.NewBalancer()

	var sink notifier.Notifier
	if cfg.Notification.WebhookURL != "" {
		sink = notifier.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.WebhookTimeout())
	} else {
		sink = notifier.NewLogNotifier(logger, cfg.Notification.EmailFrom)
	}
	notificationWorker := worker.NewNotificationWorker(cfg.Worker.QueueSize, sink, logger)
	go notificationWorker.Run(ctx)

	notificationService := service.NewNotificationService(dispatcher, customerRepo, notificationWorker, logger)
	notificationService.RegisterHandlers()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		UnitOfWork: uow,
		Balancer:   balancer,
		Cache:      ticketCache,
		Dispatcher: dispatcher,
	})
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		UnitOfWork: uow,
		Cache:      ticketCache,
		Dispatcher: dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo: ticketRepo,
		AgentRepo:  agentRepo,
		UnitOfWork: uow,
		Cache:      ticketCache,
		Dispatcher: dispatcher,
	})
	agentService := service.NewAgentService(agentRepo)
	customerService := service.NewCustomerService(customerRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:   handlers.NewTicketsHandler(ticketService, lifecycleService, assignmentService),
		Agents:    handlers.NewAgentsHandler(agentService),
		Customers: handlers.NewCustomersHandler(customerService),
		Metrics:   metrics,
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
