package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/salonkit/salon-service/internal/api/http"
	"github.com/salonkit/salon-service/internal/api/http/handlers"
	"github.com/salonkit/salon-service/internal/auth"
	"github.com/salonkit/salon-service/internal/config"
	"github.com/salonkit/salon-service/internal/events"
	"github.com/salonkit/salon-service/internal/observability"
	"github.com/salonkit/salon-service/internal/persistence"
	"github.com/salonkit/salon-service/internal/ratelimit"
	"github.com/salonkit/salon-service/internal/repository"
	"github.com/salonkit/salon-service/internal/service"
	"github.com/salonkit/salon-service/internal/worker"
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

	loginLimiter := ratelimit.New(redis.LimiterClient(), "login", cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow())
	defer loginLimiter.Stop()
	apiLimiter := ratelimit.New(redis.LimiterClient(), "api", cfg.RateLimit.APILimit, cfg.RateLimit.APIWindow())
	defer apiLimiter.Stop()

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	salonServiceRepo := repository.NewSalonServiceRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		StaffRepo:  staffRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	staffService := service.NewStaffService(*cfg, staffRepo)
	customerService := service.NewCustomerService(customerRepo)
	salonServiceService := service.NewSalonServiceService(salonServiceRepo)
	reservationService := service.NewReservationService(service.ReservationDependencies{
		ReservationRepo:  reservationRepo,
		CustomerRepo:     customerRepo,
		SalonServiceRepo: salonServiceRepo,
		StaffRepo:        staffRepo,
		Dispatcher:       dispatcher,
	})
	messageService := service.NewMessageService(messageRepo, customerRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), staffRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.App.Env == "production"})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Customers:      handlers.NewCustomersHandler(customerService),
		Reservations:   handlers.NewReservationsHandler(reservationService),
		Services:       handlers.NewServicesHandler(salonServiceService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Staff:          handlers.NewStaffHandler(staffService),
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
		APILimiter:     apiLimiter,
		Logger:         logger,
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
