package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apihttp "github.com/spec-kit/it-helpdesk/internal/api/http"
	"github.com/spec-kit/it-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/it-helpdesk/internal/auth"
	"github.com/spec-kit/it-helpdesk/internal/config"
	"github.com/spec-kit/it-helpdesk/internal/events"
	"github.com/spec-kit/it-helpdesk/internal/notify"
	"github.com/spec-kit/it-helpdesk/internal/observability"
	"github.com/spec-kit/it-helpdesk/internal/persistence"
	"github.com/spec-kit/it-helpdesk/internal/repository"
	"github.com/spec-kit/it-helpdesk/internal/service"
	"github.com/spec-kit/it-helpdesk/internal/upload"
	"github.com/spec-kit/it-helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	ticketRepo := repository.NewTicketRepository(postgres.PoolHandle())
	uploader := upload.NewCloudinaryUploader(cfg.Upload)
	mailer := notify.NewEmailJSMailer(cfg.Notification)

	identities, err := auth.NewStaticIdentityStore(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to build identity store", zap.Error(err))
	}
	sessions := auth.NewRedisSessionStore(redis.Client)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	gate := auth.NewGate()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Uploader:   uploader,
		Dispatcher: dispatcher,
		Upload:     cfg.Upload,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		Identities: identities,
		Sessions:   sessions,
		Tokens:     tokens,
	})
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(tokens, sessions, identities, gate)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})

	apihttp.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler(postgres, redis),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Auth:           handlers.NewAuthHandler(authService),
		Manager:        handlers.NewManagerHandler(ticketService),
		Staff:          handlers.NewStaffHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
