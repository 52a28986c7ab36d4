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

	"github.com/DavidK2709/dcbot/internal/api"
	apihandlers "github.com/DavidK2709/dcbot/internal/api/handlers"
	"github.com/DavidK2709/dcbot/internal/auth"
	"github.com/DavidK2709/dcbot/internal/bot"
	"github.com/DavidK2709/dcbot/internal/config"
	"github.com/DavidK2709/dcbot/internal/directory"
	"github.com/DavidK2709/dcbot/internal/events"
	"github.com/DavidK2709/dcbot/internal/handlers"
	"github.com/DavidK2709/dcbot/internal/intake"
	"github.com/DavidK2709/dcbot/internal/observability"
	"github.com/DavidK2709/dcbot/internal/platform"
	"github.com/DavidK2709/dcbot/internal/registry"
	"github.com/DavidK2709/dcbot/internal/store"
	"github.com/DavidK2709/dcbot/internal/worker"
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

	ticketStore := store.New(cfg.Storage.TicketsPath, cfg.Storage.ArchivePath, cfg.Storage.BackupDir, logger)
	reg := registry.New(ticketStore, cfg.Reasons, logger, registry.Options{
		BatchSize:  cfg.Bot.InitBatchSize,
		BatchPause: cfg.Bot.InitBatchPause(),
		MaxRetries: cfg.Bot.MaxRetries,
	})

	// The in-memory client stands in for a real gateway adapter; every
	// component downstream only sees the platform.Client interface.
	client := platform.NewInMemoryClient()

	redisClient := directory.NewRedis(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}
	memberDir := directory.New(client, redisClient, cfg.Redis.MemberTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	registerEventLog(dispatcher, client, cfg.Bot.LogChannelID, logger)

	intakeSvc := intake.NewService(reg, client, cfg.Departments, cfg.Reasons,
		cfg.Bot.AdminRoles, cfg.Bot.RescueRoles, dispatcher, logger)

	renames := worker.NewRenameScheduler(cfg.Bot.RenameDelay(), logger)
	defer renames.Stop()

	env := &handlers.Env{
		Registry:      reg,
		Client:        client,
		Directory:     memberDir,
		Catalog:       cfg.Reasons,
		Departments:   cfg.Departments,
		AdminRoles:    cfg.Bot.AdminRoles,
		RescueRoles:   cfg.Bot.RescueRoles,
		Intake:        intakeSvc,
		Dispatcher:    dispatcher,
		Renames:       renames,
		Logger:        logger,
		Now:           time.Now,
		Location:      cfg.Bot.Location(),
		DefaultOffset: time.Duration(cfg.Bot.AppointmentOffsetMinutes) * time.Minute,
	}

	backups, err := worker.NewBackupRunner(ticketStore, cfg.Storage.BackupSchedule, logger)
	if err != nil {
		logger.Fatal("invalid backup schedule", zap.Error(err))
	}
	backups.Start()
	defer backups.Stop()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	metrics := observability.NewMetrics()
	api.RegisterMiddlewares(app, logger, metrics, 0)
	api.RegisterRoutes(app, api.RouteConfig{
		Health:         apihandlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, reg, redisClient),
		Tickets:        apihandlers.NewTicketsHandler(reg),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	b := bot.New(client, reg, intakeSvc, env, cfg.Bot, logger)
	go b.Run(ctx)

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

// registerEventLog mirrors every domain event into the central log
// channel and the structured log.
func registerEventLog(dispatcher events.Dispatcher, client platform.Client, logChannelID string, logger *zap.Logger) {
	eventTypes := []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketScheduled,
		events.EventAppointmentDone,
		events.EventTicketClosed,
		events.EventTicketReopened,
		events.EventTicketReset,
		events.EventTicketDeleted,
	}
	for _, eventType := range eventTypes {
		dispatcher.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			logger.Info("ticket event",
				zap.String("type", string(event.Type)),
				zap.String("channelId", event.ChannelID),
				zap.String("actor", event.Actor))
			if logChannelID == "" {
				return nil
			}
			content := event.Actor + ": " + string(event.Type) + " in <#" + event.ChannelID + ">"
			if event.Detail != "" {
				content += " (" + event.Detail + ")"
			}
			_, err := client.SendMessage(ctx, logChannelID, platform.Outgoing{Content: content})
			return err
		})
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
