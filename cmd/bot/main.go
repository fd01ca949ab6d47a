package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/roomfinder-bot/internal/config"
	"github.com/noah-isme/roomfinder-bot/internal/database"
	"github.com/noah-isme/roomfinder-bot/internal/gateway/telegram"
	"github.com/noah-isme/roomfinder-bot/internal/handler"
	"github.com/noah-isme/roomfinder-bot/internal/middleware"
	"github.com/noah-isme/roomfinder-bot/internal/repository"
	"github.com/noah-isme/roomfinder-bot/internal/router"
	"github.com/noah-isme/roomfinder-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	buildingRepo := repository.NewBuildingRepository(db)
	floorRepo := repository.NewFloorRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	activityRepo := repository.NewUserActivityRepository(db)

	seedService := service.NewSeedService(buildingRepo, floorRepo, classroomRepo, service.DefaultBuildings, logger)
	if _, err := seedService.Seed(ctx); err != nil {
		log.Fatalf("failed to seed campus data: %v", err)
	}

	var offsets telegram.OffsetStore
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		offsets = telegram.NewRedisOffsetStore(redisClient, telegram.DefaultOffsetKey)
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	lookupService := service.NewLookupService(buildingRepo, floorRepo, classroomRepo, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	searchEvents := service.NewNATSSearchPublisher(natsConn, cfg.NATSSubject, logger)
	dispatcher := service.NewDispatcherService(lookupService, activityService, searchEvents, validate, logger)

	client := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Telegram.PollTimeout, logger)
	me, err := client.GetMe(ctx)
	if err != nil {
		log.Fatalf("failed to reach telegram: %v", err)
	}
	logger.Info().Str("bot", me.FirstName).Str("username", me.Username).Msg("bot started")

	botHandler := handler.NewBotHandler(dispatcher, client, validate, cfg.Telegram.WebhookSecret, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{BotHandler: botHandler})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		if err := client.SetWebhook(ctx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret, cfg.Telegram.DropPending); err != nil {
			log.Fatalf("failed to register webhook: %v", err)
		}
		logger.Info().Str("url", cfg.Telegram.WebhookURL).Msg("webhook registered")
		<-ctx.Done()
	default:
		if err := client.DeleteWebhook(ctx, cfg.Telegram.DropPending); err != nil {
			log.Fatalf("failed to clear webhook: %v", err)
		}
		poller := telegram.NewPoller(client, botHandler, offsets, cfg.Telegram.PollTimeout, cfg.Telegram.Workers, logger)
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("poller stopped unexpectedly")
		}
	}

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
