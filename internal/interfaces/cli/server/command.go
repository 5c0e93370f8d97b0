package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	appcheckin "safyra/internal/application/checkin"
	appcontact "safyra/internal/application/contact"
	appincident "safyra/internal/application/incident"
	appsos "safyra/internal/application/sos"
	"safyra/internal/domain/incident"
	"safyra/internal/infrastructure/config"
	"safyra/internal/infrastructure/database"
	"safyra/internal/infrastructure/detection"
	"safyra/internal/infrastructure/engine"
	"safyra/internal/infrastructure/geo"
	"safyra/internal/infrastructure/notifier"
	"safyra/internal/infrastructure/persistence/models"
	"safyra/internal/infrastructure/pubsub"
	"safyra/internal/infrastructure/repository"
	httpRouter "safyra/internal/interfaces/http"
	"safyra/internal/shared/goroutine"
	"safyra/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Safyra personal safety server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server",
		"environment", env,
		"version", "1.0.0")

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&models.PanicSessionModel{},
		&models.ContactModel{},
		&models.SOSRecordingModel{},
	); err != nil {
		logger.Fatal("failed to migrate database schema", "error", err)
	}

	log := logger.NewLogger()

	sessionRepo := repository.NewPanicSessionRepository(database.Get())
	contactRepo := repository.NewContactRepository(database.Get())
	sosRepo := repository.NewSOSRecordingRepository(database.Get())

	// History bus: local fan-out, with a Redis relay in front when a
	// shared deployment is configured.
	localBus := pubsub.NewLocalHistoryBus(log)
	var bus pubsub.HistoryBus = localBus

	var redisClient *redis.Client
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		relay := pubsub.NewRedisHistoryRelay(redisClient, localBus, log)
		bus = relay
		goroutine.SafeGo(log, "redis-history-relay", func() {
			if err := relay.Run(ctx); err != nil {
				log.Errorw("history relay stopped", "error", err)
			}
		})
	}

	channels := []notifier.Channel{
		notifier.NewContactsChannel(contactRepo, log),
		notifier.NewEmergencyServicesChannel(log),
		notifier.NewLocationShareChannel(log),
		notifier.NewRecordingChannel(log),
	}
	if cfg.Notifier.WebhookURL != "" {
		channels = append(channels, notifier.NewWebhookChannel(&cfg.Notifier, log))
	}
	escalator := notifier.NewEscalationNotifier(log, channels...)

	geoProvider := geo.NewHTTPProvider(&cfg.Geo, log)
	detectionClient := detection.NewClient(&cfg.Detection, log)

	checkinService := appcheckin.NewService(
		sessionRepo,
		geoProvider,
		escalator,
		bus,
		engine.NewRealClock(),
		cfg.Panic.TapIntervalSeconds,
		cfg.Panic.WarningThresholdSeconds,
		log,
	)
	defer checkinService.Shutdown()

	contactService := appcontact.NewService(contactRepo, log)
	sosService := appsos.NewService(sosRepo, bus, log)
	incidentService := appincident.NewService(detectionClient, detectionClient, sosRepo, log)

	// Resume every countdown that was running when the process last exited.
	if err := checkinService.RecoverAll(ctx); err != nil {
		log.Warnw("session recovery failed", "error", err)
	}

	if cfg.Detection.StreamEnabled {
		stream := detection.NewStreamSubscriber(cfg.Detection.BaseURL, detection.StreamHandlers{
			OnAlert: func(alert incident.WeaponAlert) {
				log.Infow("weapon alert received from detection backend",
					"alert_type", alert.AlertType,
					"timestamp", alert.Timestamp)
				bus.Publish()
			},
		}, log)
		goroutine.SafeGo(log, "detection-stream", func() {
			stream.Run(ctx)
		})
	}

	router := httpRouter.NewRouter(httpRouter.Services{
		Checkin:  checkinService,
		Contact:  contactService,
		SOS:      sosService,
		Incident: incidentService,
	}, detectionClient, redisClient, cfg, log)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
