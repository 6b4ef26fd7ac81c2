package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mediconnect/omnichannel-platform/internal/agent"
	"github.com/mediconnect/omnichannel-platform/internal/api/router"
	appconfig "github.com/mediconnect/omnichannel-platform/internal/config"
	"github.com/mediconnect/omnichannel-platform/internal/events"
	"github.com/mediconnect/omnichannel-platform/internal/identity"
	"github.com/mediconnect/omnichannel-platform/internal/manager"
	"github.com/mediconnect/omnichannel-platform/internal/notify"
	"github.com/mediconnect/omnichannel-platform/internal/observability/metrics"
	"github.com/mediconnect/omnichannel-platform/internal/patient"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

func main() {
	// Load .env in development; ignored when the file is absent.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting mediconnect API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Redis backs the durable session and the registered-user store.
	redisClient := redis.NewClient(redisOptions(cfg))
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	cancelPing()

	// Registered users live in Postgres when DATABASE_URL is set,
	// otherwise in Redis alongside the session.
	var userRepo identity.Repository = identity.NewRedisRepository(redisClient)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		userRepo = identity.NewPostgresRepository(pool)
		logger.Info("using postgres user repository")
	}

	platformMetrics := metrics.NewPlatformMetrics(nil)

	bus := events.NewMemoryBus(cfg.NotifyBuffer)
	defer bus.Close()

	notifyService := notify.NewService(bus.Events(), 0, logger.Named("notify"))
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	defer stopNotify()
	go notifyService.Run(notifyCtx)

	identityService := identity.NewService(
		userRepo,
		identity.NewRedisSessionStore(redisClient, cfg.SessionTTL),
		logger.Named("identity"),
		identity.WithDelays(cfg.AuthDelay, cfg.RegisterDelay),
		identity.WithMetrics(platformMetrics),
	)

	conversationQueue := queue.NewSeeded()
	platformMetrics.SetQueuePending(conversationQueue.CountPending())
	registry := agent.NewRegistry(conversationQueue, bus, platformMetrics)

	managerService := manager.NewService(conversationQueue, registry,
		setupAlerts(cfg, logger.Named("notify")), logger.Named("manager"))
	patientService := patient.NewService(bus, logger.Named("patient"))

	// Keep the pending gauge tracking queue state.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-notifyCtx.Done():
				return
			case <-ticker.C:
				platformMetrics.SetQueuePending(conversationQueue.CountPending())
			}
		}
	}()

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		Sessions:           identityService,
		SessionCookie:      cfg.SessionCookie,
		IdentityHandler:    identity.NewHandler(identityService, bus, cfg.SessionCookie, logger.Named("identity")),
		QueueHandler:       queue.NewHandler(conversationQueue, logger.Named("queue")),
		AgentHandler:       agent.NewHandler(registry, logger.Named("agent")),
		ManagerHandler:     manager.NewHandler(managerService, logger.Named("manager")),
		PatientHandler:     patient.NewHandler(patientService, logger.Named("patient")),
		NotifyHandler:      notify.NewHandler(notifyService),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:      5,
		AuthRateBurst:      10,
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func redisOptions(cfg *appconfig.Config) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// setupAlerts wires the assume-alert e-mail path. It returns nil unless
// both a SendGrid key and a recipient are configured.
func setupAlerts(cfg *appconfig.Config, logger *logging.Logger) manager.AlertSender {
	sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if sender == nil {
		return nil
	}
	if alerts := notify.NewAssumeAlerts(sender, cfg.ManagerAlertEmail); alerts != nil {
		return alerts
	}
	return nil
}
