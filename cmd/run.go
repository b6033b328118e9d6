package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wheelhouse/api"
	"wheelhouse/bot"
	"wheelhouse/config"
	"wheelhouse/events"
	"wheelhouse/infrastructure"
	"wheelhouse/infrastructure/observability"
	"wheelhouse/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)
	log.WithField("environment", cfg.Environment).Info("Starting wheelhouse...")

	eventBus := events.NewBus()

	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics.Subscribe(eventBus)

	uowFactory, closeStorage, err := openStorage(ctx, cfg, eventBus)
	if err != nil {
		return err
	}
	defer closeStorage()

	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		if err := natsClient.EnsureStream(infrastructure.StreamName, infrastructure.AllSubjects()); err != nil {
			natsClient.Close()
			return fmt.Errorf("failed to ensure NATS stream: %w", err)
		}
		infrastructure.NewNATSEventPublisher(natsClient, metrics).Subscribe(eventBus)
		log.Info("NATS event bridge enabled")
	}

	accountService := service.NewAccountService(uowFactory, cfg)
	spinService := service.NewSpinService(uowFactory, service.NewWheel(service.NewCryptoSource()), cfg)
	statsService := service.NewStatsService(uowFactory)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewServer(cfg, accountService, spinService, statsService).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var discordBot *bot.Bot
	if cfg.DiscordToken != "" {
		discordBot, err = bot.New(bot.Config{
			Token:   cfg.DiscordToken,
			GuildID: cfg.DiscordGuildID,
		}, accountService, spinService, statsService)
		if err != nil {
			_ = server.Close()
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
	} else {
		log.Info("DISCORD_TOKEN not set, Discord bot disabled")
	}

	log.Infof("Wheelhouse is running in %s mode", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.WithError(err).Error("HTTP server failed")
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if discordBot != nil {
		if err := discordBot.Close(); err != nil {
			log.Errorf("Error closing Discord bot: %v", err)
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}
