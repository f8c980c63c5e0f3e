package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/velocityrent/rental-portal/internal/api"
	"github.com/velocityrent/rental-portal/internal/core/service"
	"github.com/velocityrent/rental-portal/internal/infrastructure/config"
	"github.com/velocityrent/rental-portal/internal/infrastructure/fleetapi"
	"github.com/velocityrent/rental-portal/internal/infrastructure/sessionstore"
	"github.com/velocityrent/rental-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	rdb, err := sessionstore.Connect(ctx, sessionstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	fleet := fleetapi.New(fleetapi.Config{
		BaseURL:           cfg.FleetAPI.BaseURL,
		Timeout:           cfg.FleetAPI.Timeout,
		RequestsPerSecond: cfg.FleetAPI.RequestsPerSecond,
	}, log)

	// --- Services ---
	tokens := sessionstore.NewRedisTokenStore(rdb)
	svc := api.Services{
		Sessions:  service.NewSessionService(tokens, cfg.Session.TTL, log),
		Listings:  service.NewListingService(fleet, log),
		Details:   service.NewDetailService(fleet, cfg.FleetAPI.ImageBaseURL, log),
		Rentals:   service.NewRentalService(fleet, log),
		Inventory: service.NewInventoryService(fleet, cfg.Table.DefaultPageSize, log),
		Uploads:   service.NewUploadService(fleet, log),
		Dates:     service.NewDateContext(),
	}

	// --- Background sweeps ---
	// Per-browser view state and abandoned upload staging areas are held in
	// memory; sweep them so idle browsers don't pin memory forever.
	sweeper := cron.New()
	_, err = sweeper.AddFunc("@every 10m", func() {
		listings := svc.Listings.PurgeIdle(cfg.Table.ViewIdleTTL)
		inventory := svc.Inventory.PurgeIdle(cfg.Table.ViewIdleTTL)
		dates := svc.Dates.PurgeIdle(cfg.Table.ViewIdleTTL)
		stagings := svc.Uploads.PurgeExpired(cfg.Table.StagingTTL)
		log.Debug().
			Int("listing_views", listings).
			Int("inventory_views", inventory).
			Int("date_contexts", dates).
			Int("stagings", stagings).
			Msg("idle state sweep")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sweep schedule failed")
	}
	sweeper.Start()
	defer sweeper.Stop()

	// --- HTTP server ---
	e, err := api.NewRouter(cfg, svc, fleet, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("rental portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
