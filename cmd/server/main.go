package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aerolinea/booking-backend/internal/config"
	"github.com/aerolinea/booking-backend/internal/database"
	"github.com/aerolinea/booking-backend/internal/handlers"
	"github.com/aerolinea/booking-backend/internal/router"
	"github.com/aerolinea/booking-backend/internal/service"
	ws "github.com/aerolinea/booking-backend/internal/websocket"
	"github.com/aerolinea/booking-backend/pkg/logger"
	"github.com/aerolinea/booking-backend/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatal("failed to create database pool", "error", err)
	}
	if err := pool.Ping(ctx); err != nil {
		cancel()
		log.Fatal("failed to reach database", "error", err)
	}
	cancel()
	defer pool.Close()

	repo := database.NewRepository(pool)
	m := metrics.New(cfg.MetricsNamespace, prometheus.DefaultRegisterer)

	hub := ws.NewHub(log)
	go hub.Run()

	bookingService := service.NewBookingService(repo, log, m, hub)
	flightService := service.NewFlightService(repo, log, m, hub)

	h := handlers.NewHandler(bookingService, flightService, log)
	r := router.SetupRouter(h, hub, log, cfg.CORSOrigin)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
