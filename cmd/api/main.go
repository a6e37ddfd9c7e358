// Package main is the entry point for the truck trip tracker API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/truck-tracker/internal/auth"
	"github.com/pkordes/truck-tracker/internal/config"
	"github.com/pkordes/truck-tracker/internal/handler"
	"github.com/pkordes/truck-tracker/internal/middleware"
	"github.com/pkordes/truck-tracker/internal/service"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Missing credentials fall back to placeholders; startup continues.
	for _, w := range cfg.Warnings {
		slog.Warn("configuration warning", "warning", w)
	}

	// --- Trip Store -------------------------------------------------------
	trips, closeStore, err := openTripRepo(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open trip store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	tripSvc := service.NewTripService(trips, logger)
	dashboardSvc := service.NewDashboardService(tripSvc, nil)
	verifier := auth.NewVerifier(cfg.AuthJWTSecret)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → MaxBodySize. Authentication is applied per route group inside
	// handler.Server so /healthz stays public.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(tripSvc, dashboardSvc, verifier, auth.Middleware(verifier))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server", "grace", cfg.ShutdownTimeout.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
