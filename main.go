// api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"visitlens/api/config"
	"visitlens/api/database"
	"visitlens/api/handlers"
	"visitlens/api/logger"
	"visitlens/api/observability"
	"visitlens/api/services"
	"visitlens/api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// --- PostgreSQL (admin users, contact requests, blog posts) ---
	dbClient, err := database.NewPostgresDB(startupCtx, cfg.DatabaseURL, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to initialize PostgreSQL database", zap.Error(err))
	}
	defer dbClient.Close()

	// --- ClickHouse (visit log) ---
	chClient, err := database.NewClickHouseDB(startupCtx, cfg.ClickHouse, zapLog)
	if err != nil {
		zapLog.Fatal("Failed to initialize ClickHouse database", zap.Error(err))
	}
	defer chClient.Close()

	visitStore := store.NewVisitStore(chClient.Conn, zapLog)
	contentStore := store.NewContentStore(dbClient.DB)
	userStore := store.NewUserStore(dbClient.DB)

	dashboards := services.NewDashboardService(visitStore, contentStore, cfg.Dashboard, metrics, zapLog)

	router := handlers.NewRouter(handlers.RouterDeps{
		Visits:         handlers.NewVisitHandlers(visitStore, metrics, zapLog, cfg.RequestTimeout),
		Stats:          handlers.NewStatsHandlers(dashboards, zapLog, cfg.RequestTimeout),
		Auth:           handlers.NewAuthHandlers(userStore, []byte(cfg.JWTSecret), cfg.Environment == "production", zapLog),
		Metrics:        metrics,
		Log:            zapLog,
		JWTSecret:      []byte(cfg.JWTSecret),
		AdminAPIKey:    cfg.AdminAPIKey,
		FrontendOrigin: cfg.FrontendOrigin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLog.Info("API server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("API server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLog.Info("Server exiting")
}
