package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/phage-catalogue/platform/pkg/app"
	"github.com/phage-catalogue/platform/pkg/common/config"
	"github.com/phage-catalogue/platform/pkg/common/logger"
	"github.com/phage-catalogue/platform/pkg/lookups"
	"github.com/phage-catalogue/platform/pkg/middleware"
	"github.com/phage-catalogue/platform/pkg/observability/metrics"
	"github.com/phage-catalogue/platform/pkg/specimens"
	"github.com/phage-catalogue/platform/pkg/uploads"
)

func main() {
	logger.Init()
	cfg := config.Load()

	catalogue, err := app.New(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialise catalogue")
	}
	defer catalogue.Close()

	if err := catalogue.Migrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate database")
	}

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := catalogue.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			logger.Log.WithError(err).Warn("Readiness check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	uploads.NewHandler(catalogue.Uploads).Register(api)
	specimens.NewHandler(catalogue.Specimens).Register(api)
	lookups.NewHTTPHandler(catalogue.Lookups).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Catalogue Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Catalogue Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Catalogue Service stopped")
}
