// cmd/character-explorer/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"character-explorer/internal/common/config"
	"character-explorer/internal/common/database"
	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/common/logger"
	"character-explorer/internal/common/observability"
	"character-explorer/internal/controller"
	"character-explorer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console", "stderr")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting character explorer",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("driver", cfg.Database.Driver),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	client, err := database.Open(ctx, cfg.Database)
	if err != nil {
		zapLog.Fatal("database open failed", zap.String("errorCode", string(apperrors.CodeOf(err))), zap.Error(err))
	}
	defer client.Close()
	zapLog.Info("Catalog database ready", zap.String("location", client.Location))

	ctrl := controller.New(store.New(client, log), log, obs)

	franchises, characters, err := ctrl.CountCatalog(ctx)
	if err != nil {
		zapLog.Error("catalog summary failed", zap.Error(err))
	} else {
		zapLog.Info("Catalog loaded",
			zap.Int("franchises", franchises),
			zap.Int("characters", characters),
		)
	}

	if !cfg.Metrics.Enabled {
		return
	}

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if err := client.Ping(r.Context()); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics server", zap.Error(err))
	}
	zapLog.Info("Character explorer stopped")
}
