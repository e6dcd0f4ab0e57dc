// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"devscreen-workers/internal/api"
	"devscreen-workers/internal/common/camunda"
	"devscreen-workers/internal/common/config"
	httpclient "devscreen-workers/internal/common/http"
	"devscreen-workers/internal/common/logger"
	"devscreen-workers/internal/common/observability"
	"devscreen-workers/internal/inference"
	"devscreen-workers/internal/screening"

	pd "devscreen-workers/internal/workers/screening/predict-disorder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		bootLog, _ := zap.NewProduction()
		bootLog.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("inferenceBaseURL", cfg.Inference.BaseURL),
		zap.String("model", cfg.Inference.Model),
	)

	if cfg.Inference.APIKey == "" {
		zapLog.Warn("no inference API key configured; predictions will fail with a TransportError")
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Core service ---
	inferer := inference.NewClient(httpclient.NewClient(httpclient.DefaultOptions()), log)
	svc := screening.NewService(inferer, inference.ConfigFrom(cfg.Inference), log)

	// --- Zeebe ---
	var (
		zeebe   *camunda.Client
		workers []*camunda.Worker
	)
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda))
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

		wcfg := config.GetWorkerConfig(cfg, pd.TaskType)
		handler, err := pd.NewHandler(pd.LoadConfig(wcfg), svc, obs, &predictDisorderLoggerAdapter{log})
		if err != nil {
			zapLog.Fatal("predict-disorder handler init failed", zap.Error(err))
		}

		w := camunda.StartWorker(zeebe.GetClient(), camunda.WorkerSpec{
			TaskType:       pd.TaskType,
			FetchVariables: pd.FetchVariables,
			Config:         wcfg,
			Handler:        handler.Handle,
		}, log)
		if w != nil {
			workers = append(workers, w)
		}
	} else {
		zapLog.Info("camunda disabled; serving HTTP API only")
	}

	// --- HTTP API, health & metrics ---
	var ready api.ReadinessChecker
	if zeebe != nil {
		ready = zeebe
	}
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(svc, ready, log),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownTimeout := config.GetDuration(cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownTimeout)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down meter provider", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// predictDisorderLoggerAdapter satisfies the worker's own Logger interface.
type predictDisorderLoggerAdapter struct {
	logger.Logger
}

func (a *predictDisorderLoggerAdapter) With(fields map[string]interface{}) pd.Logger {
	return &predictDisorderLoggerAdapter{a.Logger.With(fields)}
}
