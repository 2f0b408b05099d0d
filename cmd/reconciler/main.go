package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"prisoner-finance-recon/internal/config"
	"prisoner-finance-recon/internal/gateway"
	"prisoner-finance-recon/internal/server"
	"prisoner-finance-recon/internal/telemetry"
	"prisoner-finance-recon/internal/usecase"
)

func main() {
	configPath := flag.String("config", "", "Directory containing config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	events := telemetry.NewRecorder(logger, registry)

	// One retry policy value for every upstream client; no globals.
	retry := gateway.RetryPolicy{
		MaxAttempts:         cfg.Retry.MaxAttempts,
		InitialInterval:     cfg.Retry.InitialInterval,
		MaxInterval:         cfg.Retry.MaxInterval,
		RandomizationFactor: cfg.Retry.RandomizationFactor,
	}
	nomis := gateway.NewNomisAPIClient(cfg.Nomis.BaseURL, cfg.Nomis.Timeout, retry, logger)
	dps := gateway.NewDpsAPIClient(cfg.Dps.BaseURL, cfg.Dps.Timeout, retry, logger)
	mapping := gateway.NewMappingAPIClient(cfg.Mapping.BaseURL, cfg.Mapping.Timeout, retry, logger)

	balances := usecase.NewBalanceReconciliation(nomis, dps, events, logger, cfg.Reconciliation.PageSize, cfg.Reconciliation.PrisonIDs())
	transactions := usecase.NewTransactionReconciliation(nomis, dps, mapping, events, logger)

	router := server.New(logger, balances, transactions, registry)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("admin server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("admin server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
