package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relicscan/relic-data/internal/config"
	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/proxy"
	"github.com/relicscan/relic-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/proxyd.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting proxyd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration; every proxy field has a default, so a missing
	// file is not an error.
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"listen", cfg.Proxy.Listen,
		"api_url", cfg.API.BaseURL,
		"cache_ttl", cfg.Proxy.CacheTTL,
		"rate_limit", cfg.Proxy.RateLimit,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create upstream market client
	upstream := market.NewClient(
		cfg.API.BaseURL,
		cfg.API.UserAgent,
		market.WithLogger(logger),
		market.WithTimeout(cfg.API.Timeout),
		market.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		market.WithPlatform(cfg.API.Platform),
	)

	// Create the proxy server
	srv := proxy.New(proxy.Config{
		CacheTTL:    cfg.Proxy.CacheTTL,
		RateLimit:   cfg.Proxy.RateLimit,
		RateWindow:  cfg.Proxy.RateWindow,
		BatchDelay:  cfg.Proxy.BatchDelay,
		UpstreamRPS: cfg.Proxy.UpstreamRPS,
	}, upstream, logger)

	httpServer := &http.Server{
		Addr:    cfg.Proxy.Listen,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("listening", "addr", cfg.Proxy.Listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.LoadAndValidate(path)
}
