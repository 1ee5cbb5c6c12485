package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/relicscan/relic-data/internal/config"
	"github.com/relicscan/relic-data/internal/dataset"
	"github.com/relicscan/relic-data/internal/market"
	"github.com/relicscan/relic-data/internal/ocr"
	"github.com/relicscan/relic-data/internal/pipeline"
	"github.com/relicscan/relic-data/internal/proxy"
	"github.com/relicscan/relic-data/internal/resolver"
	"github.com/relicscan/relic-data/internal/scanner"
	"github.com/relicscan/relic-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/scan.yaml", "path to config file")
	textPath := flag.String("text", "", "path to a recognized-text file to scan")
	imagePath := flag.String("image", "", "path to a screenshot to scan via the OCR sidecar")
	fissure := flag.Bool("fissure", false, "treat the input as a fissure reward screen (4 slots)")
	showVersion := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if (*textPath == "") == (*imagePath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -text or -image is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx, cfg, *textPath, *imagePath, *fissure, logger)
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(report)
}

// loadConfig reads the config file when present and falls back to
// defaults when the default path is absent.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.LoadAndValidate(path)
}

func run(ctx context.Context, cfg *config.Config, textPath, imagePath string, fissure bool, logger *slog.Logger) (*pipeline.Report, error) {
	ds, err := dataset.Load(cfg.Dataset.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	apiClient := market.NewClient(
		cfg.API.BaseURL,
		cfg.API.UserAgent,
		market.WithLogger(logger),
		market.WithTimeout(cfg.API.Timeout),
		market.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
		market.WithPlatform(cfg.API.Platform),
	)

	slugs := resolver.New(resolver.Config{
		CachePath:       cfg.Resolver.CachePath,
		MaxAge:          cfg.Resolver.MaxAge,
		MaxNameDistance: cfg.Resolver.MaxNameDistance,
	}, apiClient, logger)

	// Order fetches go through the proxy when one is configured.
	var orders pipeline.Orders = apiClient
	if cfg.Pipeline.ProxyURL != "" {
		orders = proxy.NewClient(cfg.Pipeline.ProxyURL)
	}

	sc := scanner.New(scanner.Config{
		MaxCodeDistance: cfg.Scanner.MaxCodeDistance,
		SlotCount:       cfg.Scanner.SlotCount,
	}, logger)

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(cfg.Pipeline.Concurrency),
	}
	if cfg.OCR.Endpoint != "" {
		opts = append(opts, pipeline.WithOCR(ocr.NewHTTPEngine(cfg.OCR.Endpoint, nil)))
	}

	p := pipeline.New(sc, ds, slugs, orders, opts...)

	mode := scanner.ModeOpen
	if fissure {
		mode = scanner.ModeFissure
	}

	if imagePath != "" {
		image, err := os.ReadFile(imagePath)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return p.ScanImage(ctx, image, mode)
	}

	text, err := os.ReadFile(textPath)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return p.ScanText(ctx, string(text), mode)
}
