// Package main is the entry point for the CEX-DEX spread scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ardika/scanarb/business/cexprice"
	cexDI "github.com/ardika/scanarb/business/cexprice/di"
	"github.com/ardika/scanarb/business/dexquote"
	"github.com/ardika/scanarb/business/scanner"
	scanDI "github.com/ardika/scanarb/business/scanner/di"
	"github.com/ardika/scanarb/business/scanner/infra"
	"github.com/ardika/scanarb/internal/apm"
	"github.com/ardika/scanarb/internal/config"
	"github.com/ardika/scanarb/internal/health"
	"github.com/ardika/scanarb/internal/logger"
	"github.com/ardika/scanarb/internal/metrics"
	"github.com/ardika/scanarb/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("scanarb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.Scanner.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	// In TUI mode the dashboard owns the terminal, so logs are discarded.
	var log *logger.Logger
	if tuiMode {
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting CEX-DEX spread scanner",
			"version", version,
			"environment", cfg.App.Environment,
			"chain", cfg.Scanner.Chain,
		)
	}

	traceProvider := apm.NewTraceProvider(cfg.Telemetry, apm.ZipkinProvider, log)
	defer traceProvider.Stop()

	if cfg.Telemetry.Enabled {
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithPrometheus(),
		); err != nil {
			log.Warn(ctx, "failed to initialize metrics provider", "error", err)
		} else {
			port := cfg.Telemetry.PrometheusPort
			if port == 0 {
				port = 9090
			}
			go func() {
				if err := metrics.ServePrometheusMetrics(port); err != nil {
					log.Warn(ctx, "prometheus metrics server stopped", "error", err)
				}
			}()
			log.Info(ctx, "prometheus metrics server started", "port", port)
		}
	}

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Dependency order: scanner consumes both pricing modules.
	modules := []monolith.Module{
		&cexprice.Module{},
		&dexquote.Module{},
		&scanner.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	registerHealthChecks(healthServer, mono, cfg)

	if tuiMode {
		// The scan loop starts the dashboard; block until the user quits
		// or a signal arrives.
		if tui, ok := scanDI.GetReporter(mono.Services()).(*infra.TUIReporter); ok {
			select {
			case <-tui.Done():
			case <-ctx.Done():
			}
			return nil
		}
	}

	log.Info(ctx, "all modules started, scanning")
	<-ctx.Done()
	log.Info(ctx, "shutting down")
	return nil
}

// registerHealthChecks wires liveness of the scan loop and the warm
// ticker feed into the health server.
func registerHealthChecks(srv *health.Server, mono monolith.Monolith, cfg *config.Config) {
	sc := scanDI.GetScanner(mono.Services())

	maxAge := 3 * time.Duration(cfg.Scanner.SpeedScanSeconds) * time.Second
	if maxAge <= 0 {
		maxAge = 30 * time.Second
	}
	srv.RegisterCheck("scan-loop", health.FreshnessCheck(sc.LastScan, maxAge))

	if cfg.Stream.Enabled {
		feed := cexDI.GetTickerFeed(mono.Services())
		stale := cfg.Stream.StaleTimeout
		if stale <= 0 {
			stale = 30 * time.Second
		}
		srv.RegisterCheck("bookticker-stream", health.FreshnessCheck(feed.LastUpdate, stale))
	}
}
