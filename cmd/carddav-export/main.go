// Command carddav-export downloads every contact of a CardDAV address book
// into a single .vcf file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyp0633/libcarddav/davclient"
	"github.com/cyp0633/libcarddav/internal/config"
	"github.com/cyp0633/libcarddav/internal/export"
	"github.com/cyp0633/libcarddav/internal/logging"
	"github.com/cyp0633/libcarddav/internal/scheduler"
	"github.com/fatih/color"
)

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", ".env", "file with CARDDAV_* variables, ignored if missing")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		color.Red("Invalid configuration: %v", err)
		return 2
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := davclient.Options{
		Timeout:        cfg.Timeout,
		Concurrency:    cfg.Concurrency,
		Clean:          cfg.Clean,
		Validate:       cfg.Validate,
		SkipCollection: cfg.SkipCollection,
		Logger:         logger,
	}
	endpoint := davclient.Endpoint{
		Scheme:   cfg.Scheme,
		Host:     cfg.Host,
		BasePath: cfg.Path,
		Username: cfg.Username,
		Password: cfg.Password,
	}

	if cfg.Schedule == "" {
		return runOnce(ctx, endpoint, opts, cfg.Output, logger)
	}

	s, err := scheduler.New(cfg.Schedule, func(ctx context.Context) {
		runOnce(ctx, endpoint, opts, cfg.Output, logger)
	}, logger)
	if err != nil {
		color.Red("Invalid configuration: %v", err)
		return 2
	}
	if err := s.Start(ctx); err != nil {
		logger.Error("scheduler failed", "error", err)
		return 1
	}
	return 0
}

// runOnce performs a single export and returns the process exit code.
func runOnce(ctx context.Context, endpoint davclient.Endpoint, opts davclient.Options, output string, logger *slog.Logger) int {
	endpoint, err := davclient.Discover(ctx, endpoint, opts)
	if err != nil {
		color.Red("Address book discovery failed: %v", err)
		return 1
	}

	client, err := davclient.NewDAVClient(endpoint, opts)
	if err != nil {
		color.Red("Invalid configuration: %v", err)
		return 2
	}

	summary, err := export.Run(ctx, client, export.Options{OutputPath: output, Logger: logger})
	printSummary(summary)
	if err != nil {
		if errors.Is(err, export.ErrSink) {
			color.Red("Failed to create combined file: %v", err)
		} else {
			color.Red("Export aborted: %v", err)
		}
		return 1
	}
	return 0
}

func printSummary(s export.Summary) {
	if s.ListErr != nil {
		color.Yellow("Failed to fetch contacts list: %v", s.ListErr)
	}
	fmt.Printf("Found %d contacts.\n", s.Discovered)
	if s.Failure > 0 {
		color.Yellow("%d contacts could not be fetched:", s.Failure)
		for _, href := range s.Failed {
			color.Yellow("\t%s", href)
		}
	}
	color.Green("All contacts saved to: %s (%d saved in %s)", s.Path, s.Success, s.Duration.Round(time.Millisecond))
}
