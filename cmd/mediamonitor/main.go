package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"MediaMonitor/internal/app"
	"MediaMonitor/internal/config"
	"MediaMonitor/internal/logging"
)

func main() {
	serve := flag.Bool("serve", false, "run the cron scraper and dashboard API instead of a single scan")
	clean := flag.Bool("clean", false, "re-normalize stored published dates before ingesting")
	flag.Parse()

	// Optional .env for credentials; a missing file is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *clean {
		application.CleanDates(true)
	}

	if *serve {
		err = application.Serve(ctx)
	} else {
		err = application.RunOnce(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
