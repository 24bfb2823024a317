package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"MediaMonitor/internal/config"
	"MediaMonitor/internal/infrastructure/gnews"
	"MediaMonitor/internal/infrastructure/scheduler"
	"MediaMonitor/internal/infrastructure/sentiment"
	"MediaMonitor/internal/infrastructure/storage"
	"MediaMonitor/internal/infrastructure/telegram"
	"MediaMonitor/internal/logging"
	"MediaMonitor/internal/ports"
	"MediaMonitor/internal/server"
	"MediaMonitor/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    ports.MentionStore
	pipeline *usecase.Pipeline
	opts     usecase.PipelineOptions
	closers  []func() error
}

// New builds a runnable application instance from configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store

	var scorer ports.SentimentScorer
	if cfg.Sentiment.InferenceURL != "" {
		scorer = sentiment.NewRemoteScorer(cfg.Sentiment.InferenceURL, cfg.Sentiment.APIKey)
	} else {
		scorer = sentiment.NewAnalyzer()
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:   gnews.NewSource(nil),
		Store:    store,
		Scorer:   scorer,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	loc := cfg.Scheduler.Location()
	a.opts = usecase.PipelineOptions{
		Query: ports.SearchQuery{
			Text:     cfg.Search.Query,
			Country:  cfg.Search.Country,
			Language: cfg.Search.Language,
			From:     cfg.StartDate(),
		},
		Cutoff:     cfg.StartDate(),
		Location:   loc,
		CleanDates: cfg.Pipeline.CleanDates,
	}

	return a, nil
}

// CleanDates toggles the maintenance pass for subsequent runs.
func (a *Application) CleanDates(enabled bool) {
	a.opts.CleanDates = enabled
}

// RunOnce executes a single ingestion batch.
func (a *Application) RunOnce(ctx context.Context) error {
	_, err := a.pipeline.Run(ctx, a.opts)
	return err
}

// Serve starts the cron-driven scraper and the dashboard API, blocking
// until ctx is canceled.
func (a *Application) Serve(ctx context.Context) error {
	loc := a.cfg.Scheduler.Location()

	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, loc)
	scans := usecase.NewScanScheduler(driver, a.pipeline, a.opts, a.logger.With("component", "scheduler"))
	if err := scans.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := scans.Stop(stopCtx); err != nil {
			a.logger.Warn("scheduler stop", "error", err)
		}
	}()

	cache := usecase.NewMentionCache(a.store.LoadAll, a.cfg.Dashboard.TTL())
	api := server.New(a.store, cache, a.cfg.Dashboard.RetentionYears, loc, a.logger.With("component", "server"))

	httpServer := &http.Server{
		Addr:    a.cfg.Dashboard.Addr,
		Handler: api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("dashboard api listening", "addr", a.cfg.Dashboard.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Close releases adapter resources.
func (a *Application) Close() error {
	var errs []error
	for _, closer := range a.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Application) buildStore(ctx context.Context) (ports.MentionStore, error) {
	switch a.cfg.Storage.Driver {
	case "", "sheets":
		if a.cfg.Storage.Sheets.SpreadsheetID == "" {
			return nil, errors.New("store open: spreadsheet id missing")
		}
		service, err := storage.NewSheetsService(ctx, a.cfg.Storage.Sheets.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("store open: %w", err)
		}
		return storage.NewSheetsStore(service, a.cfg.Storage.Sheets.SpreadsheetID, a.cfg.Storage.Sheets.Worksheet), nil
	case "sqlite":
		store, err := storage.NewSQLStore(a.cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("store open: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
}
