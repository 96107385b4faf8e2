package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"FeedbackPulse/internal/config"
	"FeedbackPulse/internal/infrastructure/queue"
	"FeedbackPulse/internal/infrastructure/reportstore"
	"FeedbackPulse/internal/infrastructure/scheduler"
	"FeedbackPulse/internal/infrastructure/storage"
	"FeedbackPulse/internal/infrastructure/telegram"
	"FeedbackPulse/internal/logging"
	"FeedbackPulse/internal/ports"
	"FeedbackPulse/internal/transport/httpapi"
	"FeedbackPulse/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
// All dependencies are built once here and injected explicitly; there is
// no container and no lazy global state.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	server    *http.Server
	publisher *queue.Publisher
	consumer  *queue.Consumer
	reports   *usecase.ReportScheduler
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	store, err := a.buildStore(ctx)
	if err != nil {
		return nil, err
	}

	var publisher ports.AlertPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		a.publisher = queue.NewPublisher(queue.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		publisher = a.publisher

		notifier := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
		alerts := usecase.NewAlertConsumer(notifier, baseLogger.With("component", "alerts"))
		a.consumer = queue.NewConsumer(queue.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, alerts, baseLogger)
	} else {
		baseLogger.Warn("kafka brokers not configured, critical alerts disabled")
	}

	ingestion := usecase.NewIngestion(store, publisher, baseLogger.With("component", "ingestion"))

	reportStore := reportstore.NewFilesystemStore(cfg.Reports.OutputDir, cfg.Reports.BaseURL)
	reporter := usecase.NewReporter(store, reportStore, cfg.Reports.Location(), baseLogger.With("component", "reporter"))

	if cfg.Reports.Scheduled {
		driver := scheduler.NewTickerScheduler(cfg.Reports.Interval())
		a.reports = usecase.NewReportScheduler(driver, reporter, baseLogger.With("component", "scheduler"))
	}

	api := httpapi.NewAPI(ingestion, reporter, baseLogger.With("component", "http"))
	a.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *Application) buildStore(ctx context.Context) (ports.FeedbackStore, error) {
	switch a.cfg.Storage.Driver {
	case "postgres":
		db, err := storage.OpenPostgres(ctx, a.cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		store := storage.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "sqlite":
		db, err := storage.OpenSQLite(a.cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.db = db
		store := storage.NewSQLiteStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
}

// Run starts the HTTP server, alert consumer, and report scheduler, then
// blocks until the context is canceled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	if a.consumer != nil {
		go func() {
			if err := a.consumer.Run(ctx); err != nil {
				errCh <- fmt.Errorf("alert consumer: %w", err)
			}
		}()
	}

	if a.reports != nil {
		if err := a.reports.Start(ctx); err != nil {
			return fmt.Errorf("start report scheduler: %w", err)
		}
	}

	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown requested")
		return a.shutdown()
	case err := <-errCh:
		_ = a.shutdown()
		return err
	}
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}
	if a.reports != nil {
		if err := a.reports.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close consumer: %w", err))
		}
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
