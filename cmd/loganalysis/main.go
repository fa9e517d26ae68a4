package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"newslogs/app/internal/app/bootstrap"
	"newslogs/app/internal/config"
	applog "newslogs/app/internal/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	runID := uuid.NewString()

	reporter, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     applog.BuildRelease(),
		RunID:       runID,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}
	defer reporter.Flush()

	runLogger := logger.WithFields(logrus.Fields{
		"run_id":    runID,
		"db_driver": cfg.DBDriver,
		"db_name":   cfg.DBName,
	})
	runLogger.Info("starting log analysis")

	if err := analyse(ctx, cfg, logger); err != nil {
		reporter.Capture(err)
		runLogger.WithField("error", err.Error()).Error("log analysis failed")
		return err
	}

	runLogger.Info("log analysis complete")
	return nil
}

func analyse(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	app, err := bootstrap.Build(ctx, bootstrap.Dependencies{
		Config: *cfg,
		Logger: logger,
		Output: os.Stdout,
	})
	if err != nil {
		return eris.Wrap(err, "building application")
	}
	defer func() {
		if closeErr := app.Cleanup(); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	if err := app.Runner.Run(ctx); err != nil {
		return eris.Wrap(err, "running reports")
	}

	return nil
}
