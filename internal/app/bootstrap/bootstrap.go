package bootstrap

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"

	"newslogs/app/internal/config"
	"newslogs/app/internal/db"
	"newslogs/app/internal/news"
	"newslogs/app/internal/report"
)

// Dependencies are the already-initialised ambient components.
type Dependencies struct {
	Config config.Config
	Logger *logrus.Logger
	Output io.Writer
}

// Result holds the composed application.
type Result struct {
	Runner  *report.Runner
	Cleanup func() error
}

// Build opens the database and composes the repository and report runner.
// Callers must invoke Cleanup once the reports have run.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	if deps.Output == nil {
		return Result{}, eris.New("report output is required")
	}

	if deps.Config.AutoMigrate && deps.Config.DBDriver != db.DriverSQLite {
		return Result{}, eris.New("DB_AUTO_MIGRATE is only supported for the sqlite driver")
	}

	database, err := db.Open(db.Options{
		Driver: deps.Config.DBDriver,
		Name:   deps.Config.DBName,
		DSN:    deps.Config.DatabaseURL,
		Logger: newGormLogger(deps.Logger),
	})
	if err != nil {
		return Result{}, eris.Wrap(err, "opening database")
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := db.Close(database); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if deps.Config.AutoMigrate {
		if err := news.Migrate(ctx, database, deps.Logger); err != nil {
			return closeOnError(eris.Wrap(err, "running news migrations"))
		}
	}

	repo, err := news.NewRepository(database, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating news repository"))
	}

	runner, err := report.NewRunner(report.Options{
		Repository: repo,
		Printer:    newPrinter(deps.Config.OutputFormat, deps.Output),
		Logger:     deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating report runner"))
	}

	cleanup := func() error {
		return db.Close(database)
	}

	return Result{
		Runner:  runner,
		Cleanup: cleanup,
	}, nil
}

// newGormLogger routes gorm warnings to logrus; stdout carries only tables.
func newGormLogger(logger *logrus.Logger) gormlogger.Interface {
	if logger == nil {
		return nil
	}

	return gormlogger.New(logger.WithField("component", "gorm"), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func newPrinter(format string, out io.Writer) report.Printer {
	if format == config.OutputGrid {
		return report.NewGridPrinter(out)
	}
	return report.NewPlainPrinter(out)
}
