package bootstrap

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslogs/app/internal/config"
	"newslogs/app/internal/report"
)

func TestBuildRunsReportsAgainstMigratedSQLite(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	result, err := Build(context.Background(), Dependencies{
		Config: config.Config{
			DBDriver:     "sqlite",
			DBName:       filepath.Join(t.TempDir(), "news.db"),
			AutoMigrate:  true,
			OutputFormat: config.OutputPlain,
		},
		Logger: silentLogger(),
		Output: &out,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, result.Cleanup())
	})

	require.NoError(t, result.Runner.Run(context.Background()))

	rendered := out.String()
	assert.Contains(t, rendered, report.TopArticlesTitle)
	assert.Contains(t, rendered, report.TopAuthorsTitle)
	assert.Contains(t, rendered, report.FailureDaysTitle)
	assert.Contains(t, rendered, "Article | Views \n")
}

func TestBuildSelectsGridPrinter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	result, err := Build(context.Background(), Dependencies{
		Config: config.Config{
			DBDriver:     "sqlite",
			DBName:       filepath.Join(t.TempDir(), "news.db"),
			AutoMigrate:  true,
			OutputFormat: config.OutputGrid,
		},
		Logger: silentLogger(),
		Output: &out,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, result.Cleanup())
	})

	require.NoError(t, result.Runner.Run(context.Background()))
	assert.True(t, strings.Contains(out.String(), "+-"), out.String())
}

func TestBuildFailsWithoutSchema(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	result, err := Build(context.Background(), Dependencies{
		Config: config.Config{
			DBDriver:     "sqlite",
			DBName:       filepath.Join(t.TempDir(), "news.db"),
			OutputFormat: config.OutputPlain,
		},
		Logger: silentLogger(),
		Output: &out,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, result.Cleanup())
	})

	err = result.Runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running report top_articles")
}

func TestBuildRejectsAutoMigrateOnPostgres(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), Dependencies{
		Config: config.Config{
			DBDriver:    "postgres",
			DBName:      "news",
			AutoMigrate: true,
		},
		Logger: silentLogger(),
		Output: io.Discard,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supported for the sqlite driver")
}

func TestBuildRequiresOutput(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), Dependencies{Logger: silentLogger()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report output is required")
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
