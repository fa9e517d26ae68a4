package log

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func TestNewLoggerDefaultsToInfo(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}

	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("expected JSON formatter, got %T", logger.Formatter)
	}
}

func TestNewLoggerParsesLevel(t *testing.T) {
	t.Parallel()

	logger, err := NewLogger("DEBUG")
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := NewLogger("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestInitSentryWithoutDSNIsDisabled(t *testing.T) {
	t.Parallel()

	reporter, err := InitSentry(logrus.New(), SentrySettings{RunID: "run-1"})
	if err != nil {
		t.Fatalf("InitSentry returned error: %v", err)
	}

	if reporter.Enabled() {
		t.Fatalf("expected reporter to be disabled without DSN")
	}

	reporter.Capture(errors.New("boom"))
	reporter.Flush()
}

func TestNilReporterIsSafe(t *testing.T) {
	t.Parallel()

	var reporter *Reporter
	reporter.Capture(errors.New("boom"))
	reporter.Flush()

	if reporter.Enabled() {
		t.Fatalf("expected nil reporter to be disabled")
	}
}

func TestReporterCapturesEachFailureOnce(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var events []*sentry.Event

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reporter, err := InitSentry(logger, SentrySettings{
		DSN:         "https://public@sentry.example.com/1",
		Environment: "test",
		Release:     "newslogs/app@v1.2.3",
		RunID:       "run-42",
		beforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("InitSentry returned error: %v", err)
	}

	if !reporter.Enabled() {
		t.Fatalf("expected reporter to be enabled with a DSN")
	}

	// Error-level logging must not produce a second report.
	logger.WithField("error", "relation missing").Error("log analysis failed")
	reporter.Capture(errors.New("relation missing"))
	reporter.Flush()

	mu.Lock()
	defer mu.Unlock()

	if len(events) != 1 {
		t.Fatalf("expected exactly one reported event, got %d", len(events))
	}

	event := events[0]
	if event.Tags["run_id"] != "run-42" {
		t.Errorf("expected run_id tag run-42, got %q", event.Tags["run_id"])
	}

	if event.Release != "newslogs/app@v1.2.3" {
		t.Errorf("expected release to be set, got %q", event.Release)
	}

	if event.Environment != "test" {
		t.Errorf("expected environment test, got %q", event.Environment)
	}
}

func TestInitSentryRejectsMalformedDSN(t *testing.T) {
	t.Parallel()

	if _, err := InitSentry(logrus.New(), SentrySettings{DSN: "not a dsn"}); err == nil {
		t.Fatalf("expected error for malformed DSN")
	}
}

func TestBuildReleaseNamesModule(t *testing.T) {
	t.Parallel()

	release := BuildRelease()
	if release != "" && !strings.Contains(release, "@") {
		t.Fatalf("expected module@version release, got %q", release)
	}
}
