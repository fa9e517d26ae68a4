package log

import (
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const reporterFlushTimeout = 2 * time.Second

// SentrySettings configures failure reporting for one analysis run.
type SentrySettings struct {
	DSN         string
	Environment string
	Release     string
	RunID       string

	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

// Reporter sends run failures to Sentry. A nil or disabled Reporter drops
// everything, so callers never check whether Sentry is configured.
type Reporter struct {
	hub    *sentry.Hub
	logger *logrus.Logger
}

// InitSentry builds the Reporter for a run. Without a DSN the Reporter is disabled.
// Failures are reported only through Capture; error-level log lines are not forwarded.
func InitSentry(logger *logrus.Logger, settings SentrySettings) (*Reporter, error) {
	if settings.DSN == "" {
		return &Reporter{logger: logger}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:         settings.DSN,
		Environment: settings.Environment,
		Release:     settings.Release,
		BeforeSend:  settings.beforeSend,
	})
	if err != nil {
		return nil, eris.Wrap(err, "error initializing sentry client")
	}

	scope := sentry.NewScope()
	if settings.RunID != "" {
		scope.SetTag("run_id", settings.RunID)
	}

	return &Reporter{hub: sentry.NewHub(client, scope), logger: logger}, nil
}

// Enabled reports whether failures are sent anywhere.
func (r *Reporter) Enabled() bool {
	return r != nil && r.hub != nil
}

// Capture reports err once.
func (r *Reporter) Capture(err error) {
	if err == nil || !r.Enabled() {
		return
	}

	r.hub.CaptureException(err)
}

// Flush waits for queued reports to be delivered.
func (r *Reporter) Flush() {
	if !r.Enabled() {
		return
	}

	if !r.hub.Flush(reporterFlushTimeout) && r.logger != nil {
		r.logger.WithField("component", "sentry").Warn("timed out flushing failure reports")
	}
}

// BuildRelease names the running binary for Sentry as module@version.
func BuildRelease() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Path == "" {
		return ""
	}

	version := info.Main.Version
	if version == "" {
		version = "(devel)"
	}
	return info.Main.Path + "@" + version
}
