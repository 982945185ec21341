package logging

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/mohammed-tarek-rezk/Taskify/internal/config"
	"github.com/sirupsen/logrus"
)

var sentryEnabled bool

// Setup configures the global logrus logger and, when a DSN is configured, sentry.
func Setup(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.SentryDSN == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
	}); err != nil {
		return err
	}
	sentryEnabled = true
	return nil
}

// Flush waits for buffered sentry events to be delivered.
func Flush() {
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}
}

// LogError logs errors with structured context to both console and Sentry
func LogError(errorType string, err error, context map[string]interface{}) {
	log := logrus.WithFields(logrus.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	})
	for k, v := range context {
		log = log.WithField(k, v)
	}
	log.Error("Error occurred")

	if !sentryEnabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("error_type", errorType)
		for k, v := range context {
			scope.SetExtra(k, v)
		}
		sentry.CaptureException(err)
	})
}

// LogEvent logs events with structured context
func LogEvent(eventType string, data map[string]interface{}) {
	log := logrus.WithField("event_type", eventType)
	for k, v := range data {
		log = log.WithField(k, v)
	}
	log.Info("Event occurred")

	if sentryEnabled {
		sentry.AddBreadcrumb(&sentry.Breadcrumb{
			Type:      "info",
			Category:  eventType,
			Data:      data,
			Timestamp: time.Now(),
		})
	}
}
