package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// Init configures the shared logger. format is "text" or "json".
func Init(level, format string) {
	InitWithOutput(os.Stdout, level, format)
}

// InitWithOutput configures the shared logger to write to out.
func InitWithOutput(out io.Writer, level, format string) {
	Logger.SetOutput(out)
	if strings.EqualFold(format, "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
			PadLevelText:    true,
		})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)
}

func Info(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Info(msg)
}

func Error(err error, msg string, fields map[string]interface{}) {
	Logger.WithError(err).WithFields(fields).Error(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Warn(msg)
}

func Debug(msg string, fields map[string]interface{}) {
	Logger.WithFields(fields).Debug(msg)
}

// FiberLogger logs one line per request with status-dependent level.
func FiberLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		fields := logrus.Fields{
			"ip":     c.IP(),
			"method": c.Method(),
			"path":   c.OriginalURL(),
			"status": status,
			"took":   time.Since(start),
		}
		switch {
		case status >= 500:
			Logger.WithFields(fields).Error("Server error")
		case status >= 400:
			Logger.WithFields(fields).Warn("Client error")
		default:
			Logger.WithFields(fields).Info("Request completed")
		}
		return err
	}
}

// Telemetry writes landing events as structured log entries. Failure
// events are logged at warn level, everything else at debug.
type Telemetry struct{}

// Record implements landing.Telemetry.
func (Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	entry := Logger.WithField("event", event).WithFields(logrus.Fields(payload))
	if isFailureEvent(event) {
		entry.Warn("landing event")
		return
	}
	entry.Debug("landing event")
}

func isFailureEvent(event string) bool {
	return strings.HasSuffix(event, "error") ||
		strings.HasSuffix(event, "failed") ||
		strings.HasSuffix(event, "unknown_type")
}

// Alerter reports failed layout saves to the operator log.
type Alerter struct{}

// Alert implements landing.Alerter.
func (Alerter) Alert(_ context.Context, pageID string, err error) {
	Logger.WithError(err).WithField("page_id", pageID).Error("Layout save failed")
}
