// Package logging configures logrus from the logging config section and
// adapts it to the application Logger port.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

// Configure applies the logging config to the standard logrus logger.
// The returned closer releases the log file when output is "file".
func Configure(cfg config.LoggingConfig) (io.Closer, error) {
	return configure(logrus.StandardLogger(), cfg)
}

func configure(logger *logrus.Logger, cfg config.LoggingConfig) (io.Closer, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)
	logger.SetReportCaller(cfg.IncludeCaller)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch cfg.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger.SetOutput(f)
		return f, nil
	default:
		logger.SetOutput(os.Stderr)
	}
	return nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// LogrusLogger implements common.Logger on top of a logrus entry
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps a logrus logger; nil uses the standard logger
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger)}
}

// With returns a logger that adds the field to every entry
func (l *LogrusLogger) With(key string, value interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// Log writes the message at the given level with metadata as fields.
// Unknown levels are logged at info.
func (l *LogrusLogger) Log(level, message string, metadata map[string]interface{}) {
	entry := l.entry
	if len(metadata) > 0 {
		entry = entry.WithFields(logrus.Fields(metadata))
	}

	switch strings.ToUpper(level) {
	case "DEBUG":
		entry.Debug(message)
	case "WARN", "WARNING":
		entry.Warn(message)
	case "ERROR":
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

var _ common.Logger = (*LogrusLogger)(nil)
