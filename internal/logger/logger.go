// Package logger provides structured logging for locmatrix using zap.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/locmatrix/internal/config"
)

// Logger wraps zap.SugaredLogger with crawl context helpers.
type Logger struct {
	*zap.SugaredLogger
	base *zap.Logger
}

// New builds a Logger from the logging section of the configuration.
// Matrix output owns stdout, so logs go to stderr unless told otherwise.
func New(cfg *config.LoggingConfig) (*Logger, error) {
	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         encoding(cfg.Format),
		EncoderConfig:    encoderConfig(cfg.Format),
		OutputPaths:      outputPaths(cfg.Output),
		ErrorOutputPaths: []string{"stderr"},
	}

	base, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: base.Sugar(), base: base}, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	base := zap.NewNop()
	return &Logger{SugaredLogger: base.Sugar(), base: base}
}

// parseLevel falls back to info for empty or unknown levels.
func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func encoding(format string) string {
	if format == "json" {
		return "json"
	}
	return "console"
}

func encoderConfig(format string) zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeDuration = zapcore.SecondsDurationEncoder
	if format != "json" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return ec
}

// outputPaths maps the configured output to zap sinks. A log file is
// mirrored to stderr.
func outputPaths(output string) []string {
	switch output {
	case "", "stderr":
		return []string{"stderr"}
	case "stdout":
		return []string{"stdout"}
	default:
		return []string{output, "stderr"}
	}
}

// WithRun tags entries with the crawl run (or HTTP request) id.
func (l *Logger) WithRun(runID string) *Logger {
	return l.with("run", runID)
}

// WithEntity tags entries with the record being loaded.
func (l *Logger) WithEntity(kind, id string) *Logger {
	return l.with("kind", kind, "id", id)
}

// WithFields returns a Logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.with(args...)
}

func (l *Logger) with(args ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...), base: l.base}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
