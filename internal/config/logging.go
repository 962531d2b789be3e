package config

import (
	"log/slog"
	"strings"
)

// LogLevel is a config-file level name.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// NormalizeLogLevel folds case and aliases; unknown values return "".
func NormalizeLogLevel(raw string) LogLevel {
	return logLevels[strings.ToLower(strings.TrimSpace(raw))]
}

// Slog maps the level onto slog.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat folds case; unknown values return "".
func NormalizeLogFormat(raw string) LogFormat {
	f := LogFormat(strings.ToLower(strings.TrimSpace(raw)))
	if f == LogFormatJSON || f == LogFormatText {
		return f
	}
	return ""
}
