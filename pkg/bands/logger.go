package bands

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Fields is a set of structured log fields
type Fields map[string]interface{}

var (
	globalLogger      zerolog.Logger
	globalLoggerMutex sync.RWMutex
	globalLoggerOnce  sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		config := GetGlobalConfig()
		globalLogger = NewLogger(os.Stderr, config.LogLevel)
	})
}

func init() {
	initGlobalLogger()
}

// ParseLogLevel maps a configuration level name to a zerolog level.
// Unknown names default to info.
func ParseLogLevel(levelStr string) zerolog.Level {
	switch levelStr {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a timestamped logger writing to w at the named level
func NewLogger(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = io.Discard
	}
	return zerolog.New(w).
		Level(ParseLogLevel(level)).
		With().
		Timestamp().
		Str("component", "bands").
		Logger()
}

// SetLogger replaces the package logger
func SetLogger(logger zerolog.Logger) {
	initGlobalLogger()
	globalLoggerMutex.Lock()
	globalLogger = logger
	globalLoggerMutex.Unlock()
}

// GetLogger returns the package logger
func GetLogger() *zerolog.Logger {
	initGlobalLogger()
	globalLoggerMutex.RLock()
	logger := globalLogger
	globalLoggerMutex.RUnlock()
	return &logger
}

// WithField returns a child of the package logger carrying one extra field
func WithField(key string, value interface{}) *zerolog.Logger {
	logger := GetLogger().With().Interface(key, value).Logger()
	return &logger
}

// WithFields returns a child of the package logger carrying fields
func WithFields(fields Fields) *zerolog.Logger {
	logger := GetLogger().With().Fields(map[string]interface{}(fields)).Logger()
	return &logger
}

// UpdateLoggerFromConfig updates the global logger level from the current global configuration
func UpdateLoggerFromConfig() {
	config := GetGlobalConfig()
	initGlobalLogger()
	globalLoggerMutex.Lock()
	globalLogger = globalLogger.Level(ParseLogLevel(config.LogLevel))
	globalLoggerMutex.Unlock()
}
