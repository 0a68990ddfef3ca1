package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	corelogger "github.com/maelgrv/spotflex/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

// New returns a zerolog-backed Logger for the given component, writing to
// stdout. SPOTFLEX_LOG_FORMAT=console (or APP_ENV=dev) selects human-readable
// output instead of JSON; SPOTFLEX_LOG_LEVEL caps the level (default info,
// debug enables the per-row diagnostics).
func New(component string) Logger {
	var out io.Writer = os.Stdout
	if consoleOutput() {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, component)
}

// NewWithWriter builds the same logger against an explicit writer, so tests
// can capture output.
func NewWithWriter(out io.Writer, component string) Logger {
	z := zerolog.New(out).
		Level(configuredLevel()).
		With().Timestamp().Str("component", component).
		Logger()
	return &componentLogger{log: z}
}

func consoleOutput() bool {
	if strings.EqualFold(os.Getenv("SPOTFLEX_LOG_FORMAT"), "console") {
		return true
	}
	return strings.EqualFold(os.Getenv("APP_ENV"), "dev")
}

func configuredLevel() zerolog.Level {
	switch strings.ToLower(os.Getenv("SPOTFLEX_LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// componentLogger adapts zerolog to the core Logger interface; every line
// carries the component field set at construction.
type componentLogger struct {
	log zerolog.Logger
}

func (l *componentLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *componentLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *componentLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *componentLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *componentLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
