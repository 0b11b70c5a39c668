// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLogLevel   = "EGGY_LOG_LEVEL"
	EnvLogNoColor = "EGGY_LOG_NOCOLOR"
)

// Options controls logger output.
type Options struct {
	Level   string // trace|debug|info|warn|error|off; empty means info
	NoColor bool
	JSON    bool   // plain JSON lines instead of the console writer
	File    string // optional rotated log file, written in addition to stderr

	// Out replaces stderr. Tests only.
	Out io.Writer
}

// Configure installs the global logger described by opts, after applying the
// EGGY_LOG_* environment overrides. The returned closer flushes the log file,
// if any.
func Configure(app string, opts Options) (zerolog.Logger, io.Closer) {
	applyEnvOverrides(&opts)

	level, ok := ParseLevel(opts.Level)
	if !ok {
		level = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.RFC3339,
		}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = zerolog.MultiLevelWriter(out, lj)
		closer = lj
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger, closer
}

func applyEnvOverrides(opts *Options) {
	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		if _, ok := ParseLevel(raw); ok {
			opts.Level = raw
		}
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level. Empty and unknown names
// report false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
