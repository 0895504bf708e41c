// Package logging configures the process-wide zerolog logger. Components log
// through github.com/rs/zerolog/log; main() calls Init once with the settings
// from config.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controls the global logger.
type Config struct {
	Level  string // trace, debug, info, warn, error, disabled; default info
	Format string // console or json; default console
	Caller bool
	Output io.Writer // default os.Stderr
}

// Init configures the global zerolog logger. Safe to call more than once;
// later calls reconfigure it.
func Init(cfg Config) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "console"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// NewTestLogger returns a logger that writes through t.Log so output stays
// attached to the test that produced it.
func NewTestLogger(t zerolog.TestingLog) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t))
}
