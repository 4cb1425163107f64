package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds configuration options for the application logger.
type Logger struct {
	//nolint:staticcheck // allow duplicate struct tags
	Level string `long:"log-level" env:"LOG_LEVEL" description:"Log level" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	//nolint:staticcheck // allow duplicate struct tags
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" default:"console" choice:"json" choice:"console"`
}

// Setup initializes the global logger writing to stderr.
func (l *Logger) Setup() {
	noColor := true
	// Colors only when stderr is a TTY.
	if stat, err := os.Stderr.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
		noColor = false
	}
	l.SetupWriter(os.Stderr, noColor)
}

// SetupWriter initializes the global logger writing to w. It configures the
// output format (JSON or Console) and the logging level.
func (l *Logger) SetupWriter(w io.Writer, noColor bool) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.DurationFieldUnit = time.Millisecond

	if l.Format == "json" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}).With().Timestamp().Logger()
}
