package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "GBAXFER_LOG_LEVEL"

// New returns a console logger writing to w at the given level. Colour is
// enabled only when w is a terminal.
func New(w io.Writer, level zerolog.Level, component string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// ParseLevel converts a level name into a zerolog level. An empty name means
// info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(name)
}

// LevelFromEnv returns the level named by GBAXFER_LOG_LEVEL, or fallback
// when the variable is unset.
func LevelFromEnv(fallback zerolog.Level) (zerolog.Level, error) {
	name, ok := os.LookupEnv(EnvLevel)
	if !ok {
		return fallback, nil
	}
	return ParseLevel(name)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
