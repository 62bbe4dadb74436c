package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions configures the run logger
type LogOptions struct {
	Dir   string
	File  string
	Level string
	JSON  bool
	// Quiet limits the console to errors; the log file still gets everything
	Quiet bool
}

// levelFilter drops events below min before they reach the wrapped writer
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f levelFilter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}

// NewLogger builds the run logger. Events go to console and are appended to
// <Dir>/<File>. The returned closer closes the log file.
func NewLogger(opts LogOptions, console io.Writer) (zerolog.Logger, io.Closer, error) {
	if opts.File == "" {
		opts.File = "scrape.log"
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(opts.Dir, opts.File), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var consoleOut, fileOut io.Writer = console, file
	if !opts.JSON {
		consoleOut = zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}
		fileOut = zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}
	if opts.Quiet {
		consoleOut = levelFilter{w: consoleOut, min: zerolog.ErrorLevel}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(consoleOut, fileOut)).
		Level(level).
		With().
		Timestamp().
		Logger()

	logger.Debug().
		Str("level", level.String()).
		Bool("json", opts.JSON).
		Str("file", file.Name()).
		Msg("Logger initialized")

	return logger, file, nil
}
