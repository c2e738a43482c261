// Package logging sets up the application's hclog logger. The TUI owns the
// terminal, so logs always go to a file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Options selects where and how much to log
type Options struct {
	Name  string
	Level string // trace, debug, info, warn or error
	File  string // empty discards all output
}

// Logger is an hclog logger plus the file it writes to
type Logger struct {
	hclog.Logger
	file io.Closer
}

// New opens opts.File for appending and returns a logger writing to it. The
// standard library logger is redirected into it as well.
func New(opts Options) (*Logger, error) {
	level := hclog.Info
	if opts.Level != "" {
		level = hclog.LevelFromString(opts.Level)
		if level == hclog.NoLevel {
			return nil, fmt.Errorf("unknown log level %q", opts.Level)
		}
	}

	var (
		out  io.Writer = io.Discard
		file *os.File
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, file = f, f
	}

	name := opts.Name
	if name == "" {
		name = "foldersearch"
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: out,
	})

	log.SetFlags(0)
	log.SetOutput(logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}))

	l := &Logger{Logger: logger}
	if file != nil {
		l.file = file
	}
	return l, nil
}

// Close restores the standard logger and closes the log file
func (l *Logger) Close() error {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
