// Package logger holds the process-wide logrus logger used by the file
// patcher and the build pipeline.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// L is the global logger instance. It discards all output until Init is called.
var L = newDiscard()

// Options configures the logger initialization.
type Options struct {
	Enabled bool   // If false, all logging is discarded
	Level   string // debug, info, warn, error. Default: info
	Out     io.Writer
	File    string // Appends to this file instead of Out when set
	JSON    bool   // Use logrus.JSONFormatter instead of text
}

// Init configures logging. Call from main() before any log calls.
func Init(opts Options) error {
	if !opts.Enabled {
		L = newDiscard()
		return nil
	}

	lvl := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		lvl = parsed
	}

	var w io.Writer = os.Stderr
	if opts.Out != nil {
		w = opts.Out
	}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", opts.File, err)
		}
		w = f
	}

	var formatter logrus.Formatter = &logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		DisableSorting:  true,
	}
	if opts.JSON {
		formatter = &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}
	}

	L = &logrus.Logger{
		Out:       w,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
	}
	return nil
}

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithFile returns an entry tagged with the file being processed.
func WithFile(path string) *logrus.Entry { return L.WithField("file", path) }
