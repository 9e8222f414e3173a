// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log is the global logger. It discards output until Init is called so that
// library code and tests can log unconditionally.
var Log = newDiscard()

// Options selects level, format and destination
type Options struct {
	Level  string // logrus level name, "info" when empty or invalid
	Format string // "json" or "text"
	File   string // log file path; empty means stderr
}

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init configures the global logger. The returned closer releases the log
// file, if any, and is never nil.
func Init(opts Options) (io.Closer, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(opts.Format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: opts.File != "",
		})
	}

	var closer io.Closer = nopCloser{}
	if opts.File == "" {
		l.SetOutput(os.Stderr)
	} else {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nopCloser{}, errors.Wrapf(err, "create log dir %s", dir)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nopCloser{}, errors.Wrapf(err, "open log file %s", opts.File)
		}
		l.SetOutput(f)
		closer = f
	}

	Log = l
	return closer, nil
}

// For returns a field logger tagged with the component name
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
