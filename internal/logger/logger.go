// Package logger holds the process-wide logrus logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It is usable before Setup with logrus defaults.
var Log = logrus.New()

// Options mirrors the logging section of the config file.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// Setup configures Log. An empty level means "info", an empty format means "text".
func Setup(opts Options) error {
	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	Log.SetLevel(lvl)

	switch strings.ToLower(opts.Format) {
	case "", "text":
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", opts.Format)
	}

	if opts.Output != nil {
		Log.SetOutput(opts.Output)
	} else {
		Log.SetOutput(os.Stderr)
	}
	return nil
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
