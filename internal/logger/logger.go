// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Packages take a logrus.FieldLogger and
// the CLI passes Log to them.
var Log = logrus.New()

// Options controls how Init configures Log
type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// Init applies opts to Log. An empty level means info, or debug when the
// DEBUG environment variable is "true".
func Init(opts Options) error {
	if opts.JSON {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if opts.Output != nil {
		Log.SetOutput(opts.Output)
	} else {
		Log.SetOutput(os.Stderr)
	}

	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
		if strings.EqualFold(os.Getenv("DEBUG"), "true") {
			level = "debug"
		}
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Log.SetLevel(parsed)
	return nil
}
