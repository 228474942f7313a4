// file: logger/logger.go

package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide structured logger.
var Log = logrus.New()

// Init configures the global logger with JSON output on stdout.
// The level is read from LOG_LEVEL and defaults to info.
func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}

// SetLevel changes the level after configuration has been loaded.
func SetLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		Log.WithField("level", name).Warn("Unknown log level, keeping current level")
		return
	}
	Log.SetLevel(level)
}
