package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = newLogger()

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: true,
	})

	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// SetDebug switches the level from the cli flag, DEBUG=1 still wins
func SetDebug(on bool) {
	if on || os.Getenv("DEBUG") == "1" {
		Log.SetLevel(logrus.DebugLevel)
		return
	}
	Log.SetLevel(logrus.InfoLevel)
}

// SetQuiet hides everything below warnings
func SetQuiet() {
	Log.SetLevel(logrus.WarnLevel)
}
