package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger returns the request logger. Request logs are only emitted at -vv.
func newLogger(w io.Writer, verbosity int, noColor bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   noColor,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})

	log.SetLevel(logrus.WarnLevel)
	if verbosity >= 2 {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
