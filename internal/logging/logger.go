package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger. Production output is JSON
// so log shippers can index fields; everything else stays human readable.
func Setup(logLevel, environment string) {
	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
