package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type SetupParams struct {
	LogLevel      string
	LogFormatJSON bool
}

// Setup configures the process-wide logrus logger. Output always goes to stdout.
func Setup(params SetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))
	logrus.SetOutput(os.Stdout)
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
