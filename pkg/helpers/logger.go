package helpers

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// appHook stamps every entry with the process name so API and worker logs
// can share one sink.
type appHook struct {
	app string
}

func (h appHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.app
	}
	return nil
}

// NewLogger creates a configured Logrus logger. Development gets colored text
// at debug level; other envs get JSON at info. level overrides the default
// when it parses.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil && level != "" {
		logger.SetLevel(lvl)
	}
	logger.AddHook(appHook{app: appName})
	logger.WithFields(logrus.Fields{"env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// LogError logs msg at error level with err and fields.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logger.WithFields(fields).WithError(err).Error(msg)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	logger.WithFields(fields).Info(msg)
}
