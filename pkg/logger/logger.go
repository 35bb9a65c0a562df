package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log = logrus.New()

// Init настраивает глобальный логгер.
// Вызывается один раз при старте (main.go) и в TestMain пакетов с тестами.
// Пустой level означает "info", format "json" включает JSONFormatter.
func Init(level, format string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Component возвращает логгер с полем component, как это принято во всех системах.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
