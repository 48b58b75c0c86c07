package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Leveled logger shared by the incident service.
// Wraps a single logrus.Logger; Init picks the level, SetFormat the encoding.

// Fields is an alias so callers do not need to import logrus directly.
type Fields = logrus.Fields

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	case "fatal":
		base.SetLevel(logrus.FatalLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}
}

// SetFormat switches between "text" (default) and "json" output.
func SetFormat(f string) {
	if strings.EqualFold(strings.TrimSpace(f), "json") {
		base.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// WithFields returns an entry carrying structured fields.
func WithFields(f Fields) *logrus.Entry {
	return base.WithFields(f)
}

func Debugf(format string, v ...interface{}) { base.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { base.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { base.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { base.Errorf(format, v...) }

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) { base.Fatalf(format, v...) }

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) { base.Infoln(v...) }

// LevelString returns the current level as text.
func LevelString() string {
	switch base.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "debug"
	case logrus.WarnLevel:
		return "warn"
	case logrus.ErrorLevel:
		return "error"
	case logrus.FatalLevel, logrus.PanicLevel:
		return "fatal"
	}
	return "info"
}
