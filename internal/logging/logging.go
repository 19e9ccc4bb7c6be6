// Package logging is the small leveled-logger facade the rest of the module
// logs through, wrapping github.com/op/go-logging the same way
// achilleasa-polaris/log does: a minimal Logger interface, a named
// constructor, and package-level sink/level control for the CLI driver's
// verbosity flags.
package logging

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is the logger verbosity threshold.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is the interface bvh.Build, bvh.Query and the CLI driver log
// through.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a new named logger.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects log output.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	backendWithFormatter := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(backendWithFormatter)
	leveledBackend.SetLevel(logging.INFO, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the minimum level that will be emitted.
func SetLevel(level Level) {
	var loggerLevel logging.Level
	switch level {
	case Debug:
		loggerLevel = logging.DEBUG
	case Info:
		loggerLevel = logging.INFO
	case Notice:
		loggerLevel = logging.NOTICE
	case Warning:
		loggerLevel = logging.WARNING
	case Error:
		loggerLevel = logging.ERROR
	}
	leveledBackend.SetLevel(loggerLevel, "")
}

// noop implements Logger by discarding everything. bvh.Build/bvh.Query use
// it by default so the library stays silent unless the caller injects a
// real Logger.
type noop struct{}

func (noop) Debug(v ...interface{})                 {}
func (noop) Debugf(format string, v ...interface{})  {}
func (noop) Notice(v ...interface{})                 {}
func (noop) Noticef(format string, v ...interface{}) {}
func (noop) Info(v ...interface{})                   {}
func (noop) Infof(format string, v ...interface{})   {}
func (noop) Warning(v ...interface{})                {}
func (noop) Warningf(format string, v ...interface{}) {
}
func (noop) Error(v ...interface{})                 {}
func (noop) Errorf(format string, v ...interface{}) {}

// Noop returns a Logger that discards everything.
func Noop() Logger { return noop{} }

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
