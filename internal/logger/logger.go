// Package logger provides leveled logging for the forum with a stderr backend
// and an optional file backend.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/op/go-logging"
)

const (
	module      = "forum"
	logFileName = "forum.log"
	timeFormat  = "2006/01/02 15:04:05"
)

var (
	mu      sync.Mutex
	logger  *logging.Logger
	logFile *os.File
)

func init() {
	logger = newLogger(logging.INFO, nil)
}

// InitLogger replaces the default logger. The stderr backend logs at level,
// the file backend (when folder is not empty) always logs at DEBUG.
func InitLogger(level logging.Level, folder string) {
	mu.Lock()
	defer mu.Unlock()

	var file logging.Backend
	if folder != "" {
		file = initFileBackend(folder)
	}
	logger = newLogger(level, file)
}

// ParseLevel maps a configured level name onto a go-logging level, falling
// back to INFO for unknown names.
func ParseLevel(name string) logging.Level {
	level, err := logging.LogLevel(name)
	if err != nil {
		return logging.INFO
	}
	return level
}

func newLogger(level logging.Level, file logging.Backend) *logging.Logger {
	l := logging.MustGetLogger(module)
	backends := make([]logging.Backend, 0, 2)

	console := logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), newFormatter())
	leveled := logging.AddModuleLevel(console)
	leveled.SetLevel(level, module)
	backends = append(backends, leveled)

	if file != nil {
		leveledFile := logging.AddModuleLevel(file)
		leveledFile.SetLevel(logging.DEBUG, module)
		backends = append(backends, leveledFile)
	}

	l.SetBackend(logging.MultiLogger(backends...))
	return l
}

func initFileBackend(folder string) logging.Backend {
	if err := os.MkdirAll(folder, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", folder, err)
		return nil
	}
	path := filepath.Join(folder, logFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
		return nil
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file
	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter())
}

func newFormatter() logging.Formatter {
	return logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level} - %{message}`)
}

// CloseLogger closes the log file, if any.
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func current() *logging.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Debug logs a debug message.
func Debug(args ...any) {
	current().Debug(args...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...any) {
	current().Debugf(format, args...)
}

// Info logs an info message.
func Info(args ...any) {
	current().Info(args...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...any) {
	current().Infof(format, args...)
}

// Warning logs a warning message.
func Warning(args ...any) {
	current().Warning(args...)
}

// Warningf logs a formatted warning message.
func Warningf(format string, args ...any) {
	current().Warningf(format, args...)
}

// Error logs an error message.
func Error(args ...any) {
	current().Error(args...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...any) {
	current().Errorf(format, args...)
}
