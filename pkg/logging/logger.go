package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger wraps a charmbracelet logger. Buffer is only set for loggers built by NewTestLogger.
type Logger struct {
	*log.Logger
	Buffer *bytes.Buffer
}

var (
	logger *Logger
	once   sync.Once
)

// CreateLogger sets up the package logger. DEBUG=1 turns on caller and timestamp reporting.
func CreateLogger() {
	once.Do(func() {
		logger = New(os.Stderr, os.Getenv("DEBUG") == "1")
	})
}

// New builds a logger writing to w.
func New(w io.Writer, debug bool) *Logger {
	if !debug {
		base := log.NewWithOptions(w, log.Options{Prefix: "procstmt"})
		base.SetLevel(log.InfoLevel)
		return &Logger{Logger: base}
	}
	base := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "procstmt",
	})
	base.SetLevel(log.DebugLevel)
	return &Logger{Logger: base}
}

// NewTestLogger returns a debug-level logger that writes into an in-memory buffer.
func NewTestLogger() *Logger {
	buf := &bytes.Buffer{}
	base := log.NewWithOptions(buf, log.Options{Prefix: "procstmt"})
	base.SetLevel(log.DebugLevel)
	return &Logger{Logger: base, Buffer: buf}
}

// GetOutput returns what a test logger captured so far.
func (l *Logger) GetOutput() string {
	if l.Buffer == nil {
		return ""
	}
	return l.Buffer.String()
}

// SetLevelName sets the level from a config string ("debug", "info", ...). Unknown names leave it untouched.
func (l *Logger) SetLevelName(name string) {
	if name == "" {
		return
	}
	lvl, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		l.Warn("unknown log level", "level", name)
		return
	}
	l.SetLevel(lvl)
}

// GetLogger returns the package logger, creating it on first use.
func GetLogger() *Logger {
	ensureInitialized()
	return logger
}

// SetLogger replaces the package logger.
func SetLogger(l *Logger) {
	once.Do(func() {})
	logger = l
}

func Debug(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Debug(msg, keyvals...)
}

func Info(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Info(msg, keyvals...)
}

func Warn(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Warn(msg, keyvals...)
}

func Error(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Error(msg, keyvals...)
}

func ensureInitialized() {
	if logger == nil {
		CreateLogger()
	}
}
