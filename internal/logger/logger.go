package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level tags log entries by severity or kind.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARN"
	LevelError   Level = "ERROR"
	LevelTrade   Level = "TRADE"
)

// Logger writes timestamped, component-tagged entries to a shared log
// file mirrored to stderr. It is created once before any strategy task
// starts and injected into every component; nothing mutates it after.
type Logger struct {
	mu      sync.Mutex
	logger  *log.Logger
	logFile *os.File
}

// New opens (or creates) the engine log file under dir and returns a
// logger writing to it and to stderr.
func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("engine_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		logger:  log.New(io.MultiWriter(file, os.Stderr), "", 0),
		logFile: file,
	}, nil
}

// NewDiscard returns a logger that drops everything. Used in tests.
func NewDiscard() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

// Component returns a logger view tagged with a fixed component name,
// typically "<strategy>[<symbol>]".
func (l *Logger) Component(name string) *ComponentLogger {
	return &ComponentLogger{parent: l, name: name}
}

func (l *Logger) write(level Level, component, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, level, component, message)
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// ComponentLogger is a Logger view bound to one component name.
type ComponentLogger struct {
	parent *Logger
	name   string
}

func (c *ComponentLogger) Info(format string, args ...interface{}) {
	c.parent.write(LevelInfo, c.name, format, args...)
}

func (c *ComponentLogger) Warning(format string, args ...interface{}) {
	c.parent.write(LevelWarning, c.name, format, args...)
}

func (c *ComponentLogger) Error(format string, args ...interface{}) {
	c.parent.write(LevelError, c.name, format, args...)
}

// Trade logs an order submission or position event.
func (c *ComponentLogger) Trade(format string, args ...interface{}) {
	c.parent.write(LevelTrade, c.name, format, args...)
}
