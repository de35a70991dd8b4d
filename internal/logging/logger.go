package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger defines a minimal, printf-style logging contract.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger { return nopLogger{} }

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return Nop()
	}
	return logger
}

// fileLogger writes to stderr and optionally to a shared log file.
type fileLogger struct {
	mu        *sync.Mutex
	file      *os.File
	level     LogLevel
	component string
}

var (
	rootOnce sync.Once
	rootMu   sync.Mutex
	rootFile *os.File
	rootLvl  = DEBUG
	rootPath string
)

// Configure sets the shared log file path and minimum level for loggers
// created afterwards. An empty path keeps output on stderr only.
func Configure(path string, level LogLevel) {
	rootMu.Lock()
	defer rootMu.Unlock()
	rootLvl = level
	rootPath = path
}

func sharedFile() *os.File {
	rootOnce.Do(func() {
		rootMu.Lock()
		path := rootPath
		rootMu.Unlock()
		if path == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Printf("logging: create log dir: %v", err)
			return
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Printf("logging: open log file: %v", err)
			return
		}
		rootFile = file
	})
	return rootFile
}

// NewComponentLogger returns the default application logger scoped to a component.
func NewComponentLogger(component string) Logger {
	rootMu.Lock()
	level := rootLvl
	rootMu.Unlock()
	return &fileLogger{
		mu:        &rootMu,
		file:      sharedFile(),
		level:     level,
		component: component,
	}
}

func (l *fileLogger) logAt(level LogLevel, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] %s: %s", time.Now().Format("2006-01-02 15:04:05.000"), tag, l.component, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(os.Stderr, line)
	if l.file != nil {
		fmt.Fprintln(l.file, line)
	}
}

func (l *fileLogger) Debug(format string, args ...any) { l.logAt(DEBUG, "DEBUG", format, args...) }
func (l *fileLogger) Info(format string, args ...any)  { l.logAt(INFO, "INFO", format, args...) }
func (l *fileLogger) Warn(format string, args ...any)  { l.logAt(WARN, "WARN", format, args...) }
func (l *fileLogger) Error(format string, args ...any) { l.logAt(ERROR, "ERROR", format, args...) }
