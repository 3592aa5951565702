// Package logging provides debug-gated, categorized file logging for the
// Yana studio. The TUI owns stdout/stderr, so logs go to files under
// .yana/logs/, and only when debug mode is enabled; otherwise every
// logger is a silent no-op.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category names one log stream; each gets its own file.
type Category string

const (
	CategoryBoot   Category = "boot"   // Startup and configuration
	CategoryAPI    Category = "api"    // Search requests and responses
	CategoryUI     Category = "ui"     // Studio model transitions
	CategoryRender Category = "render" // Diagram render lifecycle
	CategoryStore  Category = "store"  // History store operations
)

// Logger writes one category's stream. A Logger with no file is a no-op,
// which is what every call site gets when debug mode is off.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.Mutex
	logsDir   string
	enabled   bool
)

// Initialize sets up the logging directory. dir is the studio config dir
// (typically .yana); debug false makes everything a silent no-op.
func Initialize(dir string, debug bool) error {
	enabled = debug
	if !enabled {
		return nil
	}
	if dir == "" {
		return fmt.Errorf("config dir required")
	}
	logsDir = filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	Get(CategoryBoot).Info("=== yana logging initialized (dir=%s) ===", logsDir)
	return nil
}

// Get returns (or creates) the logger for a category. When debug mode is
// off, or the file cannot be opened, the returned logger discards
// everything.
func Get(category Category) *Logger {
	if !enabled || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date prefix keeps rotation a matter of deleting old files.
	name := fmt.Sprintf("%s_%s.log", time.Now().Format("2006-01-02"), category)
	file, err := os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", name, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Info records a milestone.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Error records a failure.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes every open log file; call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Convenience helpers; no-ops when debug mode is off.

// API logs to the api category.
func API(format string, args ...interface{}) { Get(CategoryAPI).Info(format, args...) }

// APIError logs an error to the api category.
func APIError(format string, args ...interface{}) { Get(CategoryAPI).Error(format, args...) }

// UI logs to the ui category.
func UI(format string, args ...interface{}) { Get(CategoryUI).Info(format, args...) }

// Render logs to the render category.
func Render(format string, args ...interface{}) { Get(CategoryRender).Info(format, args...) }

// RenderError logs an error to the render category.
func RenderError(format string, args ...interface{}) { Get(CategoryRender).Error(format, args...) }

// Store logs to the store category.
func Store(format string, args ...interface{}) { Get(CategoryStore).Info(format, args...) }
