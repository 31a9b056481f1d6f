// Package logging provides categorized structured logging for genimportjob.
// All output goes to stderr so stdout stays free for --dry-run documents.
// Until Initialize is called every logger is a no-op.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot       Category = "boot"       // Startup, config resolution
	CategoryLocator    Category = "locator"    // Source path/hash resolution
	CategoryTactile    Category = "tactile"    // Subprocess execution
	CategoryBuild      Category = "build"      // Build environment assembly
	CategorySplitter   Category = "splitter"   // Section segmentation
	CategoryClassifier Category = "classifier" // Section classification and aggregation
	CategoryOutput     Category = "output"     // Document persistence
)

// Log formats accepted by Initialize.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	root     = zap.NewNop()
	loggers  = make(map[Category]*zap.SugaredLogger)
	loggerMu sync.RWMutex
)

// Initialize builds the process-wide zap logger.
// level is one of debug, info, warn, error; format is console or json.
func Initialize(level, format string) error {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return fmt.Errorf("invalid log format %q (valid: %s, %s)", format, FormatConsole, FormatJSON)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Use(l)
	return nil
}

// Use installs an already built zap logger. Tests pass zaptest/observer loggers here.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	root = l
	loggers = make(map[Category]*zap.SugaredLogger)
}

// Root returns the underlying zap logger.
func Root() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return root
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Root().Sync()
}

// Get returns (or creates) a named logger for the given category.
func Get(category Category) *zap.SugaredLogger {
	loggerMu.RLock()
	if l, ok := loggers[category]; ok {
		loggerMu.RUnlock()
		return l
	}
	loggerMu.RUnlock()

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := root.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// =============================================================================
// CATEGORY HELPERS
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Infof(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debugf(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warnf(format, args...) }

func Locator(format string, args ...interface{})      { Get(CategoryLocator).Infof(format, args...) }
func LocatorDebug(format string, args ...interface{}) { Get(CategoryLocator).Debugf(format, args...) }
func LocatorError(format string, args ...interface{}) { Get(CategoryLocator).Errorf(format, args...) }

func Tactile(format string, args ...interface{})      { Get(CategoryTactile).Infof(format, args...) }
func TactileDebug(format string, args ...interface{}) { Get(CategoryTactile).Debugf(format, args...) }
func TactileWarn(format string, args ...interface{})  { Get(CategoryTactile).Warnf(format, args...) }
func TactileError(format string, args ...interface{}) { Get(CategoryTactile).Errorf(format, args...) }

func BuildDebug(format string, args ...interface{}) { Get(CategoryBuild).Debugf(format, args...) }

func Splitter(format string, args ...interface{})      { Get(CategorySplitter).Infof(format, args...) }
func SplitterDebug(format string, args ...interface{}) { Get(CategorySplitter).Debugf(format, args...) }

func Classifier(format string, args ...interface{})      { Get(CategoryClassifier).Infof(format, args...) }
func ClassifierDebug(format string, args ...interface{}) { Get(CategoryClassifier).Debugf(format, args...) }
func ClassifierError(format string, args ...interface{}) { Get(CategoryClassifier).Errorf(format, args...) }

func Output(format string, args ...interface{})      { Get(CategoryOutput).Infof(format, args...) }
func OutputDebug(format string, args ...interface{}) { Get(CategoryOutput).Debugf(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warnw(t.op+" was slow", "elapsed", elapsed, "threshold", threshold)
	} else {
		Get(t.category).Debugw(t.op+" completed", "elapsed", elapsed)
	}
	return elapsed
}

// WithRequestID returns a category logger carrying a correlation ID field.
func WithRequestID(category Category, requestID string) *zap.SugaredLogger {
	return Get(category).With("req", requestID)
}

