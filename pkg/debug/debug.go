// Package debug provides conditional debug logging for mind.
//
// Debug logging is enabled by setting the MIND_DEBUG environment variable:
//
//	MIND_DEBUG=1 mind paths
//
// or by the -v / --log-file flags, which call Init. Messages go to stderr, or
// to the log file when one is given (the TUI always uses a file so the
// terminal stays clean). When disabled (default), all debug functions are
// no-ops.
//
// Usage:
//
//	import "github.com/vanderheijden86/mind/pkg/debug"
//
//	func myFunc() {
//	    debug.Log("processing %d nodes", count)
//	    // ...
//	    debug.LogTiming("myFunc", elapsed)
//	}
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// enabled is true once a logger has been installed
	enabled bool
	logger  = zap.NewNop().Sugar()
	level   = zap.NewAtomicLevelAt(zapcore.DebugLevel)
)

func init() {
	if os.Getenv("MIND_DEBUG") != "" {
		_ = Init(Options{Verbosity: 4, LogFile: os.Getenv("MIND_DEBUG_FILE")})
	}
}

// Options configures Init.
type Options struct {
	Verbosity int    // 0 off, 1 error, 2 warn, 3 info, 4+ debug
	LogFile   string // empty means stderr
	JSON      bool   // JSON lines instead of console output
}

// LevelForVerbosity maps a -v count to a zap level. ok is false for 0.
func LevelForVerbosity(v int) (lvl zapcore.Level, ok bool) {
	switch {
	case v <= 0:
		return zapcore.InvalidLevel, false
	case v == 1:
		return zapcore.ErrorLevel, true
	case v == 2:
		return zapcore.WarnLevel, true
	case v == 3:
		return zapcore.InfoLevel, true
	default:
		return zapcore.DebugLevel, true
	}
}

// Init installs the logger described by opts. Verbosity 0 disables logging.
func Init(opts Options) error {
	lvl, ok := LevelForVerbosity(opts.Verbosity)
	if !ok {
		SetEnabled(false)
		return nil
	}

	cfg := zap.NewDevelopmentConfig()
	if opts.JSON {
		cfg = zap.NewProductionConfig()
	}
	level.SetLevel(lvl)
	cfg.Level = level
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		cfg.OutputPaths = []string{opts.LogFile}
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger = l.Sugar().Named("mind")
	enabled = true
	return nil
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging. Enabling without
// a prior Init logs to stderr at debug level.
func SetEnabled(e bool) {
	if e && !enabled {
		_ = Init(Options{Verbosity: 4})
		return
	}
	if !e {
		_ = logger.Sync()
		logger = zap.NewNop().Sugar()
		enabled = false
	}
}

// Sync flushes buffered entries.
func Sync() error {
	return logger.Sync()
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Debugf(format, args...)
}

// Info logs a message with key/value context at info level.
func Info(msg string, keysAndValues ...any) {
	if !enabled {
		return
	}
	logger.Infow(msg, keysAndValues...)
}

// Warn logs a message with key/value context at warn level.
func Warn(msg string, keysAndValues ...any) {
	if !enabled {
		return
	}
	logger.Warnw(msg, keysAndValues...)
}

// Error logs err with key/value context at error level.
func Error(msg string, err error, keysAndValues ...any) {
	if !enabled {
		return
	}
	logger.Errorw(msg, append([]any{"error", err}, keysAndValues...)...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Debugw("timing", "name", name, "took", d)
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Debugf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Debugf("%s: %T = %+v", name, v, v)
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	if !enabled {
		return
	}
	logger.Debugf("=== %s ===", name)
}
