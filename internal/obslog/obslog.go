// Package obslog owns the process-global zap logger. Diagnostics go to
// stderr or a file; stdout is reserved for protocol output.
package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger = zap.NewNop()
	levelHandle  = zap.NewAtomicLevel()
	baseLevel    = zapcore.InfoLevel
)

// Options configures Init. Level defaults to info, File is optional and
// adds a second sink next to stderr.
type Options struct {
	Level string
	File  string
}

// L returns the global logger. Before Init it is a nop logger.
func L() *zap.Logger { return globalLogger }

// Init builds the global logger. Both sinks share one atomic level so a
// later SetDebug call affects all of them.
func Init(opts Options) error {
	baseLevel = parseLevel(opts.Level)
	levelHandle = zap.NewAtomicLevelAt(baseLevel)

	enc := zapcore.NewConsoleEncoder(encoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.AddSync(os.Stderr), levelHandle),
	}

	if path := strings.TrimSpace(opts.File); path != "" {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(f), levelHandle))
	}

	globalLogger = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// SetDebug switches the shared level between debug and the configured base
// level. Driven by the protocol's debug command.
func SetDebug(enabled bool) {
	if enabled {
		levelHandle.SetLevel(zapcore.DebugLevel)
		return
	}
	levelHandle.SetLevel(baseLevel)
}

// Sync flushes buffered log entries. Safe to call on exit paths.
func Sync() {
	_ = globalLogger.Sync()
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}
