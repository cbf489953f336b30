// Package observability owns the process-wide zap logger.
package observability

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stigoleg/keep-moving/internal/config"
)

const loggerName = "keepmoving"

var (
	// globalLogger stores the global logger instance safely across goroutines.
	globalLogger atomic.Pointer[zap.Logger]
	// once ensures that initialization happens exactly once.
	once sync.Once

	restoreStdLog func()

	fallbackOnce sync.Once
	fallback     *zap.Logger
)

// Initialize sets up the global logger. Console output goes to console; a
// nil console disables it, which the TUI uses to keep the screen clean. When
// cfg.File is set a rotating JSON file is added.
func Initialize(cfg config.LoggingConfig, console zapcore.WriteSyncer) {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		var cores []zapcore.Core
		if console != nil {
			cores = append(cores, zapcore.NewCore(getEncoder(cfg.Format), console, level))
		}

		if cfg.File != "" {
			// lumberjack handles file rotation and thread-safe writes.
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
			cores = append(cores, zapcore.NewCore(getEncoder("json"), fileWriter, level))
		}

		logger := zap.NewNop()
		if len(cores) > 0 {
			logger = zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named(loggerName)
		}
		globalLogger.Store(logger)

		zap.ReplaceGlobals(logger)
		restoreStdLog = zap.RedirectStdLog(logger)
	})
}

// ResetForTest clears the global logger. Tests only.
func ResetForTest() {
	if restoreStdLog != nil {
		restoreStdLog()
		restoreStdLog = nil
	}
	globalLogger.Store(nil)
	once = sync.Once{}
}

func getEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(name + ".")
		}
		return zapcore.NewConsoleEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

// GetLogger returns the global logger, or a development logger when
// Initialize has not run yet.
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	fallbackOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			fallback = zap.NewNop()
			return
		}
		fallback = l.Named("fallback")
	})
	return fallback
}

// Sync flushes buffered entries. Call before exiting.
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	if err := logger.Sync(); err != nil {
		// Syncing a terminal fails on some systems; that is not worth reporting.
		msg := err.Error()
		if !strings.Contains(msg, "sync /dev/std") &&
			!strings.Contains(msg, "invalid argument") &&
			!strings.Contains(msg, "inappropriate ioctl") &&
			!strings.Contains(msg, "operation not supported") {
			fmt.Fprintln(os.Stderr, "Error: failed to sync logger:", err)
		}
	}
}

// Lifecycle returns the level for lifecycle and wait messages: info when
// verbose logging is on, debug otherwise.
func Lifecycle(cfg config.LoggingConfig) zapcore.Level {
	if cfg.Verbose {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}
