// Package logging provides the structured logger shared by the server
// and client binaries: a zap logger tee'd across a human-readable
// console core and a rotated JSON file core.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the package-level logger. Initialize must be called before use.
var Log *zap.Logger = zap.NewNop()

// Initialize sets up the logger. level is "debug", "info", "warn", or
// "error" (default "info"); file is the rotated JSON log destination.
// If file is empty, logging goes to stdout only.
func Initialize(level string, file string) error {
	zapLevel := parseLevel(level)

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), zapLevel),
	}

	if file != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		})

		jsonConfig := zap.NewProductionEncoderConfig()
		jsonConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		jsonEncoder := zapcore.NewJSONEncoder(jsonConfig)

		cores = append(cores, zapcore.NewCore(jsonEncoder, fileWriter, zapLevel))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return nil
}

// Close flushes any buffered log entries. Safe to call even if
// Initialize was never called.
func Close() error {
	if Log == nil {
		return nil
	}
	return Log.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
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
