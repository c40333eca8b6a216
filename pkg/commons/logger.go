// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package commons

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging contract shared by every package of the service.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalf(template string, args ...interface{})
	Sync() error
}

type loggerOption struct {
	name       string
	path       string
	level      string
	console    bool
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
}

// LoggerOption configures NewApplicationLogger.
type LoggerOption func(*loggerOption)

// Name sets the logger name; it is also used as the log file name.
func Name(name string) LoggerOption {
	return func(o *loggerOption) { o.name = name }
}

// Path sets the directory of the rotated log file. An empty path disables file output.
func Path(path string) LoggerOption {
	return func(o *loggerOption) { o.path = path }
}

// Level sets the minimum level (debug, info, warn, error).
func Level(level string) LoggerOption {
	return func(o *loggerOption) { o.level = level }
}

// Console toggles writing to stdout in addition to the file.
func Console(enabled bool) LoggerOption {
	return func(o *loggerOption) { o.console = enabled }
}

// Rotation overrides lumberjack rotation limits.
func Rotation(maxSizeMB, maxBackups, maxAgeDays int) LoggerOption {
	return func(o *loggerOption) {
		o.maxSizeMB = maxSizeMB
		o.maxBackups = maxBackups
		o.maxAgeDays = maxAgeDays
	}
}

type applicationLogger struct {
	*zap.SugaredLogger
}

// NewApplicationLogger builds a zap backed logger. Without options it writes
// debug level json to stdout.
func NewApplicationLogger(opts ...LoggerOption) (Logger, error) {
	o := &loggerOption{
		name:       "scribe",
		level:      "debug",
		console:    true,
		maxSizeMB:  50,
		maxBackups: 5,
		maxAgeDays: 14,
	}
	for _, opt := range opts {
		opt(o)
	}

	level, err := zapcore.ParseLevel(o.level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.level, err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	cores := make([]zapcore.Core, 0, 2)
	if o.path != "" {
		if err := os.MkdirAll(o.path, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(o.path, o.name+".log"),
			MaxSize:    o.maxSizeMB,
			MaxBackups: o.maxBackups,
			MaxAge:     o.maxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, level))
	}
	if o.console || len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).Named(o.name)
	return &applicationLogger{SugaredLogger: logger.Sugar()}, nil
}
