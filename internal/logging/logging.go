// Package logging wraps zap into the level/prefix call shape this
// codebase's teacher used (logger.Trace/Debug/Info/Warn/Error(prefix,
// format, args...)), backed by lumberjack for on-disk rotation when a
// file sink is configured.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level mirrors the teacher's five-level scheme; TraceLevel has no zap
// equivalent so it is mapped onto zap's Debug with an extra field.
type Level int

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel converts a case-insensitive level name, defaulting to Info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return TraceLevel
	case "DEBUG":
		return DebugLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case ErrorLevel:
		return zapcore.ErrorLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case InfoLevel:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// FileConfig configures lumberjack-backed log rotation. A zero value
// means "no file sink" (console only).
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger is the sink every Session and the demo CLI logs through.
type Logger struct {
	z     *zap.SugaredLogger
	level Level
}

// New builds a Logger at level, writing to stderr and, if file.Path is
// non-empty, additionally to a rotated file via lumberjack.
func New(level Level, file FileConfig) (*Logger, error) {
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level.zapLevel()),
	}

	if file.Path != "" {
		rotator := &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    orDefault(file.MaxSizeMB, 50),
			MaxBackups: orDefault(file.MaxBackups, 5),
			MaxAge:     orDefault(file.MaxAgeDays, 28),
			Compress:   file.Compress,
		}
		jsonEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), level.zapLevel()))
	}

	core := zapcore.NewTee(cores...)
	l := &Logger{z: zap.New(core).Sugar(), level: level}
	return l, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Trace logs low-level wire/protocol detail.
func (l *Logger) Trace(prefix, format string, args ...interface{}) {
	if l.level > TraceLevel {
		return
	}
	l.emit(prefix, "TRACE", format, args...)
}

// Debug logs application-level protocol detail.
func (l *Logger) Debug(prefix, format string, args ...interface{}) {
	if l.level > DebugLevel {
		return
	}
	l.emit(prefix, "DEBUG", format, args...)
}

// Info logs high-level lifecycle events.
func (l *Logger) Info(prefix, format string, args ...interface{}) {
	if l.level > InfoLevel {
		return
	}
	l.emit(prefix, "INFO", format, args...)
}

// Warn logs a recoverable anomaly.
func (l *Logger) Warn(prefix, format string, args ...interface{}) {
	l.emit(prefix, "WARN", format, args...)
}

// Error logs a failure.
func (l *Logger) Error(prefix, format string, args ...interface{}) {
	l.emit(prefix, "ERROR", format, args...)
}

func (l *Logger) emit(prefix, level, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	switch level {
	case "ERROR":
		l.z.Errorw(msg, "prefix", prefix)
	case "WARN":
		l.z.Warnw(msg, "prefix", prefix)
	case "INFO":
		l.z.Infow(msg, "prefix", prefix)
	default:
		l.z.Debugw(msg, "prefix", prefix, "level", level)
	}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
