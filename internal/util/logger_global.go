package util

import (
	"context"
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger installs the process wide logger. A later call replaces it.
func InitLogger(opts LoggerOptions) error {
	logger, err := NewLogger(opts)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger installs l as the process wide logger; nil disables logging.
func SetLogger(l LoggerInterface) {
	loggerMu.Lock()
	old := globalLogger
	globalLogger = l
	loggerMu.Unlock()
	if old != nil && old != l {
		_ = old.Close()
	}
}

func current() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// LogWith logs msg at level with structured fields.
func LogWith(level LogLevel, msg string, fields ...Field) {
	l := current()
	if l == nil {
		return
	}
	switch level {
	case LevelDebug:
		l.Debug(msg, fields...)
	case LevelInfo:
		l.Info(msg, fields...)
	case LevelWarn:
		l.Warn(msg, fields...)
	default:
		l.Error(msg, fields...)
	}
}

// LogCtx logs msg with the refresh and source tags carried by ctx.
func LogCtx(ctx context.Context, level LogLevel, msg string, fields ...Field) {
	l := current()
	if l == nil {
		return
	}
	scoped := l.WithContext(ctx)
	switch level {
	case LevelDebug:
		scoped.Debug(msg, fields...)
	case LevelInfo:
		scoped.Info(msg, fields...)
	case LevelWarn:
		scoped.Warn(msg, fields...)
	default:
		scoped.Error(msg, fields...)
	}
}

func LogInfo(msg string) {
	if l := current(); l != nil {
		l.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if l := current(); l != nil {
		l.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if l := current(); l != nil {
		l.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if l := current(); l != nil {
		l.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}
