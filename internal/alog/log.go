// Package alog provides the small per-package logger interface used
// throughout this module, mirroring the btcsuite/flokicoin convention:
// every package holds its own silent-by-default Logger variable,
// switched on via UseLogger, so a library importer who never wires up
// logging gets none. Output goes through log/slog, with this package's
// own Level enum mapped onto slog levels, per the teacher's log/v2
// migration.
package alog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Level is a logging severity, ordered from most to least verbose.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

// LevelFromString parses a level name case-insensitively, accepting the
// same three-letter abbreviations the teacher's config flags use. It
// returns LevelInfo, false for anything unrecognized.
func LevelFromString(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "trace", "trc":
		return LevelTrace, true
	case "debug", "dbg":
		return LevelDebug, true
	case "info", "inf":
		return LevelInfo, true
	case "warn", "wrn":
		return LevelWarn, true
	case "error", "err":
		return LevelError, true
	case "critical", "crt":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}

// SlogLevel returns the log/slog.Level a handler should filter at to
// match l.
func (l Level) SlogLevel() slog.Level {
	return l.slogLevel()
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelTrace:
		return slog.Level(-8)
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return slog.Level(12)
	default:
		return slog.Level(16)
	}
}

// Logger is the minimal logging surface every package in this module
// depends on instead of *slog.Logger directly, so Disabled can satisfy
// it with zero-cost no-ops.
type Logger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Criticalf(format string, args ...any)
}

// Disabled is a Logger that discards everything. Packages default to
// this until a caller supplies a real one via UseLogger.
var Disabled Logger = disabled{}

type disabled struct{}

func (disabled) Tracef(string, ...any)    {}
func (disabled) Debugf(string, ...any)    {}
func (disabled) Infof(string, ...any)     {}
func (disabled) Warnf(string, ...any)     {}
func (disabled) Errorf(string, ...any)    {}
func (disabled) Criticalf(string, ...any) {}

// slogLogger adapts an *slog.Logger, tagged with a subsystem name, to
// the Logger interface.
type slogLogger struct {
	inner     *slog.Logger
	subsystem string
}

// NewSlogLogger wraps inner, tagging every record with subsystem so log
// lines from different packages sharing one handler stay distinguishable.
func NewSlogLogger(inner *slog.Logger, subsystem string) Logger {
	return &slogLogger{inner: inner, subsystem: subsystem}
}

func (l *slogLogger) log(level Level, format string, args ...any) {
	l.inner.Log(context.Background(), level.slogLevel(), fmt.Sprintf(format, args...), "subsystem", l.subsystem)
}

func (l *slogLogger) Tracef(format string, args ...any)    { l.log(LevelTrace, format, args...) }
func (l *slogLogger) Debugf(format string, args ...any)    { l.log(LevelDebug, format, args...) }
func (l *slogLogger) Infof(format string, args ...any)     { l.log(LevelInfo, format, args...) }
func (l *slogLogger) Warnf(format string, args ...any)     { l.log(LevelWarn, format, args...) }
func (l *slogLogger) Errorf(format string, args ...any)    { l.log(LevelError, format, args...) }
func (l *slogLogger) Criticalf(format string, args ...any) { l.log(LevelCritical, format, args...) }
