// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

// Package logger provides a thin wrapper around zerolog.Logger used
// throughout the menukeeper library.
//
// The Logger type embeds zerolog.Logger so all standard zerolog methods
// (Debug, Info, Warn, Error, etc.) are available directly on *Logger. The
// host application passes *Logger by pointer; context-scoped loggers are
// obtained via FromContext.
package logger

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding exposes the full
// zerolog API while leaving room for library-specific helpers.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a *Logger writing JSON to stdout for the given role
// label (e.g. "store", "sync"). Every entry carries a "role" field, a
// timestamp and a "func" caller field holding the fully-qualified function
// name.
func NewLogger(role string) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// NewFileLogger constructs a *Logger that appends to the given file path,
// creating parent directories as needed. On mobile targets stdout is usually
// invisible, so the shell passes a path inside the app's data directory.
// Falls back to stdout if the file cannot be opened.
func NewFileLogger(role, path string) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	var out *os.File = os.Stdout
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		if f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			out = f
		}
	}

	l := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger inheriting all fields of the
// receiver. The child can be enriched without affecting the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's log.Ctx
// helper. If none has been attached, zerolog returns its global logger, so
// this never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
