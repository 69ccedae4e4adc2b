// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"log"
	"os"
)

// Logger is the trace sink the Worker writes diagnostic output to: one
// line per request that has gone quiet waiting on vtime progress, plus
// (when enabled) one line per outer loop iteration carrying the
// wall-clock time elapsed since the worker started. It is deliberately narrow — this engine has
// nothing to say beyond these two events.
type Logger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
}

// NewNoOpLogger returns a Logger that discards everything. It is the
// default for a Queue that isn't given one explicitly.
func NewNoOpLogger() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Tracef(string, ...any) {}
func (noopLogger) Debugf(string, ...any) {}

// NewStdLogger returns a Logger backed by the standard library's log
// package, writing to stderr with the given prefix.
func NewStdLogger(prefix string) Logger {
	return &stdLogger{l: log.New(os.Stderr, prefix, log.LstdFlags)}
}

type stdLogger struct {
	l *log.Logger
}

func (s *stdLogger) Tracef(format string, args ...any) {
	s.l.Printf("TRACE "+format, args...)
}

func (s *stdLogger) Debugf(format string, args ...any) {
	s.l.Printf("DEBUG "+format, args...)
}
