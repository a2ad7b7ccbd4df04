// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides context bound structured logging.
//
// The logger travels inside a context.Context. Functions such as D, I, W and E
// log with whatever logger the context carries, and do nothing when it carries
// none.
package log

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Logger is a zap logger bound to a context, together with the action taken
// when a fatal message asks for the process to stop.
type Logger struct {
	z    *zap.Logger
	stop func()
}

type loggerKeyTy string

const loggerKey loggerKeyTy = "log.loggerKey"

var nop = &Logger{z: zap.NewNop(), stop: func() {}}

// From returns the logger held by ctx. A context without a logger returns a
// logger that discards everything.
func From(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok {
		return l
	}
	return nop
}

// PutLogger returns a new context with z installed as the logger.
// Fatal messages that stop the process sync z and exit.
func PutLogger(ctx context.Context, z *zap.Logger) context.Context {
	return put(ctx, &Logger{z: z, stop: func() {
		z.Sync()
		os.Exit(1)
	}})
}

func put(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func (l *Logger) with(z *zap.Logger) *Logger { return &Logger{z: z, stop: l.stop} }

// Zap returns the underlying zap logger.
func (l *Logger) Zap() *zap.Logger { return l.z }

// Enabled returns true if messages of severity s would be written.
func (l *Logger) Enabled(s Severity) bool { return l.z.Core().Enabled(s.level()) }

// D logs a debug message to the logging target.
func D(ctx context.Context, fmt string, args ...interface{}) { From(ctx).D(fmt, args...) }

// I logs a info message to the logging target.
func I(ctx context.Context, fmt string, args ...interface{}) { From(ctx).I(fmt, args...) }

// W logs a warning message to the logging target.
func W(ctx context.Context, fmt string, args ...interface{}) { From(ctx).W(fmt, args...) }

// E logs a error message to the logging target.
func E(ctx context.Context, fmt string, args ...interface{}) { From(ctx).E(fmt, args...) }

// F logs a fatal message to the logging target.
// If stopProcess is true then the message indicates the process should stop.
func F(ctx context.Context, stopProcess bool, fmt string, args ...interface{}) {
	From(ctx).F(fmt, stopProcess, args...)
}

// D logs a debug message to the logging target.
func (l *Logger) D(fmt string, args ...interface{}) { l.Logf(Debug, fmt, args...) }

// I logs a info message to the logging target.
func (l *Logger) I(fmt string, args ...interface{}) { l.Logf(Info, fmt, args...) }

// W logs a warning message to the logging target.
func (l *Logger) W(fmt string, args ...interface{}) { l.Logf(Warning, fmt, args...) }

// E logs a error message to the logging target.
func (l *Logger) E(fmt string, args ...interface{}) { l.Logf(Error, fmt, args...) }

// F logs a fatal message to the logging target.
// If stopProcess is true then the message indicates the process should stop.
func (l *Logger) F(fmt string, stopProcess bool, args ...interface{}) {
	l.Logf(Fatal, fmt, args...)
	if stopProcess {
		l.stop()
	}
}

// Logf logs a printf-style message at severity s.
func (l *Logger) Logf(s Severity, format string, args ...interface{}) {
	if ce := l.z.Check(s.level(), ""); ce != nil {
		ce.Message = fmt.Sprintf(format, args...)
		if s == Fatal {
			ce.Write(zap.Bool("fatal", true))
			return
		}
		ce.Write()
	}
}
