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

package log_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/log"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return log.PutLogger(context.Background(), zap.New(core)), logs
}

func TestMessages(t *testing.T) {
	assert := assert.To(t)
	ctx, logs := observed(zapcore.DebugLevel)
	log.D(ctx, "debug %d", 1)
	log.I(ctx, "info %s", "two")
	log.W(ctx, "warning")
	log.E(ctx, "error")
	log.F(ctx, false, "fatal")

	entries := logs.AllUntimed()
	assert.For("count").ThatSlice(entries).IsLength(5)
	assert.For("debug").That(entries[0].Message).Equals("debug 1")
	assert.For("info").That(entries[1].Message).Equals("info two")
	assert.For("warn level").That(entries[2].Level).Equals(zapcore.WarnLevel)
	assert.For("fatal level").That(entries[4].Level).Equals(zapcore.ErrorLevel)
	assert.For("fatal flag").That(entries[4].ContextMap()["fatal"]).Equals(true)
}

func TestFiltered(t *testing.T) {
	assert := assert.To(t)
	ctx, logs := observed(zapcore.WarnLevel)
	log.D(ctx, "hidden")
	log.I(ctx, "hidden")
	log.W(ctx, "shown")
	assert.For("count").That(logs.Len()).Equals(1)
	assert.For("enabled").ThatBoolean(log.From(ctx).Enabled(log.Info)).IsFalse()
}

func TestBindAndEnter(t *testing.T) {
	assert := assert.To(t)
	ctx, logs := observed(zapcore.DebugLevel)
	ctx = log.V{"cmd": 10, "thread": "main"}.Bind(ctx)
	ctx = log.Enter(ctx, "Build")
	log.I(ctx, "message")

	e := logs.AllUntimed()[0]
	assert.For("name").That(e.LoggerName).Equals("Build")
	assert.For("fields").That(e.ContextMap()).DeepEquals(map[string]interface{}{
		"cmd":    int64(10),
		"thread": "main",
	})
}

func TestNoLogger(t *testing.T) {
	ctx := context.Background()
	log.I(ctx, "goes nowhere")
	log.F(ctx, true, "does not stop")
}

func TestErr(t *testing.T) {
	ctx := log.Testing(t)
	cause := errors.New("disk full")
	err := log.Errf(ctx, cause, "Failed to store %s", "blob")
	assert.For(ctx, "message").ThatError(err).HasMessage("Failed to store blob: disk full")
	assert.For(ctx, "cause").That(pkgerrors.Cause(err)).Equals(cause)
	err = log.Err(ctx, nil, "plain")
	assert.For(ctx, "plain").ThatError(err).HasMessage("plain")
}

func TestParseSeverity(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name     string
		expected log.Severity
	}{
		{"verbose", log.Verbose},
		{"Debug", log.Debug},
		{"INFO", log.Info},
		{"warning", log.Warning},
		{"error", log.Error},
		{"fatal", log.Fatal},
	} {
		got, err := log.ParseSeverity(test.name)
		assert.For(ctx, "err %v", test.name).ThatError(err).Succeeded()
		assert.For(ctx, "severity %v", test.name).That(got).Equals(test.expected)
	}
	_, err := log.ParseSeverity("loud")
	assert.For(ctx, "unknown").ThatError(err).Failed()
}
