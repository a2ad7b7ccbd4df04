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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/config"
)

func TestDefault(t *testing.T) {
	ctx := log.Testing(t)
	cfg := config.Default()
	assert.For(ctx, "valid").ThatError(cfg.Validate()).Succeeded()
	assert.For(ctx, "stack").That(cfg.StackSize).Equals(uint32(512))
	assert.For(ctx, "sentinel").That(cfg.UnobservedPointer).Equals(uint64(0xBADF00D))
	assert.For(ctx, "pointer").That(cfg.MemoryLayout().Pointer.Size).Equals(uint32(8))
}

func TestParse(t *testing.T) {
	ctx := log.Testing(t)
	cfg, err := config.Parse([]byte(`
architecture: arm
stack_size: 4096
debug_replay_builder: true
log_level: debug
`))
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "arch").That(cfg.Architecture).Equals(device.ARMv7a)
	assert.For(ctx, "stack").That(cfg.StackSize).Equals(uint32(4096))
	assert.For(ctx, "debug").ThatBoolean(cfg.DebugReplayBuilder).IsTrue()
	assert.For(ctx, "level").That(cfg.LogLevel).Equals(log.Debug)
	assert.For(ctx, "sentinel kept").That(cfg.UnobservedPointer).Equals(uint64(config.DefaultUnobservedPointer))
}

func TestParseErrors(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name string
		data string
	}{
		{"bad architecture", "architecture: z80"},
		{"zero stack", "stack_size: 0"},
		{"bad level", "log_level: loud"},
		{"not yaml", "{"},
	} {
		_, err := config.Parse([]byte(test.data))
		assert.For(ctx, "%s", test.name).ThatError(err).Failed()
	}
}

func TestLoad(t *testing.T) {
	ctx := log.Testing(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("unobserved_pointer: 0xDEAD\n"), 0644)
	assert.For(ctx, "write").ThatError(err).Succeeded()
	cfg, err := config.Load(path)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "sentinel").That(cfg.UnobservedPointer).Equals(uint64(0xDEAD))

	cfg, err = config.Load("")
	assert.For(ctx, "empty err").ThatError(err).Succeeded()
	assert.For(ctx, "defaults").That(cfg).Equals(config.Default())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.For(ctx, "missing").ThatError(err).Failed()
}
