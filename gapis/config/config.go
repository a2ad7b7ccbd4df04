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

// Package config holds the settings that control how replay payloads are
// built.
package config

import (
	"os"

	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStackSize is the replay VM stack size in bytes, unless overridden.
	DefaultStackSize = 512
	// DefaultUnobservedPointer is the address substituted for pointers that
	// were never observed in the capture.
	DefaultUnobservedPointer = 0xBADF00D
)

// Config is the builder configuration.
type Config struct {
	// Architecture selects the memory layout of the replay target.
	Architecture device.Architecture `yaml:"architecture"`
	// StackSize is copied into the payload header.
	StackSize uint32 `yaml:"stack_size"`
	// UnobservedPointer is the sentinel written for unresolved pointers.
	UnobservedPointer uint64 `yaml:"unobserved_pointer"`
	// DebugReplayBuilder enables the extra consistency checks and logging
	// of the builder.
	DebugReplayBuilder bool `yaml:"debug_replay_builder"`
	// LogLevel is the lowest severity written by the command line tools.
	LogLevel log.Severity `yaml:"log_level"`
	// JSONLogs selects structured log output.
	JSONLogs bool `yaml:"json_logs"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Architecture:      device.ARMv8a,
		StackSize:         DefaultStackSize,
		UnobservedPointer: DefaultUnobservedPointer,
		LogLevel:          log.Info,
	}
}

// MemoryLayout returns the layout of the configured architecture.
func (c Config) MemoryLayout() *device.MemoryLayout {
	return c.Architecture.MemoryLayout()
}

// Validate returns an error if the configuration cannot be used to build a
// payload.
func (c Config) Validate() error {
	if c.MemoryLayout() == nil {
		return errors.Errorf("No memory layout for architecture %v", c.Architecture)
	}
	if c.StackSize == 0 {
		return errors.New("Stack size must not be zero")
	}
	return nil
}

// Parse decodes YAML data over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "Failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the YAML configuration at path. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "Failed to read config %v", path)
	}
	return Parse(data)
}
