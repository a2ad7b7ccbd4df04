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

package main

import (
	"context"
	"math"
	"os"
	"path/filepath"

	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/memory"
	"github.com/google/gapid-sub000/gapis/replay/builder"
	"github.com/google/gapid-sub000/gapis/replay/value"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// manifest describes the inputs of a payload build. Relative file paths are
// resolved against the directory of the manifest.
//
// Entries are applied in field order: allocations and remappings claim
// volatile memory first so that addresses in the streams are stable.
type manifest struct {
	// Allocations are sizes of volatile memory blocks allocated up front.
	Allocations []uint64 `yaml:"allocations"`
	// Remappings bind remap keys to newly allocated volatile memory.
	Remappings []remapping `yaml:"remappings"`
	// Reservations are capture memory ranges used by the streams.
	Reservations []reservation `yaml:"reservations"`
	// Writes fill capture memory with the contents of resource files.
	Writes []write `yaml:"writes"`
	// Streams are instruction stream files appended in order.
	Streams []string `yaml:"streams"`

	dir string
}

type remapping struct {
	Key  uint64 `yaml:"key"`
	Size uint64 `yaml:"size"`
}

type reservation struct {
	Namespace value.Namespace `yaml:"namespace"`
	Base      uint64          `yaml:"base"`
	Size      uint64          `yaml:"size"`
	Alignment uint64          `yaml:"alignment"`
}

type write struct {
	Namespace value.Namespace `yaml:"namespace"`
	Base      uint64          `yaml:"base"`
	File      string          `yaml:"file"`
}

func loadManifest(path string) (*manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read manifest %v", path)
	}
	m := &manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.Wrapf(err, "Failed to parse manifest %v", path)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

func (m *manifest) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.dir, p)
}

// apply records the manifest into b.
func (m *manifest) apply(ctx context.Context, b *builder.Builder) error {
	for _, size := range m.Allocations {
		if size > math.MaxUint32 {
			return errors.Errorf("Allocation of 0x%x bytes is too large", size)
		}
		b.AllocateMemory(size)
	}
	for _, r := range m.Remappings {
		if _, bound := b.Data().LookupRemapping(builder.RemapKey(r.Key)); bound {
			return errors.Errorf("Remap key 0x%x listed twice", r.Key)
		}
		if r.Size > math.MaxUint32 {
			return errors.Errorf("Remap key 0x%x of 0x%x bytes is too large", r.Key, r.Size)
		}
		slot := b.AllocateMemory(r.Size)
		b.Data().AddRemapping(builder.RemapKey(r.Key), slot.Data)
	}
	for _, r := range m.Reservations {
		alignment := r.Alignment
		if alignment == 0 {
			alignment = 1
		}
		if err := b.ReserveMemory(r.Namespace, memory.Range{Base: r.Base, Size: r.Size}, alignment); err != nil {
			return err
		}
	}
	for _, w := range m.Writes {
		data, err := os.ReadFile(m.path(w.File))
		if err != nil {
			return errors.Wrap(err, "Failed to read resource")
		}
		if err := b.Write(ctx, w.Namespace, w.Base, data); err != nil {
			return err
		}
	}
	for _, s := range m.Streams {
		ctx := log.V{"stream": s}.Bind(ctx)
		data, err := os.ReadFile(m.path(s))
		if err != nil {
			return errors.Wrap(err, "Failed to read stream")
		}
		if err := b.AppendStream(ctx, data); err != nil {
			return log.Err(ctx, err, "Invalid stream")
		}
	}
	return nil
}
