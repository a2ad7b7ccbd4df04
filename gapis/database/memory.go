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

package database

import (
	"context"
	"sync"

	"github.com/google/gapid-sub000/core/data/id"
	"github.com/google/gapid-sub000/core/log"
)

// NewInMemory builds a new in memory database.
func NewInMemory(ctx context.Context) Database {
	return &memory{records: map[id.ID][]byte{}}
}

type memory struct {
	mutex   sync.RWMutex
	records map[id.ID][]byte
}

func (d *memory) Store(ctx context.Context, data []byte) (id.ID, error) {
	id := id.OfBytes(data)
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, got := d.records[id]; !got {
		d.records[id] = append([]byte{}, data...)
	}
	return id, nil
}

func (d *memory) Resolve(ctx context.Context, id id.ID) ([]byte, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	data, got := d.records[id]
	if !got {
		return nil, log.Errf(ctx, ErrNotFound, "Resolving %v", id)
	}
	return data, nil
}

func (d *memory) Contains(ctx context.Context, id id.ID) bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	_, got := d.records[id]
	return got
}
