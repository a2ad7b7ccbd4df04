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

	"github.com/cockroachdb/pebble"
	"github.com/google/gapid-sub000/core/data/id"
	"github.com/google/gapid-sub000/core/log"
	"github.com/pkg/errors"
)

// Pebble is a Database persisted to disk with pebble. Keys are the raw
// content ids.
type Pebble struct {
	db *pebble.DB
}

// NewPebble opens, or creates, the pebble database in the directory path.
func NewPebble(ctx context.Context, path string) (*Pebble, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open database %v", path)
	}
	log.D(ctx, "Opened resource database at %v", path)
	return &Pebble{db: db}, nil
}

// Close flushes and closes the database.
func (d *Pebble) Close() error { return d.db.Close() }

// Store implements Database.
func (d *Pebble) Store(ctx context.Context, data []byte) (id.ID, error) {
	id := id.OfBytes(data)
	if d.Contains(ctx, id) {
		return id, nil
	}
	if err := d.db.Set(id[:], data, pebble.Sync); err != nil {
		return id, errors.Wrapf(err, "Storing %v", id)
	}
	return id, nil
}

// Resolve implements Database.
func (d *Pebble) Resolve(ctx context.Context, id id.ID) ([]byte, error) {
	value, closer, err := d.db.Get(id[:])
	if err == pebble.ErrNotFound {
		return nil, log.Errf(ctx, ErrNotFound, "Resolving %v", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Resolving %v", id)
	}
	defer closer.Close()
	return append([]byte{}, value...), nil
}

// Contains implements Database.
func (d *Pebble) Contains(ctx context.Context, id id.ID) bool {
	_, closer, err := d.db.Get(id[:])
	if err != nil {
		return false
	}
	closer.Close()
	return true
}
