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

package database_test

import (
	"context"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/data/id"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/database"
)

func testDatabase(ctx context.Context, d database.Database) {
	data := []byte("texture data")
	a, err := d.Store(ctx, data)
	assert.For(ctx, "store err").ThatError(err).Succeeded()
	assert.For(ctx, "id").That(a).Equals(id.OfBytes(data))

	b, err := d.Store(ctx, []byte("texture data"))
	assert.For(ctx, "store again err").ThatError(err).Succeeded()
	assert.For(ctx, "dedup").That(b).Equals(a)

	data[0] = 'X' // the store must hold a copy
	got, err := d.Resolve(ctx, a)
	assert.For(ctx, "resolve err").ThatError(err).Succeeded()
	assert.For(ctx, "resolve").That(string(got)).Equals("texture data")
	assert.For(ctx, "contains").ThatBoolean(d.Contains(ctx, a)).IsTrue()

	missing := id.OfString("missing")
	assert.For(ctx, "not contains").ThatBoolean(d.Contains(ctx, missing)).IsFalse()
	_, err = d.Resolve(ctx, missing)
	assert.For(ctx, "not found").ThatError(err).HasCause(database.ErrNotFound)
}

func TestInMemory(t *testing.T) {
	ctx := log.Testing(t)
	testDatabase(ctx, database.NewInMemory(ctx))
}

func TestPebble(t *testing.T) {
	ctx := log.Testing(t)
	dir := t.TempDir()
	d, err := database.NewPebble(ctx, dir)
	assert.For(ctx, "open").Critical().ThatError(err).Succeeded()
	testDatabase(ctx, d)
	stored, _ := d.Store(ctx, []byte("persisted"))
	assert.For(ctx, "close").ThatError(d.Close()).Succeeded()

	d, err = database.NewPebble(ctx, dir)
	assert.For(ctx, "reopen").Critical().ThatError(err).Succeeded()
	defer d.Close()
	got, err := d.Resolve(ctx, stored)
	assert.For(ctx, "resolve err").ThatError(err).Succeeded()
	assert.For(ctx, "reopened").That(string(got)).Equals("persisted")
}

func TestContextHelpers(t *testing.T) {
	ctx := log.Testing(t)
	ctx = database.Put(ctx, database.NewInMemory(ctx))
	stored, err := database.Store(ctx, []byte{1, 2, 3})
	assert.For(ctx, "store").ThatError(err).Succeeded()
	got, err := database.Resolve(ctx, stored)
	assert.For(ctx, "resolve").ThatError(err).Succeeded()
	assert.For(ctx, "data").ThatSlice(got).Equals([]byte{1, 2, 3})
}
