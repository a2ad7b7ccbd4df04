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

package builder

import (
	"context"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/database"
	"github.com/google/gapid-sub000/gapis/memory"
	"github.com/google/gapid-sub000/gapis/replay/value"
)

const unobserved = 0xdead

func TestDataLayout(t *testing.T) {
	ctx := log.Testing(t)
	d := NewData(database.NewInMemory(ctx), 8, unobserved)

	assert.For(ctx, "alloc").That(d.AllocateMemory(3, 1)).Equals(value.VolatilePtr(0))
	d.ReserveMemory(2, memory.Range{Base: 0x100, Size: 0x10}, 4)
	d.ReserveMemory(0, memory.Range{Base: 0x5000, Size: 0x4}, 1)
	d.ReserveMemory(0, memory.Range{Base: 0x1000, Size: 0x8}, 1)
	d.ReserveMemory(0, memory.Range{Base: 0x1008, Size: 0x8}, 1) // touches the previous

	assert.For(ctx, "namespaces").ThatSlice(d.Namespaces()).Equals([]value.Namespace{0, 2})
	assert.For(ctx, "ns 0").That(d.Reserved(0).Count()).Equals(2)

	d.LayoutVolatileMemory(ctx)
	d.LayoutVolatileMemory(ctx)

	assert.For(ctx, "ns 0 bases").ThatSlice(d.BaseOffsets(0)).Equals([]uint64{0x8, 0x18})
	assert.For(ctx, "ns 2 bases").ThatSlice(d.BaseOffsets(2)).Equals([]uint64{0x20})
	assert.For(ctx, "size").That(d.VolatileMemorySize()).Equals(uint64(0x30))

	for _, test := range []struct {
		in       value.Value
		expected value.Value
	}{
		{value.ObservedPtr(0, 0x1000), value.VolatilePtr(0x8)},
		{value.ObservedPtr(0, 0x100f), value.VolatilePtr(0x17)},
		{value.ObservedPtr(0, 0x5002), value.VolatilePtr(0x1a)},
		{value.ObservedPtr(2, 0x104), value.VolatilePtr(0x24)},
		{value.ObservedPtr(0, 0x1010), value.AbsolutePtr(unobserved)},
		{value.ObservedPtr(1, 0x1000), value.AbsolutePtr(unobserved)},
		{value.ObservedPtr(2, 0x1000), value.AbsolutePtr(unobserved)},
		{value.U32(0x1000), value.U32(0x1000)},
		{value.VolatilePtr(0x1000), value.VolatilePtr(0x1000)},
	} {
		assert.For(ctx, "remap %v", test.in).That(d.Remap(ctx, test.in)).Equals(test.expected)
	}

	assert.For(ctx, "reserve after layout").That(panics(func() {
		d.ReserveMemory(0, memory.Range{Base: 0, Size: 1}, 1)
	})).Equals(true)
}

func TestDataRemapBeforeLayout(t *testing.T) {
	ctx := log.Testing(t)
	d := NewData(nil, 8, unobserved)
	assert.For(ctx, "observed").That(panics(func() { d.Remap(ctx, value.ObservedPtr(0, 4)) })).Equals(true)
	assert.For(ctx, "constant").That(d.Remap(ctx, value.ConstantPtr(4))).Equals(value.ConstantPtr(4))
}

func TestDataRemappings(t *testing.T) {
	ctx := log.Testing(t)
	d := NewData(nil, 8, unobserved)
	_, ok := d.LookupRemapping(1)
	assert.For(ctx, "unbound").That(ok).Equals(false)

	d.AddRemapping(1, 0x10)
	d.AddRemapping(1, 0x10)
	addr, ok := d.LookupRemapping(1)
	assert.For(ctx, "bound").That(ok).Equals(true)
	assert.For(ctx, "addr").That(addr).Equals(uint64(0x10))
	assert.For(ctx, "rebind").That(panics(func() { d.AddRemapping(1, 0x20) })).Equals(true)
}

func TestDataResources(t *testing.T) {
	ctx := log.Testing(t)
	d := NewData(database.NewInMemory(ctx), 8, unobserved)
	a, err := d.AddResource(ctx, []byte("abc"))
	assert.For(ctx, "a").ThatError(err).Succeeded()
	b, err := d.AddResource(ctx, []byte("xyz"))
	assert.For(ctx, "b").ThatError(err).Succeeded()
	again, err := d.AddResource(ctx, []byte("abc"))
	assert.For(ctx, "again").ThatError(err).Succeeded()

	assert.For(ctx, "indices").ThatSlice([]uint32{a, b, again}).Equals([]uint32{0, 1, 0})
	assert.For(ctx, "count").ThatSlice(d.Resources()).IsLength(2)
}

func TestDataConstants(t *testing.T) {
	ctx := log.Testing(t)
	d := NewData(nil, 8, unobserved)
	assert.For(ctx, "byte").That(d.AddConstant([]byte{1}, 1)).Equals(uint32(0))
	assert.For(ctx, "unaligned").That(d.AddConstant([]byte{2, 3, 4, 5}, 1)).Equals(uint32(1))
	assert.For(ctx, "reused").That(d.AddConstant([]byte{2, 3, 4, 5}, 1)).Equals(uint32(1))
	assert.For(ctx, "realigned").That(d.AddConstant([]byte{2, 3, 4, 5}, 8)).Equals(uint32(8))
	assert.For(ctx, "aligned reuse").That(d.AddConstant([]byte{2, 3, 4, 5}, 4)).Equals(uint32(8))
	assert.For(ctx, "looser reuse").That(d.AddConstant([]byte{2, 3, 4, 5}, 2)).Equals(uint32(8))
	assert.For(ctx, "memory").ThatSlice(d.Constants()).Equals([]byte{
		1, 2, 3, 4, 5, 0, 0, 0,
		2, 3, 4, 5,
	})
}

func TestRemapRegistry(t *testing.T) {
	ctx := log.Testing(t)
	var nilRegistry *RemapRegistry
	_, ok := nilRegistry.Key(ctx, 0, "Handle", value.U32(1))
	assert.For(ctx, "nil registry").That(ok).Equals(false)

	r := NewRemapRegistry()
	f := func(ctx context.Context, v value.Value) RemapKey { return RemapKey(v.Data + 1) }
	assert.For(ctx, "register").ThatError(r.Register(1, "Handle", f)).Succeeded()
	assert.For(ctx, "duplicate").ThatError(r.Register(1, "Handle", f)).Failed()
	assert.For(ctx, "other api").ThatError(r.Register(2, "Handle", f)).Succeeded()
	assert.For(ctx, "count").That(r.Count()).Equals(2)

	key, ok := r.Key(ctx, 1, "Handle", value.U32(41))
	assert.For(ctx, "found").That(ok).Equals(true)
	assert.For(ctx, "key").That(key).Equals(RemapKey(42))
	_, ok = r.Key(ctx, 1, "Buffer", value.U32(41))
	assert.For(ctx, "missing").That(ok).Equals(false)
}
