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
	"math"

	"github.com/google/gapid-sub000/core/data/id"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/database"
	"github.com/google/gapid-sub000/gapis/memory"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/google/gapid-sub000/gapis/replay/value"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// RemapKey is an opaque identifier bound to a volatile address, used to
// resolve values that are only known at replay time.
type RemapKey uint64

// Data is the address space model of a single replay build.
//
// It records the volatile memory requested directly, the capture memory
// ranges that must be given a home in volatile memory, the resources and
// constants referenced by the instructions and the remapping table. Once
// LayoutVolatileMemory has run, Data resolves observed pointers to their
// volatile addresses.
type Data struct {
	db               database.Database
	pointerAlignment uint64
	unobserved       uint64

	allocated memory.StackAllocator[uint64]

	reserved    map[value.Namespace]*memory.RangeList
	baseOffsets map[value.Namespace][]uint64
	laidOut     bool

	resourceIdx map[id.ID]uint32
	resources   []protocol.ResourceInfo

	remappings map[RemapKey]uint64

	constants       []byte
	constantOffsets map[id.ID]uint32
}

// NewData returns an empty address space model. Reserved ranges are laid out
// with pointerAlignment and unresolvable pointers are replaced with
// unobservedPointer. Resources are stored in db.
func NewData(db database.Database, pointerAlignment, unobservedPointer uint64) *Data {
	if pointerAlignment == 0 {
		panic(errors.New("Pointer alignment must be non-zero"))
	}
	return &Data{
		db:               db,
		pointerAlignment: pointerAlignment,
		unobserved:       unobservedPointer,
		reserved:         map[value.Namespace]*memory.RangeList{},
		baseOffsets:      map[value.Namespace][]uint64{},
		resourceIdx:      map[id.ID]uint32{},
		resources:        []protocol.ResourceInfo{},
		remappings:       map[RemapKey]uint64{},
		constantOffsets:  map[id.ID]uint32{},
	}
}

// ReserveMemory declares that rng of namespace ns in the capture address
// space is used by the replay. Overlapping and touching reservations are
// merged, keeping the strictest alignment.
func (d *Data) ReserveMemory(ns value.Namespace, rng memory.Range, alignment uint64) {
	if d.laidOut {
		panic(errors.Errorf("Reserving %v after the volatile memory layout", rng))
	}
	l, ok := d.reserved[ns]
	if !ok {
		l = memory.NewRangeList()
		d.reserved[ns] = l
	}
	l.Reserve(rng, alignment)
}

// Reserved returns the reservations of namespace ns, or nil if there are
// none.
func (d *Data) Reserved(ns value.Namespace) *memory.RangeList { return d.reserved[ns] }

// Namespaces returns the namespaces with reservations in ascending order.
func (d *Data) Namespaces() []value.Namespace {
	out := make([]value.Namespace, 0, len(d.reserved))
	for ns := range d.reserved {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}

// BaseOffsets returns the volatile address given to each reservation of ns,
// index aligned with Reserved(ns).
func (d *Data) BaseOffsets(ns value.Namespace) []uint64 { return d.baseOffsets[ns] }

// AllocateMemory returns a pointer to size bytes of volatile memory aligned
// to alignment.
func (d *Data) AllocateMemory(size, alignment uint64) value.Value {
	return value.VolatilePtr(d.allocated.Alloc(size, alignment))
}

// VolatileMemorySize returns the number of bytes of volatile memory used,
// including the reserved ranges once laid out.
func (d *Data) VolatileMemorySize() uint64 { return d.allocated.Size() }

// VolatileMemoryAlignment returns the strictest alignment of any volatile
// allocation.
func (d *Data) VolatileMemoryAlignment() uint64 { return d.allocated.Alignment() }

// AddResource stores data in the database and returns the index of its
// resource. Adding the same content again returns the same index.
func (d *Data) AddResource(ctx context.Context, data []byte) (uint32, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return 0, errors.Errorf("Resource of 0x%x bytes is too large", len(data))
	}
	rid, err := d.db.Store(ctx, data)
	if err != nil {
		return 0, log.Err(ctx, err, "Failed to store resource")
	}
	return d.addResourceID(rid, uint32(len(data))), nil
}

func (d *Data) addResourceID(rid id.ID, size uint32) uint32 {
	if idx, ok := d.resourceIdx[rid]; ok {
		return idx
	}
	idx := uint32(len(d.resources))
	d.resourceIdx[rid] = idx
	d.resources = append(d.resources, protocol.ResourceInfo{ID: rid, Size: size})
	return idx
}

// Resources returns the resources in index order.
func (d *Data) Resources() []protocol.ResourceInfo { return d.resources }

// AddConstant appends data to the constant memory aligned to alignment and
// returns its offset. Content already in the constant memory at a suitably
// aligned offset is not added again.
func (d *Data) AddConstant(data []byte, alignment uint64) uint32 {
	hash := id.OfBytes(data)
	if offset, ok := d.constantOffsets[hash]; ok && memory.AlignUp(uint64(offset), alignment) == uint64(offset) {
		return offset
	}
	offset := memory.AlignUp(uint64(len(d.constants)), alignment)
	if offset+uint64(len(data)) > math.MaxUint32 {
		panic(errors.Errorf("Constant memory exceeds 32 bits"))
	}
	d.constants = append(d.constants, make([]byte, offset-uint64(len(d.constants)))...)
	d.constants = append(d.constants, data...)
	d.constantOffsets[hash] = uint32(offset)
	return uint32(offset)
}

// Constants returns the constant memory.
func (d *Data) Constants() []byte { return d.constants }

// AddRemapping binds key to the volatile address addr.
func (d *Data) AddRemapping(key RemapKey, addr uint64) {
	if old, ok := d.remappings[key]; ok && old != addr {
		panic(errors.Errorf("Remap key 0x%x already bound to 0x%x", key, old))
	}
	d.remappings[key] = addr
}

// LookupRemapping returns the volatile address bound to key.
func (d *Data) LookupRemapping(key RemapKey) (uint64, bool) {
	addr, ok := d.remappings[key]
	return addr, ok
}

// LayoutVolatileMemory gives every reserved range a base address in volatile
// memory, after the directly allocated memory. Namespaces are laid out in
// ascending order and the ranges of a namespace in ascending address order.
// Calling it again has no effect.
func (d *Data) LayoutVolatileMemory(ctx context.Context) {
	// Volatile memory layout:
	//
	//  low ┌──────────────────┐
	//      │    allocated     │
	//      ├──────────────────┤
	//      │ namespace 0      │
	//      │   range 0..N     │
	//      ├──────────────────┤
	//      ├──────────────────┤
	//      │ namespace M      │
	//      │   range 0..N     │
	// high └──────────────────┘
	if d.laidOut {
		return
	}
	d.laidOut = true
	for _, ns := range d.Namespaces() {
		l := d.reserved[ns]
		bases := make([]uint64, 0, l.Count())
		for _, r := range l.All() {
			bases = append(bases, d.allocated.Alloc(r.Size, d.pointerAlignment))
		}
		d.baseOffsets[ns] = bases
	}
}

// Remap implements value.PointerResolver. Observed pointers are translated
// to the volatile address of the reservation that holds them. Pointers that
// no reservation holds are replaced with the unobserved pointer.
func (d *Data) Remap(ctx context.Context, v value.Value) value.Value {
	ns, ok := v.Type.Namespace()
	if !ok {
		return v
	}
	if !d.laidOut {
		panic(errors.Errorf("Remapping %v before the volatile memory layout", v))
	}
	if l := d.reserved[ns]; l != nil {
		if i, found := l.IndexOf(v.Data); found {
			return value.VolatilePtr(d.baseOffsets[ns][i] + v.Data - l.At(i).Base)
		}
	}
	// The pointer was never observed. This can be legal, for example a
	// vertex attribute pointer that is never dereferenced.
	log.W(log.V{"pointer": v.Data, "namespace": ns}.Bind(ctx), "Unobserved pointer")
	return value.AbsolutePtr(d.unobserved)
}
