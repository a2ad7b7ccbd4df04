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

// Package builder contains the Builder type to build replay payloads.
package builder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/fault"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/config"
	"github.com/google/gapid-sub000/gapis/database"
	"github.com/google/gapid-sub000/gapis/memory"
	"github.com/google/gapid-sub000/gapis/replay/asm"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/google/gapid-sub000/gapis/replay/value"
	"github.com/pkg/errors"
)

const (
	// ErrAlreadyBuilt is returned by Build when called a second time.
	ErrAlreadyBuilt = fault.Const("Payload already built")
	// ErrEncoding is the cause of the error returned by Build when an
	// encoding invariant is violated.
	ErrEncoding = fault.Const("Replay encoding failed")
	// ErrInvalidResource is returned by Build in debug mode when a resource
	// does not match the database.
	ErrInvalidResource = fault.Const("Invalid resource")
	// ErrInvalidRange is returned when reserving a memory range that cannot be
	// laid out.
	ErrInvalidRange = fault.Const("Invalid memory range")
)

// FunctionInfo holds the information about a function that can be called by
// the replay virtual-machine.
type FunctionInfo struct {
	ApiIndex   uint8         // The index of the API this function belongs to.
	ID         uint16        // The unique identifier for the function.
	ReturnType protocol.Type // The returns type of the function.
	Parameters int           // The number of parameters for the function.
}

type stackItem struct {
	ty  value.Type // Type of the item.
	idx int        // Index of the pending instruction that generated this, or -1.
}

// Builder is used to build the Payload to send to the replay virtual machine.
// The builder has a number of methods for mutating the virtual machine stack,
// invoking functions and posting back data.
//
// Recorded instructions are appended to an instruction stream. Instructions
// recorded between BeginCommand and CommitCommand are held back until the
// command is committed so unused stack values can be dropped. Build lays out
// the volatile memory and translates the stream into opcodes.
type Builder struct {
	cfg          config.Config
	memoryLayout *device.MemoryLayout
	db           database.Database
	remaps       *RemapRegistry
	data         *Data
	constants    *constantEncoder

	stream       bytes.Buffer
	streamWriter binary.Writer
	pending      []asm.Instruction
	stack        []stackItem

	threadIDToIdx   map[uint64]uint32
	currentThreadID uint64
	inCmd           bool // true if between BeginCommand and CommitCommand/RevertCommand
	built           bool
}

// New returns a newly constructed Builder configured by cfg. Resources are
// stored in db and remapped values are keyed with remaps, which may be nil.
func New(cfg config.Config, db database.Database, remaps *RemapRegistry) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("Builder requires a database")
	}
	memoryLayout := cfg.MemoryLayout()
	b := &Builder{
		cfg:           cfg,
		memoryLayout:  memoryLayout,
		db:            db,
		remaps:        remaps,
		data:          NewData(db, uint64(memoryLayout.Pointer.Alignment), cfg.UnobservedPointer),
		threadIDToIdx: map[uint64]uint32{},
	}
	b.constants = newConstantEncoder(b.data, memoryLayout)
	b.streamWriter = asm.Writer(&b.stream)
	return b, nil
}

// MemoryLayout returns the memory layout for the target replay device.
func (b *Builder) MemoryLayout() *device.MemoryLayout { return b.memoryLayout }

// Data returns the address space model of the build.
func (b *Builder) Data() *Data { return b.data }

// Stream returns the committed instruction stream.
func (b *Builder) Stream() []byte { return b.stream.Bytes() }

func (b *Builder) pointerAlignment() uint64 { return uint64(b.memoryLayout.Pointer.Alignment) }

func (b *Builder) pushStack(t value.Type) {
	b.stack = append(b.stack, stackItem{t, len(b.pending)})
}

func (b *Builder) popStack() stackItem {
	if len(b.stack) == 0 {
		panic("Stack underflow")
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return top
}

func (b *Builder) popStackMulti(count int) {
	if len(b.stack) < count {
		panic("Stack underflow")
	}
	b.stack = b.stack[:len(b.stack)-count]
}

func (b *Builder) record(i asm.Instruction) {
	b.pending = append(b.pending, i)
	if !b.inCmd {
		b.flush()
	}
}

// flush appends the pending instructions to the stream.
func (b *Builder) flush() {
	for _, i := range b.pending {
		if i != nil {
			if err := asm.Write(b.streamWriter, i); err != nil {
				panic(err)
			}
		}
	}
	b.pending = b.pending[:0]
	for i := range b.stack {
		b.stack[i].idx = -1
	}
}

// AllocateMemory allocates and returns a pointer to a block of memory in the
// volatile address-space big enough to hold size bytes. The memory will be
// allocated for the entire replay duration and cannot be freed.
func (b *Builder) AllocateMemory(size uint64) value.Value {
	return b.data.AllocateMemory(size, b.pointerAlignment())
}

// ReserveMemory adds rng of namespace ns as a capture memory range that needs
// allocating for replay.
func (b *Builder) ReserveMemory(ns value.Namespace, rng memory.Range, alignment uint64) error {
	if err := checkRange(rng, alignment); err != nil {
		return err
	}
	b.data.ReserveMemory(ns, rng, alignment)
	return nil
}

func checkRange(rng memory.Range, alignment uint64) error {
	switch {
	case rng.Wraps():
		return errors.Wrapf(ErrInvalidRange, "0x%x bytes at 0x%x pass the end of the address space", rng.Size, rng.Base)
	case alignment == 0:
		return errors.Wrapf(ErrInvalidRange, "Zero alignment for 0x%x bytes at 0x%x", rng.Size, rng.Base)
	}
	return nil
}

// BeginCommand should be called before building any replay instructions.
func (b *Builder) BeginCommand(cmdID, threadID uint64) {
	if b.inCmd {
		panic("BeginCommand called while already building a command")
	}
	b.inCmd = true

	if cmdID <= 0x3ffffff { // Labels have 26 bit values.
		b.record(asm.Label{Value: uint32(cmdID)})
	}

	if b.currentThreadID != threadID {
		b.currentThreadID = threadID
		index, ok := b.threadIDToIdx[threadID]
		if !ok {
			index = uint32(len(b.threadIDToIdx)) + 1
			b.threadIDToIdx[threadID] = index
		}
		b.record(asm.SwitchThread{Index: index})
	}
}

// CommitCommand should be called after emitting the commands to replay a single
// command.
// CommitCommand drops the unused values pushed by the command, pops any that
// remain and appends the command's instructions to the stream.
func (b *Builder) CommitCommand() {
	if !b.inCmd {
		panic("CommitCommand called without a call to BeginCommand")
	}
	b.inCmd = false
	pop := uint32(len(b.stack))
	for si := len(b.stack) - 1; si >= 0; si-- {
		s := b.stack[si]
		if s.idx < 0 {
			continue
		}
		switch i := b.pending[s.idx].(type) {
		case asm.Call: // Change calls that push an unused return value to discard the value.
			if i.PushReturn {
				i.PushReturn = false
				b.pending[s.idx] = i
				pop--
			}
		case asm.Clone, asm.Push, asm.Load: // Remove unused clones, pushes, loads
			b.pending[s.idx] = nil
			pop--
		}
	}
	if pop > 0 {
		b.pending = append(b.pending, asm.Pop{Count: pop})
	}
	b.stack = b.stack[:0]
	b.flush()
}

// RevertCommand discards all the instructions since the last call to
// BeginCommand. Memory allocations, reservations and resources are kept.
func (b *Builder) RevertCommand() {
	if !b.inCmd {
		panic("RevertCommand called without a call to BeginCommand")
	}
	b.inCmd = false
	b.pending = b.pending[:0]
	b.stack = b.stack[:0]
}

// Buffer returns a pointer to a block of memory in the constant address-space
// holding the values. Identical buffers share the same memory.
func (b *Builder) Buffer(values ...value.Value) value.Value {
	return b.constants.writeValues(values...)
}

// String returns a pointer to a block of memory in the constant address-space
// holding the string s. The string will be stored with a null-terminating byte.
func (b *Builder) String(s string) value.Value {
	return b.constants.writeString(s)
}

// Call will invoke the function f, popping all parameter values previously
// pushed to the stack with Push, starting with the first parameter. If f has
// a non-void return type, after invoking the function the return value of the
// function will be pushed on to the stack.
func (b *Builder) Call(f FunctionInfo) {
	b.popStackMulti(f.Parameters)
	push := f.ReturnType != protocol.Type_Void
	if push {
		b.pushStack(value.Type(f.ReturnType))
	}
	b.record(asm.Call{
		PushReturn: push,
		ApiIndex:   f.ApiIndex,
		FunctionID: f.ID,
	})
}

// Copy pops the target address and then the source address from the top of the
// stack, and then copies Count bytes from source to target.
func (b *Builder) Copy(size uint64) {
	b.popStackMulti(2)
	b.record(asm.Copy{Count: size})
}

// Clone makes a copy of the n-th element from the top of the stack and pushes
// the copy to the top of the stack.
func (b *Builder) Clone(index int) {
	sidx := len(b.stack) - 1 - index
	if index < 0 || sidx < 0 {
		panic(fmt.Errorf("Clone index %d out of range for stack of %d", index, len(b.stack)))
	}
	// Change ownership of the top stack value to the clone instruction.
	b.stack[sidx].idx = len(b.pending)
	b.pushStack(b.stack[sidx].ty)
	b.record(asm.Clone{Index: uint32(index)})
}

// Load loads the value of type ty from addr and then pushes the loaded value to
// the top of the stack.
func (b *Builder) Load(ty protocol.Type, addr value.Value) {
	if !addr.IsPointer() {
		panic(fmt.Errorf("Load address %v is not a pointer", addr))
	}
	b.pushStack(value.Type(ty))
	b.record(asm.Load{DataType: ty, Source: addr})
}

// Store pops the value from the top of the stack and writes the value to addr.
func (b *Builder) Store(addr value.Value) {
	if !addr.IsPointer() {
		panic(fmt.Errorf("Store address %v is not a pointer", addr))
	}
	b.popStack()
	b.record(asm.Store{Destination: addr})
}

// Strcpy pops the source address then the target address from the top of the
// stack, and then copies at most maxCount-1 bytes from source to target. If
// maxCount is greater than the source string length, then the target will be
// padded with 0s. The destination buffer will always be 0-terminated.
func (b *Builder) Strcpy(maxCount uint64) {
	b.popStackMulti(2)
	b.record(asm.Strcpy{MaxCount: maxCount})
}

// Post posts size bytes from addr back to the server.
func (b *Builder) Post(addr value.Value, size uint64) {
	if !addr.IsPointer() {
		panic(fmt.Errorf("Post address %v is not a pointer", addr))
	}
	b.record(asm.Post{Source: addr, Size: size})
}

// Push pushes val to the top of the stack.
func (b *Builder) Push(val value.Value) {
	b.pushStack(val.Type)
	b.record(asm.Push{Value: val})
}

// Pop removes the top count values from the top of the stack.
func (b *Builder) Pop(count uint32) {
	b.popStackMulti(int(count))
	b.record(asm.Pop{Count: count})
}

// Add pops and sums the top count values, pushing the result.
func (b *Builder) Add(count uint32) {
	if count == 0 || len(b.stack) < int(count) {
		panic(fmt.Errorf("Cannot add %d values from a stack of %d", count, len(b.stack)))
	}
	ty := b.stack[len(b.stack)-1].ty
	b.popStackMulti(int(count))
	b.pushStack(ty)
	b.record(asm.Add{Count: count})
}

// Write fills the capture memory of namespace ns starting at base with data.
// The data is added as a resource and the range is reserved.
func (b *Builder) Write(ctx context.Context, ns value.Namespace, base uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	rng := memory.Range{Base: base, Size: uint64(len(data))}
	if err := checkRange(rng, b.pointerAlignment()); err != nil {
		return err
	}
	idx, err := b.data.AddResource(ctx, data)
	if err != nil {
		return err
	}
	b.record(asm.Resource{Index: idx, Destination: value.ObservedPtr(ns, base)})
	return b.ReserveMemory(ns, rng, b.pointerAlignment())
}

// LoadRemap pushes the replay time value of the captured value v, of the
// named type. The first load of a remap key pushes v and keeps a copy in
// volatile memory bound to the key. Later loads of the key read that memory.
// Values of types without a remap function are pushed unchanged.
func (b *Builder) LoadRemap(ctx context.Context, api uint8, typeName string, ty protocol.Type, v value.Value) {
	key, ok := b.remaps.Key(ctx, api, typeName, v)
	if !ok {
		b.Push(v)
		return
	}
	if addr, bound := b.data.LookupRemapping(key); bound {
		b.Load(ty, value.VolatilePtr(addr))
		return
	}
	slot := b.remapSlot(key, ty)
	b.Push(v)
	b.Clone(0)
	b.Store(slot)
}

// StoreRemap pops the value on the top of the stack and stores it as the
// replay time value of the captured value v, of the named type. Values of
// types without a remap function are discarded.
func (b *Builder) StoreRemap(ctx context.Context, api uint8, typeName string, ty protocol.Type, v value.Value) {
	key, ok := b.remaps.Key(ctx, api, typeName, v)
	if !ok {
		b.Pop(1)
		return
	}
	addr, bound := b.data.LookupRemapping(key)
	if !bound {
		addr = b.remapSlot(key, ty).Data
	}
	b.Store(value.VolatilePtr(addr))
}

func (b *Builder) remapSlot(key RemapKey, ty protocol.Type) value.Value {
	slot := b.AllocateMemory(uint64(ty.Size(int32(b.memoryLayout.Pointer.Size))))
	b.data.AddRemapping(key, slot.Data)
	return slot
}

// AppendStream appends an instruction stream produced elsewhere. A truncated
// trailing record is dropped.
func (b *Builder) AppendStream(ctx context.Context, data []byte) error {
	if b.inCmd {
		return errors.New("AppendStream called while building a command")
	}
	s := bytes.NewReader(data)
	r := asm.Reader(s)
	complete := 0
	for {
		_, err := asm.Decode(r)
		switch err {
		case nil:
			complete = len(data) - s.Len()
			continue
		case io.EOF:
		case io.ErrUnexpectedEOF:
			log.W(ctx, "Appended stream truncated at byte %d", complete)
		default:
			return errors.Wrapf(err, "Appended stream at byte %d", complete)
		}
		break
	}
	b.stream.Write(data[:complete])
	return nil
}

// GenerateOpcodes lays out the volatile memory if it has not been, then
// translates the instruction stream into opcodes.
func (b *Builder) GenerateOpcodes(ctx context.Context) ([]byte, error) {
	b.data.LayoutVolatileMemory(ctx)
	instructions, err := asm.ReadAll(ctx, bytes.NewReader(b.stream.Bytes()))
	if err != nil {
		return nil, err
	}
	opcodes := &bytes.Buffer{}
	w := endian.Writer(opcodes, b.memoryLayout.Endian)
	id := uint32(0)
	for _, i := range instructions {
		if label, ok := i.(asm.Label); ok {
			id = label.Value
		}
		if err := i.Encode(ctx, b.data, w); err != nil {
			return nil, errors.Wrapf(err, "Encode %v failed for command with id %v", i.Tag(), id)
		}
	}
	return opcodes.Bytes(), nil
}

// BuildResources returns the resource table in index order.
func (b *Builder) BuildResources() []protocol.ResourceInfo {
	return append([]protocol.ResourceInfo{}, b.data.Resources()...)
}

// Build compiles the replay instructions, returning a Payload that can be
// sent to the replay virtual-machine. A Builder can only build once.
func (b *Builder) Build(ctx context.Context) (payload protocol.Payload, err error) {
	if b.built {
		return protocol.Payload{}, ErrAlreadyBuilt
	}
	if b.inCmd {
		return protocol.Payload{}, errors.New("Build called while building a command")
	}
	b.built = true
	ctx = log.Enter(ctx, "Build")

	defer func() {
		if r := recover(); r != nil {
			payload, err = protocol.Payload{}, errors.Wrap(ErrEncoding, fault.From(r).Error())
		}
	}()

	debug := b.cfg.DebugReplayBuilder
	if debug {
		log.I(ctx, "Instruction stream size: 0x%x", b.stream.Len())
		if err := b.verifyResources(ctx); err != nil {
			return protocol.Payload{}, err
		}
	}

	b.data.LayoutVolatileMemory(ctx)
	if debug {
		b.logLayout(ctx)
	}

	opcodes, err := b.GenerateOpcodes(ctx)
	if err != nil {
		return protocol.Payload{}, err
	}

	size := b.data.VolatileMemorySize()
	if size > math.MaxUint32 {
		return protocol.Payload{}, errors.Errorf("Volatile memory size 0x%x exceeds 32 bits", size)
	}

	payload = protocol.Payload{
		StackSize:          b.cfg.StackSize,
		VolatileMemorySize: uint32(size),
		Constants:          b.data.Constants(),
		Resources:          b.BuildResources(),
		Opcodes:            opcodes,
	}

	if debug {
		log.I(ctx, "Stack size:           0x%x", payload.StackSize)
		log.I(ctx, "Volatile memory size: 0x%x", payload.VolatileMemorySize)
		log.I(ctx, "Constant memory size: 0x%x", len(payload.Constants))
		log.I(ctx, "Opcodes size:         0x%x", len(payload.Opcodes))
		log.I(ctx, "Resource count:         %d", len(payload.Resources))
	}
	return payload, nil
}

func (b *Builder) verifyResources(ctx context.Context) error {
	for i, r := range b.data.Resources() {
		ctx := log.V{"resource-id": r.ID, "index": i}.Bind(ctx)
		data, err := b.db.Resolve(ctx, r.ID)
		if err != nil {
			return log.Err(ctx, ErrInvalidResource, "Couldn't resolve")
		}
		if len(data) != int(r.Size) {
			return log.Errf(ctx, ErrInvalidResource, "Resource size mismatch. expected: %v, got: %v", r.Size, len(data))
		}
	}
	return nil
}

func (b *Builder) logLayout(ctx context.Context) {
	log.I(ctx, "Volatile memory layout: [0x%x, 0x%x)", 0, b.data.VolatileMemorySize())
	for _, ns := range b.data.Namespaces() {
		bases := b.data.BaseOffsets(ns)
		for i, r := range b.data.Reserved(ns).All() {
			log.I(ctx, "  Namespace %d block %v -> 0x%x (alignment %d)", ns, r.Range, bases[i], r.Alignment)
		}
	}
}
