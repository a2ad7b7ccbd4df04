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

// Package asm holds the replay instructions recorded by the builder and their
// translation into virtual machine opcodes.
package asm

import (
	"context"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/fault"
	"github.com/google/gapid-sub000/gapis/replay/opcode"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/google/gapid-sub000/gapis/replay/value"
	"github.com/pkg/errors"
)

const (
	// ErrUnresolvedPointer is returned when an observed pointer reaches the
	// encoder without being remapped.
	ErrUnresolvedPointer = fault.Const("Unresolved observed pointer")
	// ErrInvalidType is returned for values and loads of an unknown type.
	ErrInvalidType = fault.Const("Invalid value type")
)

// Instruction is the interface of all instruction types.
//
// Encode writes the instruction's opcodes to the binary writer w, translating
// all pointers to their final, resolved addresses using the PointerResolver r.
// An instruction can produce one or many opcodes.
type Instruction interface {
	Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error
	// Tag returns the record tag of the instruction in a stream.
	Tag() Tag
	write(w binary.Writer)
}

// resolve remaps v and returns the virtual machine type and payload that
// represent it. Signed payloads are sign extended to 64 bits.
func resolve(ctx context.Context, r value.PointerResolver, v value.Value) (protocol.Type, uint64, error) {
	if r != nil {
		v = r.Remap(ctx, v)
	}
	if _, observed := v.Type.Namespace(); observed {
		return 0, 0, errors.Wrapf(ErrUnresolvedPointer, "%v", v)
	}
	if !v.Type.Valid() {
		return 0, 0, errors.Wrapf(ErrInvalidType, "%v", v.Type)
	}
	t := v.Type.Protocol()
	if t.IsSigned() {
		return t, uint64(v.Signed()), nil
	}
	return t, v.Data, nil
}

func push(ctx context.Context, r value.PointerResolver, v value.Value, w binary.Writer) error {
	ty, val, err := resolve(ctx, r, v)
	if err != nil {
		return err
	}
	return encodePush(ty, val, w)
}

// Call is an Instruction to call a VM registered function.
// This instruction will pop the parameters from the VM stack starting with the
// first parameter. If PushReturn is true, then the return value of the function
// call will be pushed to the top of the VM stack.
type Call struct {
	PushReturn bool   // If true, the return value is pushed to the VM stack.
	ApiIndex   uint8  // The index of the API this call belongs to
	FunctionID uint16 // The function id registered with the VM to invoke.
}

func (a Call) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Call{
		PushReturn: a.PushReturn,
		ApiIndex:   a.ApiIndex,
		FunctionID: a.FunctionID,
	}.Encode(w)
}

// Push is an Instruction to push Value to the top of the VM stack.
type Push struct {
	Value value.Value // The value to push on to the VM stack.
}

func (a Push) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return push(ctx, r, a.Value, w)
}

// Pop is an Instruction that discards Count values from the top of the VM
// stack.
type Pop struct {
	Count uint32 // Number of values to discard from the top of the VM stack.
}

func (a Pop) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Pop{Count: a.Count}.Encode(w)
}

// Copy is an Instruction that pops the target address and then the source
// address from the top of the VM stack, and then copies Count bytes from
// source to target.
type Copy struct {
	Count uint64 // Number of bytes to copy.
}

func (a Copy) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Copy{Count: field26(a.Count)}.Encode(w)
}

// Clone is an Instruction that makes a copy of the the n-th element from the
// top of the VM stack and pushes the copy to the top of the VM stack.
type Clone struct {
	Index uint32
}

func (a Clone) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Clone{Index: a.Index}.Encode(w)
}

// Load is an Instruction that loads the value of type DataType from pointer
// Source and pushes the loaded value to the top of the VM stack.
type Load struct {
	DataType protocol.Type
	Source   value.Value
}

func (a Load) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	if a.DataType >= protocol.Type_Void {
		return errors.Wrapf(ErrInvalidType, "Cannot load %v", a.DataType)
	}
	ty, addr, err := resolve(ctx, r, a.Source)
	if err != nil {
		return err
	}
	switch ty {
	case protocol.Type_ConstantPointer:
		if addr&^mask20 == 0 {
			return opcode.LoadC{DataType: a.DataType, Address: uint32(addr)}.Encode(w)
		}
	case protocol.Type_VolatilePointer:
		if addr&^mask20 == 0 {
			return opcode.LoadV{DataType: a.DataType, Address: uint32(addr)}.Encode(w)
		}
	case protocol.Type_AbsolutePointer:
	default:
		return errors.Errorf("Unsupported load source type %v", ty)
	}
	if err := encodePush(ty, addr, w); err != nil {
		return err
	}
	return opcode.Load{DataType: a.DataType}.Encode(w)
}

// Store is an Instruction that pops the value from the top of the VM stack and
// writes the value to Destination.
type Store struct {
	Destination value.Value
}

func (a Store) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	ty, addr, err := resolve(ctx, r, a.Destination)
	if err != nil {
		return err
	}
	if !ty.IsPointer() {
		return errors.Errorf("Unsupported store destination type %v", ty)
	}
	if ty == protocol.Type_VolatilePointer && addr&^mask20 == 0 {
		return opcode.StoreV{Address: uint32(addr)}.Encode(w)
	}
	if err := encodePush(ty, addr, w); err != nil {
		return err
	}
	return opcode.Store{}.Encode(w)
}

// Strcpy is an Instruction that pops the target address then the source address
// from the top of the VM stack, and then copies at most MaxCount-1 bytes from
// source to target. If the MaxCount is greater than the source string length,
// then the target will be padded with 0s. The destination buffer will always be
// 0-terminated.
type Strcpy struct {
	MaxCount uint64
}

func (a Strcpy) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Strcpy{MaxSize: field26(a.MaxCount)}.Encode(w)
}

// Resource is an Instruction that loads the resource with index Index and
// writes the resource to Destination.
type Resource struct {
	Index       uint32
	Destination value.Value
}

func (a Resource) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	if err := push(ctx, r, a.Destination, w); err != nil {
		return err
	}
	return opcode.Resource{ID: a.Index}.Encode(w)
}

// Post is an Instruction that posts Size bytes from Source to the server.
type Post struct {
	Source value.Value
	Size   uint64
}

func (a Post) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	if err := push(ctx, r, a.Source, w); err != nil {
		return err
	}
	if a.Size > 0xffffffff {
		return errors.Errorf("Post size 0x%x exceeds 32 bits", a.Size)
	}
	if err := encodePush(protocol.Type_Uint32, a.Size, w); err != nil {
		return err
	}
	return opcode.Post{}.Encode(w)
}

// Add is an Instruction that pops and sums the top N stack values, pushing the
// result to the top of the stack. Each summed value must have the same type.
type Add struct {
	Count uint32
}

func (a Add) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Add{Count: a.Count}.Encode(w)
}

// Label is an Instruction that holds a marker value, used for debugging.
type Label struct {
	Value uint32
}

func (a Label) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.Label{Value: a.Value}.Encode(w)
}

// SwitchThread is an Instruction that changes execution to a different thread.
type SwitchThread struct {
	Index uint32
}

func (a SwitchThread) Encode(ctx context.Context, r value.PointerResolver, w binary.Writer) error {
	return opcode.SwitchThread{Index: a.Index}.Encode(w)
}
