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

// Package opcode holds the 32 bit opcode words executed by the replay virtual
// machine.
package opcode

import (
	"fmt"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
)

// Opcode represents a single opcode word of the replay virtual machine.
type Opcode interface {
	fmt.Stringer
	// Encode packs the opcode and writes it to w.
	Encode(w binary.Writer) error
	// Code returns the opcode tag.
	Code() protocol.Opcode
}

// Call represents the CALL virtual machine opcode.
type Call struct {
	PushReturn bool   // Should the return value be pushed onto the stack?
	ApiIndex   uint8  // The index of the API this call belongs to.
	FunctionID uint16 // The function identifier to call.
}

func (c Call) String() string {
	return fmt.Sprintf("Call(PushReturn: %v, API: %v, Func: %v)", c.PushReturn, c.ApiIndex, c.FunctionID)
}

func (Call) Code() protocol.Opcode { return protocol.OpCall }

func (c Call) Encode(w binary.Writer) error {
	apiFunction := PackAPIIndexFunctionID(c.ApiIndex, c.FunctionID)
	w.Uint32(packCX(protocol.OpCall, setBit(apiFunction, 24, c.PushReturn)))
	return w.Error()
}

// PushI represents the PUSH_I virtual machine opcode.
type PushI struct {
	DataType protocol.Type // The value type to push.
	Value    uint32        // The value to push packed into the low 20 bits.
}

func (c PushI) String() string {
	return fmt.Sprintf("PushI(Type: %v, Value: 0x%x)", c.DataType, c.Value)
}

func (PushI) Code() protocol.Opcode { return protocol.OpPushI }

func (c PushI) Encode(w binary.Writer) error {
	w.Uint32(packCYZ(protocol.OpPushI, uint32(c.DataType), c.Value))
	return w.Error()
}

// LoadC represents the LOAD_C virtual machine opcode.
type LoadC struct {
	DataType protocol.Type // The value type to load.
	Address  uint32        // The pointer to the value in constant address-space.
}

func (c LoadC) String() string {
	return fmt.Sprintf("LoadC(Type: %v, Address: 0x%x)", c.DataType, c.Address)
}

func (LoadC) Code() protocol.Opcode { return protocol.OpLoadC }

func (c LoadC) Encode(w binary.Writer) error {
	w.Uint32(packCYZ(protocol.OpLoadC, uint32(c.DataType), c.Address))
	return w.Error()
}

// LoadV represents the LOAD_V virtual machine opcode.
type LoadV struct {
	DataType protocol.Type // The value type to load.
	Address  uint32        // The pointer to the value in volatile address-space.
}

func (c LoadV) String() string {
	return fmt.Sprintf("LoadV(Type: %v, Address: 0x%x)", c.DataType, c.Address)
}

func (LoadV) Code() protocol.Opcode { return protocol.OpLoadV }

func (c LoadV) Encode(w binary.Writer) error {
	w.Uint32(packCYZ(protocol.OpLoadV, uint32(c.DataType), c.Address))
	return w.Error()
}

// Load represents the LOAD virtual machine opcode.
type Load struct {
	DataType protocol.Type // The value type to load.
}

func (c Load) String() string {
	return fmt.Sprintf("Load(Type: %v)", c.DataType)
}

func (Load) Code() protocol.Opcode { return protocol.OpLoad }

func (c Load) Encode(w binary.Writer) error {
	w.Uint32(packCYZ(protocol.OpLoad, uint32(c.DataType), 0))
	return w.Error()
}

// Pop represents the POP virtual machine opcode.
type Pop struct {
	Count uint32 // Number of elements to pop from the top of the stack.
}

func (c Pop) String() string { return fmt.Sprintf("Pop(Count: %v)", c.Count) }

func (Pop) Code() protocol.Opcode { return protocol.OpPop }

func (c Pop) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpPop, c.Count))
	return w.Error()
}

// StoreV represents the STORE_V virtual machine opcode.
type StoreV struct {
	Address uint32 // Pointer in volatile address-space.
}

func (c StoreV) String() string { return fmt.Sprintf("StoreV(Address: 0x%x)", c.Address) }

func (StoreV) Code() protocol.Opcode { return protocol.OpStoreV }

func (c StoreV) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpStoreV, c.Address))
	return w.Error()
}

// Store represents the STORE virtual machine opcode.
type Store struct{}

func (Store) String() string { return "Store" }

func (Store) Code() protocol.Opcode { return protocol.OpStore }

func (c Store) Encode(w binary.Writer) error {
	w.Uint32(packC(protocol.OpStore))
	return w.Error()
}

// Resource represents the RESOURCE virtual machine opcode.
type Resource struct {
	ID uint32 // The index of the resource identifier.
}

func (c Resource) String() string { return fmt.Sprintf("Resource(ID: %v)", c.ID) }

func (Resource) Code() protocol.Opcode { return protocol.OpResource }

func (c Resource) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpResource, c.ID))
	return w.Error()
}

// Post represents the POST virtual machine opcode.
type Post struct{}

func (Post) String() string { return "Post" }

func (Post) Code() protocol.Opcode { return protocol.OpPost }

func (c Post) Encode(w binary.Writer) error {
	w.Uint32(packC(protocol.OpPost))
	return w.Error()
}

// Copy represents the COPY virtual machine opcode.
type Copy struct {
	Count uint32 // Number of bytes to copy.
}

func (c Copy) String() string { return fmt.Sprintf("Copy(Count: %v)", c.Count) }

func (Copy) Code() protocol.Opcode { return protocol.OpCopy }

func (c Copy) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpCopy, c.Count))
	return w.Error()
}

// Clone represents the CLONE virtual machine opcode.
type Clone struct {
	Index uint32 // Index of element from top of stack to clone.
}

func (c Clone) String() string { return fmt.Sprintf("Clone(Index: %v)", c.Index) }

func (Clone) Code() protocol.Opcode { return protocol.OpClone }

func (c Clone) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpClone, c.Index))
	return w.Error()
}

// Strcpy represents the STRCPY virtual machine opcode.
type Strcpy struct {
	MaxSize uint32 // Maximum number of bytes to copy, including the terminator.
}

func (c Strcpy) String() string { return fmt.Sprintf("Strcpy(MaxSize: %v)", c.MaxSize) }

func (Strcpy) Code() protocol.Opcode { return protocol.OpStrcpy }

func (c Strcpy) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpStrcpy, c.MaxSize))
	return w.Error()
}

// Extend represents the EXTEND virtual machine opcode.
type Extend struct {
	Value uint32 // 26 bit value to extend the top of the stack by.
}

func (c Extend) String() string { return fmt.Sprintf("Extend(Value: 0x%x)", c.Value) }

func (Extend) Code() protocol.Opcode { return protocol.OpExtend }

func (c Extend) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpExtend, c.Value))
	return w.Error()
}

// Add represents the ADD virtual machine opcode.
type Add struct {
	Count uint32 // Number of top value stack elements to sum.
}

func (c Add) String() string { return fmt.Sprintf("Add(Count: %v)", c.Count) }

func (Add) Code() protocol.Opcode { return protocol.OpAdd }

func (c Add) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpAdd, c.Count))
	return w.Error()
}

// Label represents the LABEL virtual machine opcode.
type Label struct {
	Value uint32 // 26 bit label name.
}

func (c Label) String() string { return fmt.Sprintf("Label(Value: 0x%x)", c.Value) }

func (Label) Code() protocol.Opcode { return protocol.OpLabel }

func (c Label) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpLabel, c.Value))
	return w.Error()
}

// SwitchThread represents the SWITCH_THREAD virtual machine opcode.
type SwitchThread struct {
	Index uint32 // 26 bit thread index.
}

func (c SwitchThread) String() string { return fmt.Sprintf("SwitchThread(Index: %v)", c.Index) }

func (SwitchThread) Code() protocol.Opcode { return protocol.OpSwitchThread }

func (c SwitchThread) Encode(w binary.Writer) error {
	w.Uint32(packCX(protocol.OpSwitchThread, c.Index))
	return w.Error()
}
