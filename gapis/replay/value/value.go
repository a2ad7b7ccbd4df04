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

// Package value contains the value types used by the replay instruction
// stream.
//
// A Value is a 64 bit payload tagged with a Type. Numerical and boolean values
// hold their bit representation, zero extended. Pointer values can belong to
// the absolute, constant or volatile address spaces of the replay virtual
// machine, or to a namespace of the capture address space that the builder
// remaps before encoding.
package value

import (
	"fmt"
	"math"

	"github.com/google/gapid-sub000/gapis/replay/protocol"
)

// Namespace identifies a partition of the capture address space.
type Namespace uint32

// Type is the type of a Value.
type Type uint32

const (
	Bool            = Type(protocol.Type_Bool)
	Int8            = Type(protocol.Type_Int8)
	Int16           = Type(protocol.Type_Int16)
	Int32           = Type(protocol.Type_Int32)
	Int64           = Type(protocol.Type_Int64)
	Uint8           = Type(protocol.Type_Uint8)
	Uint16          = Type(protocol.Type_Uint16)
	Uint32          = Type(protocol.Type_Uint32)
	Uint64          = Type(protocol.Type_Uint64)
	Float           = Type(protocol.Type_Float)
	Double          = Type(protocol.Type_Double)
	AbsolutePointer = Type(protocol.Type_AbsolutePointer)
	ConstantPointer = Type(protocol.Type_ConstantPointer)
	VolatilePointer = Type(protocol.Type_VolatilePointer)

	// ObservedPointerNamespace0 is the type of a capture address space pointer
	// in namespace 0. Pointers in namespace n have the type
	// ObservedPointerNamespace0 + n.
	ObservedPointerNamespace0 Type = 16
)

// ObservedPointerType returns the type of pointers in the namespace ns.
func ObservedPointerType(ns Namespace) Type {
	t := ObservedPointerNamespace0 + Type(ns)
	if t < ObservedPointerNamespace0 {
		panic(fmt.Errorf("Namespace %d is out of range", ns))
	}
	return t
}

// Namespace returns the namespace of an observed pointer type.
func (t Type) Namespace() (Namespace, bool) {
	if t < ObservedPointerNamespace0 {
		return 0, false
	}
	return Namespace(t - ObservedPointerNamespace0), true
}

// Valid returns true if t is a known type.
func (t Type) Valid() bool {
	return t <= VolatilePointer || t >= ObservedPointerNamespace0
}

// Protocol returns the virtual machine type for t. Observed pointers have no
// virtual machine type and must be remapped first.
func (t Type) Protocol() protocol.Type {
	if t > VolatilePointer {
		panic(fmt.Errorf("Type %v has no protocol equivalent", t))
	}
	return protocol.Type(t)
}

func (t Type) String() string {
	if ns, ok := t.Namespace(); ok {
		return fmt.Sprintf("ObservedPointer<%d>", ns)
	}
	if t <= VolatilePointer {
		return protocol.Type(t).String()
	}
	return fmt.Sprintf("Type<%d>", uint32(t))
}

// Value is a typed value in the replay instruction stream.
type Value struct {
	Data uint64
	Type Type
}

func (v Value) String() string {
	switch v.Type {
	case Bool:
		return fmt.Sprintf("%v", v.Data != 0)
	case Int8, Int16, Int32, Int64:
		return fmt.Sprintf("%v(%d)", v.Type, v.Signed())
	case Float:
		return fmt.Sprintf("Float(%v)", math.Float32frombits(uint32(v.Data)))
	case Double:
		return fmt.Sprintf("Double(%v)", math.Float64frombits(v.Data))
	case Uint8, Uint16, Uint32, Uint64:
		return fmt.Sprintf("%v(%d)", v.Type, v.Data)
	default:
		return fmt.Sprintf("%v(0x%x)", v.Type, v.Data)
	}
}

// Signed returns the value sign extended from the width of its type.
func (v Value) Signed() int64 {
	switch v.Type {
	case Int8:
		return int64(int8(v.Data))
	case Int16:
		return int64(int16(v.Data))
	case Int32:
		return int64(int32(v.Data))
	default:
		return int64(v.Data)
	}
}

// IsPointer returns true if the value is a pointer of any address space.
func (v Value) IsPointer() bool {
	_, observed := v.Type.Namespace()
	return observed || (v.Type.Valid() && v.Type.Protocol().IsPointer())
}

// Offset returns the pointer value moved by n bytes.
func (v Value) Offset(n uint64) Value {
	return Value{Data: v.Data + n, Type: v.Type}
}

// B returns a Bool value.
func B(v bool) Value {
	if v {
		return Value{1, Bool}
	}
	return Value{0, Bool}
}

// U8 returns a Uint8 value.
func U8(v uint8) Value { return Value{uint64(v), Uint8} }

// U16 returns a Uint16 value.
func U16(v uint16) Value { return Value{uint64(v), Uint16} }

// U32 returns a Uint32 value.
func U32(v uint32) Value { return Value{uint64(v), Uint32} }

// U64 returns a Uint64 value.
func U64(v uint64) Value { return Value{v, Uint64} }

// S8 returns an Int8 value. The data holds the zero extended bit pattern.
func S8(v int8) Value { return Value{uint64(uint8(v)), Int8} }

// S16 returns an Int16 value.
func S16(v int16) Value { return Value{uint64(uint16(v)), Int16} }

// S32 returns an Int32 value.
func S32(v int32) Value { return Value{uint64(uint32(v)), Int32} }

// S64 returns an Int64 value.
func S64(v int64) Value { return Value{uint64(v), Int64} }

// F32 returns a Float value.
func F32(v float32) Value { return Value{uint64(math.Float32bits(v)), Float} }

// F64 returns a Double value.
func F64(v float64) Value { return Value{math.Float64bits(v), Double} }

// AbsolutePtr returns a pointer in the absolute address space.
func AbsolutePtr(addr uint64) Value { return Value{addr, AbsolutePointer} }

// ConstantPtr returns a pointer into the constant memory.
func ConstantPtr(addr uint64) Value { return Value{addr, ConstantPointer} }

// VolatilePtr returns a pointer into the volatile memory.
func VolatilePtr(addr uint64) Value { return Value{addr, VolatilePointer} }

// ObservedPtr returns a capture address space pointer in namespace ns.
func ObservedPtr(ns Namespace, addr uint64) Value {
	return Value{addr, ObservedPointerType(ns)}
}
