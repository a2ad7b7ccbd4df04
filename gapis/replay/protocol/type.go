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

package protocol

import "fmt"

// Type is the type of a value on the replay virtual machine stack.
// The values are part of the VM contract and must not change.
type Type uint32

const (
	Type_Bool            Type = 0
	Type_Int8            Type = 1
	Type_Int16           Type = 2
	Type_Int32           Type = 3
	Type_Int64           Type = 4
	Type_Uint8           Type = 5
	Type_Uint16          Type = 6
	Type_Uint32          Type = 7
	Type_Uint64          Type = 8
	Type_Float           Type = 9
	Type_Double          Type = 10
	Type_AbsolutePointer Type = 11
	Type_ConstantPointer Type = 12
	Type_VolatilePointer Type = 13
	Type_Void            Type = 14
)

var typeNames = [...]string{
	"Bool", "Int8", "Int16", "Int32", "Int64",
	"Uint8", "Uint16", "Uint32", "Uint64",
	"Float", "Double",
	"AbsolutePointer", "ConstantPointer", "VolatilePointer",
	"Void",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type<%d>", uint32(t))
}

// Size returns the size in bytes of the type. pointerSize is the size in bytes
// of a pointer for the target architecture.
func (t Type) Size(pointerSize int32) int {
	switch t {
	case Type_Bool, Type_Int8, Type_Uint8:
		return 1
	case Type_Int16, Type_Uint16:
		return 2
	case Type_Int32, Type_Uint32, Type_Float:
		return 4
	case Type_Int64, Type_Uint64, Type_Double:
		return 8
	case Type_AbsolutePointer, Type_ConstantPointer, Type_VolatilePointer:
		return int(pointerSize)
	case Type_Void:
		return 0
	default:
		panic(fmt.Errorf("Unknown ValueType %v", t))
	}
}

// IsSigned returns true for the signed integer types.
func (t Type) IsSigned() bool {
	switch t {
	case Type_Int8, Type_Int16, Type_Int32, Type_Int64:
		return true
	default:
		return false
	}
}

// IsPointer returns true for the pointer types.
func (t Type) IsPointer() bool {
	switch t {
	case Type_AbsolutePointer, Type_ConstantPointer, Type_VolatilePointer:
		return true
	default:
		return false
	}
}

// SizeType returns the protocol type needed for a Size member for the given
// pointer width.
func SizeType(pointerSize int32) Type {
	if pointerSize == 4 {
		return Type_Uint32
	} else if pointerSize == 8 {
		return Type_Uint64
	}
	panic(fmt.Errorf("Unknown Pointer Width %v", pointerSize))
}
