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

// Package device describes the memory layout of the replay target.
package device

import "fmt"

// Endian is the byte order of a target.
type Endian int

const (
	UnknownEndian Endian = iota
	BigEndian
	LittleEndian
)

func (e Endian) String() string {
	switch e {
	case BigEndian:
		return "BigEndian"
	case LittleEndian:
		return "LittleEndian"
	default:
		return "UnknownEndian"
	}
}

// DataTypeLayout is the size and alignment of a single data type.
type DataTypeLayout struct {
	Size      uint32
	Alignment uint32
}

// MemoryLayout holds the layout properties of the target that affect the
// replay encoding.
type MemoryLayout struct {
	Endian  Endian
	Pointer DataTypeLayout
	I64     DataTypeLayout
}

func (m *MemoryLayout) String() string {
	return fmt.Sprintf("PointerAlignment:%d PointerSize:%d U64Alignment:%d Endian:%v",
		m.Pointer.Alignment, m.Pointer.Size, m.I64.Alignment, m.Endian)
}

var (
	// ARMv7aLayout is the memory layout for the armv7a ABI.
	// http://infocenter.arm.com/help/topic/com.arm.doc.ihi0042f/IHI0042F_aapcs.pdf
	// 4 DATA TYPES AND ALIGNMENT
	ARMv7aLayout = &MemoryLayout{
		Endian:  LittleEndian,
		Pointer: DataTypeLayout{Size: 4, Alignment: 4},
		I64:     DataTypeLayout{Size: 8, Alignment: 8},
	}

	// ARM64v8aLayout is the memory layout for the arm64v8a ABI.
	// http://infocenter.arm.com/help/topic/com.arm.doc.ihi0055b/IHI0055B_aapcs64.pdf
	// 4 DATA TYPES AND ALIGNMENT
	ARM64v8aLayout = &MemoryLayout{
		Endian:  LittleEndian,
		Pointer: DataTypeLayout{Size: 8, Alignment: 8},
		I64:     DataTypeLayout{Size: 8, Alignment: 8},
	}

	// X86IA32Layout is the memory layout for the x86 IA-32 ABI.
	X86IA32Layout = &MemoryLayout{
		Endian:  LittleEndian,
		Pointer: DataTypeLayout{Size: 4, Alignment: 4},
		I64:     DataTypeLayout{Size: 8, Alignment: 4},
	}

	// X86_64Layout is the memory layout for the x86_64 ABI.
	X86_64Layout = &MemoryLayout{
		Endian:  LittleEndian,
		Pointer: DataTypeLayout{Size: 8, Alignment: 8},
		I64:     DataTypeLayout{Size: 8, Alignment: 8},
	}

	Little32 = ARMv7aLayout
	Little64 = X86_64Layout
)
