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

package asm

import (
	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/gapis/replay/opcode"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/pkg/errors"
)

const (
	// Various bit-masks used by this function.
	// Many opcodes can fit values into the opcode itself.
	// These masks are used to determine which values fit.

	mask19 = uint64(0x7ffff)
	mask20 = uint64(0xfffff)
	mask23 = uint64(0x7fffff)
	mask26 = uint64(0x3ffffff)
	mask45 = uint64(0x1fffffffffff)
	mask46 = uint64(0x3fffffffffff)
	mask52 = uint64(0xfffffffffffff)

	//     ▏60       ▏50       ▏40       ▏30       ▏20       ▏10
	// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●● mask19
	// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●●● mask20
	// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●●●●●● mask23
	// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●●●●●●●●● mask26
	// ○○○○○○○○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●● mask45
	// ○○○○○○○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●● mask46
	// ○○○○○○○○○○○○●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●● mask52
	//                                            ▕      PUSHI 20     ▕
	//                                      ▕         EXTEND 26       ▕
)

// field26 returns v as the operand of a single operand opcode, panicking if
// it cannot be held in the 26 bit field.
func field26(v uint64) uint32 {
	if v&^mask26 != 0 {
		panic(errors.Wrapf(opcode.ErrFieldOverflow, "0x%x exceeds 26 bits", v))
	}
	return uint32(v)
}

// pushOps returns the opcodes that push v of type t with the fewest words.
// Signed values must already be sign extended to 64 bits.
func pushOps(t protocol.Type, v uint64) ([]opcode.Opcode, error) {
	push := func(v uint64) opcode.PushI { return opcode.PushI{DataType: t, Value: uint32(v)} }
	ext := func(v uint64) opcode.Extend { return opcode.Extend{Value: uint32(v)} }

	switch t {
	case protocol.Type_Float:
		// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
		//                                ▕PUSHI 9▕      EXTEND 23      ▕
		if v&mask23 == 0 {
			return []opcode.Opcode{push(v >> 23)}, nil
		}
		return []opcode.Opcode{push(v >> 23), ext(v & mask23)}, nil
	case protocol.Type_Double:
		// ◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
		//▕  PUSHI 12 ▕         EXTEND 26       ▕         EXTEND 26       ▕
		// The low chunk is dropped when zero, the high chunk only when both are.
		ops := []opcode.Opcode{push(v >> 52)}
		if m := v & mask52; m != 0 {
			ops = append(ops, ext(m>>26))
			if m&mask26 != 0 {
				ops = append(ops, ext(m&mask26))
			}
		}
		return ops, nil
	case protocol.Type_Int8, protocol.Type_Int16, protocol.Type_Int32, protocol.Type_Int64:
		// Signed PUSHI types are sign-extended
		switch {
		case v&^mask19 == 0:
			// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//                                            ▕      PUSHI 20     ▕
			return []opcode.Opcode{push(v)}, nil
		case v&^mask19 == ^mask19:
			// ●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●●◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//                                            ▕      PUSHI 20     ▕
			return []opcode.Opcode{push(v & mask20)}, nil
		case v&^mask45 == 0:
			// ○○○○○○○○○○○○○○○○○○○◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//                  ▕      PUSHI 20     ▕         EXTEND 26       ▕
			return []opcode.Opcode{push(v >> 26), ext(v & mask26)}, nil
		case v&^mask45 == ^mask45:
			// ●●●●●●●●●●●●●●●●●●●◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//                  ▕      PUSHI 20     ▕         EXTEND 26       ▕
			return []opcode.Opcode{push((v >> 26) & mask20), ext(v & mask26)}, nil
		default:
			// ◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//▕  PUSHI 12 ▕         EXTEND 26       ▕         EXTEND 26       ▕
			return []opcode.Opcode{push(v >> 52), ext((v >> 26) & mask26), ext(v & mask26)}, nil
		}
	case protocol.Type_Bool,
		protocol.Type_Uint8, protocol.Type_Uint16, protocol.Type_Uint32, protocol.Type_Uint64,
		protocol.Type_AbsolutePointer, protocol.Type_ConstantPointer, protocol.Type_VolatilePointer:
		switch {
		case v&^mask20 == 0:
			// ○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○○◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//                                            ▕      PUSHI 20     ▕
			return []opcode.Opcode{push(v)}, nil
		case v&^mask46 == 0:
			// ○○○○○○○○○○○○○○○○○○◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//                  ▕      PUSHI 20     ▕         EXTEND 26       ▕
			return []opcode.Opcode{push(v >> 26), ext(v & mask26)}, nil
		default:
			// ◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒◒
			//▕  PUSHI 12 ▕         EXTEND 26       ▕         EXTEND 26       ▕
			return []opcode.Opcode{push(v >> 52), ext((v >> 26) & mask26), ext(v & mask26)}, nil
		}
	}
	return nil, errors.Errorf("Cannot push value type %s", t)
}

func encodePush(t protocol.Type, v uint64, w binary.Writer) error {
	ops, err := pushOps(t, v)
	if err != nil {
		return err
	}
	return opcode.Encode(w, ops...)
}
