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

package opcode

import (
	"github.com/google/gapid-sub000/core/fault"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/pkg/errors"
)

// ErrMalformedPush is returned by Reconstruct when an EXTEND opcode cannot be
// applied to the value on the top of the stack.
const ErrMalformedPush = fault.Const("Malformed push sequence")

// Pushed is a value assembled by a PUSH_I opcode and the EXTEND opcodes that
// follow it.
type Pushed struct {
	Type  protocol.Type
	Value uint64
}

// Reconstruct assembles the values pushed by ops the way the virtual machine
// does. Opcodes other than PUSH_I and EXTEND are skipped, but an EXTEND must
// directly follow a PUSH_I or another EXTEND.
//
// Signed values are returned sign extended to 64 bits.
func Reconstruct(ops []Opcode) ([]Pushed, error) {
	out := []Pushed{}
	extends := -1
	for i, op := range ops {
		switch op := op.(type) {
		case PushI:
			out = append(out, Pushed{Type: op.DataType, Value: immediate(op)})
			extends = 0
		case Extend:
			if extends < 0 {
				return nil, errors.Wrapf(ErrMalformedPush, "%v at %d does not follow a push", op, i)
			}
			top := &out[len(out)-1]
			if err := extend(top, extends, op.Value); err != nil {
				return nil, errors.Wrapf(err, "%v at %d", op, i)
			}
			extends++
		default:
			extends = -1
		}
	}
	return out, nil
}

func immediate(op PushI) uint64 {
	v := uint64(op.Value)
	switch {
	case op.DataType == protocol.Type_Float:
		return v << 23
	case op.DataType == protocol.Type_Double:
		return v << 52
	case op.DataType.IsSigned():
		return uint64(int64(int32(op.Value<<12) >> 12))
	default:
		return v
	}
}

func extend(p *Pushed, n int, x uint32) error {
	switch p.Type {
	case protocol.Type_Float:
		if n > 0 || x > 0x7fffff {
			return ErrMalformedPush
		}
		p.Value |= uint64(x)
	case protocol.Type_Double:
		switch n {
		case 0:
			p.Value |= uint64(x) << 26
		case 1:
			p.Value |= uint64(x)
		default:
			return ErrMalformedPush
		}
	default:
		p.Value = p.Value<<26 | uint64(x)
	}
	return nil
}
