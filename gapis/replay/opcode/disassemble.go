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
	"io"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/fault"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/pkg/errors"
)

// ErrUnknownOpcode is returned by Decode for a word with an unknown tag.
const ErrUnknownOpcode = fault.Const("Unknown opcode")

// Decode returns the opcode decoded from the reader r.
func Decode(r binary.Reader) (Opcode, error) {
	i := r.Uint32()
	if err := r.Error(); err != nil {
		return nil, err
	}
	switch code := unpackC(i); code {
	case protocol.OpCall:
		return Call{PushReturn: bit(i, 24), ApiIndex: unpackApiIndex(i), FunctionID: unpackFunctionID(i)}, nil
	case protocol.OpPushI:
		return PushI{DataType: protocol.Type(unpackY(i)), Value: unpackZ(i)}, nil
	case protocol.OpLoadC:
		return LoadC{DataType: protocol.Type(unpackY(i)), Address: unpackZ(i)}, nil
	case protocol.OpLoadV:
		return LoadV{DataType: protocol.Type(unpackY(i)), Address: unpackZ(i)}, nil
	case protocol.OpLoad:
		return Load{DataType: protocol.Type(unpackY(i))}, nil
	case protocol.OpPop:
		return Pop{Count: unpackX(i)}, nil
	case protocol.OpStoreV:
		return StoreV{Address: unpackX(i)}, nil
	case protocol.OpStore:
		return Store{}, nil
	case protocol.OpResource:
		return Resource{ID: unpackX(i)}, nil
	case protocol.OpPost:
		return Post{}, nil
	case protocol.OpCopy:
		return Copy{Count: unpackX(i)}, nil
	case protocol.OpClone:
		return Clone{Index: unpackX(i)}, nil
	case protocol.OpStrcpy:
		return Strcpy{MaxSize: unpackX(i)}, nil
	case protocol.OpExtend:
		return Extend{Value: unpackX(i)}, nil
	case protocol.OpAdd:
		return Add{Count: unpackX(i)}, nil
	case protocol.OpLabel:
		return Label{Value: unpackX(i)}, nil
	case protocol.OpSwitchThread:
		return SwitchThread{Index: unpackX(i)}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownOpcode, "%v in word 0x%.8x", code, i)
	}
}

// Disassemble disassembles and returns the stream of encoded Opcodes from r,
// stopping once an EOF is reached.
func Disassemble(r io.Reader, byteOrder device.Endian) ([]Opcode, error) {
	d := endian.Reader(r, byteOrder)
	opcodes := []Opcode{}
	for {
		opcode, err := Decode(d)
		switch err {
		case nil:
			opcodes = append(opcodes, opcode)
		case io.EOF:
			return opcodes, nil
		default:
			return nil, err
		}
	}
}

// Encode writes all the opcodes to w.
func Encode(w binary.Writer, opcodes ...Opcode) error {
	for _, op := range opcodes {
		if err := op.Encode(w); err != nil {
			return err
		}
	}
	return nil
}
