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
	"bytes"
	"fmt"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/replay/value"
)

// constantEncoder serializes values into the constant memory of data with the
// byte order of the replay device.
type constantEncoder struct {
	data      *Data
	writer    binary.Writer
	buffer    *bytes.Buffer
	alignment uint64
}

func newConstantEncoder(data *Data, memoryLayout *device.MemoryLayout) *constantEncoder {
	buffer := &bytes.Buffer{}
	return &constantEncoder{
		data:      data,
		writer:    endian.Writer(buffer, memoryLayout.Endian),
		buffer:    buffer,
		alignment: uint64(memoryLayout.Pointer.Alignment),
	}
}

func (e *constantEncoder) writeValues(v ...value.Value) value.Value {
	if len(v) == 0 {
		panic("Cannot write an empty list of values!")
	}

	e.buffer.Reset()
	for _, v := range v {
		switch v.Type {
		case value.Bool, value.Int8, value.Uint8:
			e.writer.Uint8(uint8(v.Data))
		case value.Int16, value.Uint16:
			e.writer.Uint16(uint16(v.Data))
		case value.Int32, value.Uint32, value.Float:
			e.writer.Uint32(uint32(v.Data))
		case value.Int64, value.Uint64, value.Double:
			e.writer.Uint64(v.Data)
		default:
			panic(fmt.Errorf("Cannot write Value %v to constant memory", v))
		}
	}
	return e.finish()
}

func (e *constantEncoder) writeString(s string) value.Value {
	e.buffer.Reset()
	e.writer.Data([]byte(s))
	e.writer.Uint8(0)
	return e.finish()
}

func (e *constantEncoder) finish() value.Value {
	if err := e.writer.Error(); err != nil {
		panic(err)
	}
	offset := e.data.AddConstant(e.buffer.Bytes(), e.alignment)
	return value.ConstantPtr(uint64(offset))
}
