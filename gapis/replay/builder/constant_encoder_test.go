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
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/replay/value"
)

func TestConstantEncoderCache(t *testing.T) {
	assert := assert.To(t)
	c := newConstantEncoder(NewData(nil, 4, 0), device.Little32)

	addr1 := c.writeValues(value.U32(0x1234), value.S16(-1))
	addr2 := c.writeValues(value.U32(0x1234), value.S16(-1))
	assert.For("addr").That(addr1).Equals(addr2)
	assert.For("size").ThatSlice(c.data.Constants()).IsLength(6)
}

func TestConstantEncoderAlignment(t *testing.T) {
	assert := assert.To(t)
	c := newConstantEncoder(NewData(nil, 8, 0), &device.MemoryLayout{
		Endian:  device.BigEndian,
		Pointer: device.DataTypeLayout{Size: 4, Alignment: 8},
		I64:     device.DataTypeLayout{Size: 8, Alignment: 8},
	})

	assert.For("u32").That(c.writeValues(value.U32(0x1234))).Equals(value.ConstantPtr(0))
	assert.For("s16").That(c.writeValues(value.S16(-2))).Equals(value.ConstantPtr(8))
	assert.For("str").That(c.writeString("ab")).Equals(value.ConstantPtr(16))

	expected := []byte{
		0x00, 0x00, 0x12, 0x34, 0x00, 0x00, 0x00, 0x00,
		0xff, 0xfe, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		'a', 'b', 0x00,
	}
	assert.For("data").ThatSlice(c.data.Constants()).Equals(expected)
}

func TestConstantEncoderRejectsPointers(t *testing.T) {
	assert := assert.To(t)
	c := newConstantEncoder(NewData(nil, 8, 0), device.Little64)
	assert.For("pointer").That(panics(func() { c.writeValues(value.VolatilePtr(4)) })).Equals(true)
	assert.For("empty").That(panics(func() { c.writeValues() })).Equals(true)
}
