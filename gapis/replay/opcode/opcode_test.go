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
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
)

func words(ops ...Opcode) []uint32 {
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, device.LittleEndian)
	if err := Encode(w, ops...); err != nil {
		panic(err)
	}
	r := endian.Reader(buf, device.LittleEndian)
	out := make([]uint32, buf.Len()/4)
	for i := range out {
		out[i] = r.Uint32()
	}
	return out
}

func TestPackedWords(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		op       Opcode
		expected uint32
	}{
		{Call{PushReturn: true, ApiIndex: 2, FunctionID: 0x123}, 0x01020123},
		{Call{ApiIndex: 0x12, FunctionID: 0xffff}, 0x0002ffff},
		{PushI{DataType: protocol.Type_Uint32, Value: 5}, 0x04700005},
		{LoadC{DataType: protocol.Type_Int8, Address: 0x10}, 0x08100010},
		{LoadV{DataType: protocol.Type_Float, Address: 0xfffff}, 0x0c9fffff},
		{Load{DataType: protocol.Type_Uint64}, 0x10800000},
		{Pop{Count: 1}, 0x14000001},
		{StoreV{Address: 0x3ffffff}, 0x1bffffff},
		{Store{}, 0x1c000000},
		{Resource{ID: 7}, 0x20000007},
		{Post{}, 0x24000000},
		{Copy{Count: 64}, 0x28000040},
		{Clone{Index: 1}, 0x2c000001},
		{Strcpy{MaxSize: 32}, 0x30000020},
		{Extend{Value: 0x2000000}, 0x36000000},
		{Add{Count: 2}, 0x38000002},
		{Label{Value: 9}, 0x3c000009},
		{SwitchThread{Index: 3}, 0x40000003},
	} {
		assert.For(ctx, "%v", test.op).ThatSlice(words(test.op)).Equals([]uint32{test.expected})
	}
}

func TestDisassemble(t *testing.T) {
	ctx := log.Testing(t)
	ops := []Opcode{
		Call{PushReturn: true, ApiIndex: 1, FunctionID: 42},
		PushI{DataType: protocol.Type_Int32, Value: 0xfffff},
		LoadC{DataType: protocol.Type_Uint16, Address: 0x80},
		LoadV{DataType: protocol.Type_Bool, Address: 4},
		Load{DataType: protocol.Type_Double},
		Pop{Count: 3},
		StoreV{Address: 0x100},
		Store{},
		Resource{ID: 2},
		Post{},
		Copy{Count: 8},
		Clone{Index: 0},
		Strcpy{MaxSize: 16},
		Extend{Value: 0x123456},
		Add{Count: 4},
		Label{Value: 100},
		SwitchThread{Index: 1},
	}
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, device.BigEndian)
	assert.For(ctx, "encode").ThatError(Encode(w, ops...)).Succeeded()
	assert.For(ctx, "size").ThatInteger(buf.Len()).Equals(4 * len(ops))

	got, err := Disassemble(buf, device.BigEndian)
	assert.For(ctx, "err").ThatError(err).Succeeded()
	assert.For(ctx, "opcodes").ThatSlice(got).Equals(ops)
	for i, op := range got {
		assert.For(ctx, "code %d", i).That(op.Code()).Equals(ops[i].Code())
	}
}

func TestDecodeErrors(t *testing.T) {
	ctx := log.Testing(t)

	_, err := Disassemble(bytes.NewReader([]byte{1, 0, 0, 0, 2, 0}), device.LittleEndian)
	assert.For(ctx, "truncated").ThatError(err).Equals(io.ErrUnexpectedEOF)

	for _, word := range []uint32{0x44000000, 0xfc000000} {
		buf := &bytes.Buffer{}
		w := endian.Writer(buf, device.LittleEndian)
		w.Uint32(word)
		_, err := Decode(endian.Reader(buf, device.LittleEndian))
		assert.For(ctx, "word 0x%x", word).ThatError(err).HasCause(ErrUnknownOpcode)
	}

	got, err := Disassemble(bytes.NewReader(nil), device.LittleEndian)
	assert.For(ctx, "empty err").ThatError(err).Succeeded()
	assert.For(ctx, "empty").ThatSlice(got).IsEmpty()
}

func TestFieldOverflowPanics(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name string
		op   Opcode
	}{
		{"x", Pop{Count: MaxX + 1}},
		{"y", PushI{DataType: MaxY + 1}},
		{"z", PushI{DataType: protocol.Type_Uint32, Value: MaxZ + 1}},
		{"fused address", LoadV{DataType: protocol.Type_Uint8, Address: 1 << 20}},
		{"label", Label{Value: 1 << 26}},
	} {
		func() {
			defer func() {
				err, _ := recover().(error)
				assert.For(ctx, "%s", test.name).ThatError(err).HasCause(ErrFieldOverflow)
			}()
			words(test.op)
		}()
	}
}

func TestPackedFieldBounds(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "c").That(packC(MaxC)).Equals(uint32(0xfc000000))
	assert.For(ctx, "x").That(packCX(0, MaxX)).Equals(uint32(MaxX))
	assert.For(ctx, "yz").That(packCYZ(0, MaxY, MaxZ)).Equals(uint32(0x03ffffff))
	func() {
		defer func() {
			err, _ := recover().(error)
			assert.For(ctx, "c overflow").ThatError(err).HasCause(ErrFieldOverflow)
		}()
		packC(MaxC + 1)
	}()
}

func TestReconstruct(t *testing.T) {
	ctx := log.Testing(t)
	double := math.Float64bits(1e300)
	for _, test := range []struct {
		name     string
		ops      []Opcode
		expected []Pushed
	}{
		{
			"small unsigned",
			[]Opcode{PushI{protocol.Type_Uint32, 5}, Add{Count: 2}, PushI{protocol.Type_Uint8, 0xff}},
			[]Pushed{{protocol.Type_Uint32, 5}, {protocol.Type_Uint8, 0xff}},
		},
		{
			"negative",
			[]Opcode{PushI{protocol.Type_Int16, 0xfffff}},
			[]Pushed{{protocol.Type_Int16, math.MaxUint64}},
		},
		{
			"extended unsigned",
			[]Opcode{PushI{protocol.Type_Uint64, 0x1}, Extend{0x2}, Extend{0x3}},
			[]Pushed{{protocol.Type_Uint64, 1<<52 | 2<<26 | 3}},
		},
		{
			"float",
			[]Opcode{PushI{protocol.Type_Float, 0x7f}, Extend{0x400000}},
			[]Pushed{{protocol.Type_Float, uint64(math.Float32bits(1.5))}},
		},
		{
			"double",
			[]Opcode{PushI{protocol.Type_Double, uint32(double >> 52)}, Extend{uint32(double>>26) & MaxX}, Extend{uint32(double) & MaxX}},
			[]Pushed{{protocol.Type_Double, double}},
		},
		{
			"double without low chunk",
			[]Opcode{PushI{protocol.Type_Double, 0x3ff}, Extend{0x2000000}},
			[]Pushed{{protocol.Type_Double, math.Float64bits(1.5)}},
		},
	} {
		got, err := Reconstruct(test.ops)
		assert.For(ctx, "%s err", test.name).ThatError(err).Succeeded()
		assert.For(ctx, "%s", test.name).ThatSlice(got).Equals(test.expected)
	}

	for _, ops := range [][]Opcode{
		{Extend{1}},
		{PushI{protocol.Type_Uint32, 1}, Pop{Count: 1}, Extend{1}},
		{PushI{protocol.Type_Float, 1}, Extend{1}, Extend{1}},
		{PushI{protocol.Type_Double, 1}, Extend{1}, Extend{1}, Extend{1}},
	} {
		_, err := Reconstruct(ops)
		assert.For(ctx, "%v", ops).ThatError(err).HasCause(ErrMalformedPush)
	}
}
