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

package endian_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
)

func TestByteOrder(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		endian   device.Endian
		expected []byte
	}{
		{device.LittleEndian, []byte{0x04, 0x03, 0x02, 0x01, 0x01, 0x02}},
		{device.BigEndian, []byte{0x01, 0x02, 0x03, 0x04, 0x02, 0x01}},
	} {
		buf := &bytes.Buffer{}
		w := endian.Writer(buf, test.endian)
		w.Uint32(0x01020304)
		w.Uint16(0x0201)
		assert.For(ctx, "err").ThatError(w.Error()).Succeeded()
		assert.For(ctx, "%v bytes", test.endian).ThatSlice(buf.Bytes()).Equals(test.expected)

		r := endian.Reader(bytes.NewReader(buf.Bytes()), test.endian)
		assert.For(ctx, "u32").That(r.Uint32()).Equals(uint32(0x01020304))
		assert.For(ctx, "u16").That(r.Uint16()).Equals(uint16(0x0201))
		assert.For(ctx, "err").ThatError(r.Error()).Succeeded()
	}
}

func TestReaderErrors(t *testing.T) {
	ctx := log.Testing(t)
	r := endian.Reader(bytes.NewReader([]byte{1, 2}), device.LittleEndian)
	assert.For(ctx, "short").That(r.Uint32()).Equals(uint32(0))
	assert.For(ctx, "err").ThatError(r.Error()).Equals(io.ErrUnexpectedEOF)
	assert.For(ctx, "sticky").That(r.Uint8()).Equals(uint8(0))

	r = endian.Reader(bytes.NewReader(nil), device.LittleEndian)
	r.Uint64()
	assert.For(ctx, "empty").ThatError(r.Error()).Equals(io.EOF)

	r = endian.Reader(bytes.NewReader([]byte{7, 8, 9}), device.BigEndian)
	got := []byte{1, 1, 1, 1}
	r.Data(got)
	assert.For(ctx, "short data").ThatSlice(got).Equals([]byte{0, 0, 0, 0})
	assert.For(ctx, "short data err").ThatError(r.Error()).Equals(io.ErrUnexpectedEOF)
}

func TestFloats(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w := endian.Writer(buf, device.LittleEndian)
	w.Float32(1.5)
	w.Float64(-2.25)
	r := endian.Reader(buf, device.LittleEndian)
	assert.For(ctx, "f32").That(r.Float32()).Equals(float32(1.5))
	assert.For(ctx, "f64").That(r.Float64()).Equals(-2.25)
}
