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

// Package endian implements the binary reader and writer for a given byte
// order.
package endian

import (
	eb "encoding/binary"
	"io"
	"math"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/os/device"
)

// ByteOrder returns the encoding/binary byte order for endian.
func ByteOrder(endian device.Endian) eb.ByteOrder {
	switch endian {
	case device.BigEndian:
		return eb.BigEndian
	default:
		return eb.LittleEndian
	}
}

// Reader creates a binary.Reader that reads from the provided io.Reader, with
// the specified byte order.
func Reader(r io.Reader, endian device.Endian) binary.Reader {
	return &reader{reader: r, byteOrder: ByteOrder(endian)}
}

// Writer creates a binary.Writer that writes to the supplied stream, with the
// specified byte order.
func Writer(w io.Writer, endian device.Endian) binary.Writer {
	return &writer{writer: w, byteOrder: ByteOrder(endian)}
}

type reader struct {
	reader    io.Reader
	tmp       [8]byte
	byteOrder eb.ByteOrder
	err       error
}

type writer struct {
	writer    io.Writer
	tmp       [8]byte
	byteOrder eb.ByteOrder
	err       error
}

func (r *reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.reader.Read(p)
}

// fill reads exactly len(p) bytes. A stream that ends part way through a
// value reports io.ErrUnexpectedEOF; one that ends before it reports io.EOF.
func (r *reader) fill(p []byte) bool {
	if r.err == nil {
		_, r.err = io.ReadFull(r.reader, p)
	}
	if r.err != nil {
		clear(p)
		return false
	}
	return true
}

func (w *writer) Data(data []byte) {
	if w.err != nil {
		return
	}
	n, err := w.writer.Write(data)
	if err != nil {
		w.err = err
	} else if n != len(data) {
		w.err = io.ErrShortWrite
	}
}

func (r *reader) Data(p []byte) { r.fill(p) }

func (r *reader) Bool() bool { return r.Uint8() != 0 }

func (w *writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (r *reader) Uint8() uint8 {
	b := r.tmp[:1]
	r.fill(b)
	return b[0]
}

func (w *writer) Uint8(v uint8) {
	w.tmp[0] = v
	w.Data(w.tmp[:1])
}

func (r *reader) Uint16() uint16 {
	b := r.tmp[:2]
	r.fill(b)
	return r.byteOrder.Uint16(b)
}

func (w *writer) Uint16(v uint16) {
	w.byteOrder.PutUint16(w.tmp[:2], v)
	w.Data(w.tmp[:2])
}

func (r *reader) Uint32() uint32 {
	b := r.tmp[:4]
	r.fill(b)
	return r.byteOrder.Uint32(b)
}

func (w *writer) Uint32(v uint32) {
	w.byteOrder.PutUint32(w.tmp[:4], v)
	w.Data(w.tmp[:4])
}

func (r *reader) Uint64() uint64 {
	b := r.tmp[:8]
	r.fill(b)
	return r.byteOrder.Uint64(b)
}

func (w *writer) Uint64(v uint64) {
	w.byteOrder.PutUint64(w.tmp[:8], v)
	w.Data(w.tmp[:8])
}

func (r *reader) Int64() int64 { return int64(r.Uint64()) }

func (w *writer) Int64(v int64) { w.Uint64(uint64(v)) }

func (r *reader) Float32() float32 { return math.Float32frombits(r.Uint32()) }

func (w *writer) Float32(v float32) { w.Uint32(math.Float32bits(v)) }

func (r *reader) Float64() float64 { return math.Float64frombits(r.Uint64()) }

func (w *writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }

func (r *reader) Error() error { return r.err }

func (w *writer) Error() error { return w.err }

func (r *reader) SetError(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (w *writer) SetError(err error) {
	if w.err == nil {
		w.err = err
	}
}
