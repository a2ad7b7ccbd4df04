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
	"context"
	"fmt"
	"io"

	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/data/endian"
	"github.com/google/gapid-sub000/core/fault"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/google/gapid-sub000/gapis/replay/value"
	"github.com/pkg/errors"
)

// ErrUnknownInstruction is returned when a stream record has an unknown tag.
const ErrUnknownInstruction = fault.Const("Unknown instruction")

// StreamEndian is the byte order of instruction streams. Streams are produced
// and consumed on the host, so their order does not follow the replay device.
const StreamEndian = device.LittleEndian

// Tag identifies the kind of an instruction record in a stream.
// Each record is the tag byte followed by the fixed size payload of the kind.
type Tag uint8

const (
	TagCall Tag = iota
	TagPush
	TagPop
	TagCopy
	TagClone
	TagLoad
	TagStore
	TagStrcpy
	TagResource
	TagPost
	TagAdd
	TagLabel
	TagSwitchThread
)

var tagNames = [...]string{
	"Call", "Push", "Pop", "Copy", "Clone", "Load", "Store",
	"Strcpy", "Resource", "Post", "Add", "Label", "SwitchThread",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag<%d>", uint8(t))
}

func (Call) Tag() Tag         { return TagCall }
func (Push) Tag() Tag         { return TagPush }
func (Pop) Tag() Tag          { return TagPop }
func (Copy) Tag() Tag         { return TagCopy }
func (Clone) Tag() Tag        { return TagClone }
func (Load) Tag() Tag         { return TagLoad }
func (Store) Tag() Tag        { return TagStore }
func (Strcpy) Tag() Tag       { return TagStrcpy }
func (Resource) Tag() Tag     { return TagResource }
func (Post) Tag() Tag         { return TagPost }
func (Add) Tag() Tag          { return TagAdd }
func (Label) Tag() Tag        { return TagLabel }
func (SwitchThread) Tag() Tag { return TagSwitchThread }

func writeValue(w binary.Writer, v value.Value) {
	w.Uint64(v.Data)
	w.Uint32(uint32(v.Type))
}

func readValue(r binary.Reader) value.Value {
	return value.Value{Data: r.Uint64(), Type: value.Type(r.Uint32())}
}

func (a Call) write(w binary.Writer) {
	w.Bool(a.PushReturn)
	w.Uint8(a.ApiIndex)
	w.Uint16(a.FunctionID)
}
func (a Push) write(w binary.Writer)   { writeValue(w, a.Value) }
func (a Pop) write(w binary.Writer)    { w.Uint32(a.Count) }
func (a Copy) write(w binary.Writer)   { w.Uint64(a.Count) }
func (a Clone) write(w binary.Writer)  { w.Uint32(a.Index) }
func (a Store) write(w binary.Writer)  { writeValue(w, a.Destination) }
func (a Strcpy) write(w binary.Writer) { w.Uint64(a.MaxCount) }
func (a Add) write(w binary.Writer)    { w.Uint32(a.Count) }
func (a Label) write(w binary.Writer)  { w.Uint32(a.Value) }

func (a Load) write(w binary.Writer) {
	w.Uint32(uint32(a.DataType))
	writeValue(w, a.Source)
}

func (a Resource) write(w binary.Writer) {
	w.Uint32(a.Index)
	writeValue(w, a.Destination)
}

func (a Post) write(w binary.Writer) {
	writeValue(w, a.Source)
	w.Uint64(a.Size)
}

func (a SwitchThread) write(w binary.Writer) { w.Uint32(a.Index) }

// Write appends the records of the instructions to w.
func Write(w binary.Writer, instructions ...Instruction) error {
	for _, i := range instructions {
		w.Uint8(uint8(i.Tag()))
		i.write(w)
	}
	return w.Error()
}

// Decode reads the next instruction record from r.
// Decode returns io.EOF if the stream ends before the record starts and
// io.ErrUnexpectedEOF if it ends part way through the record.
func Decode(r binary.Reader) (Instruction, error) {
	tag := Tag(r.Uint8())
	if err := r.Error(); err != nil {
		return nil, err
	}
	var out Instruction
	switch tag {
	case TagCall:
		out = Call{PushReturn: r.Bool(), ApiIndex: r.Uint8(), FunctionID: r.Uint16()}
	case TagPush:
		out = Push{Value: readValue(r)}
	case TagPop:
		out = Pop{Count: r.Uint32()}
	case TagCopy:
		out = Copy{Count: r.Uint64()}
	case TagClone:
		out = Clone{Index: r.Uint32()}
	case TagLoad:
		out = Load{DataType: protocol.Type(r.Uint32()), Source: readValue(r)}
	case TagStore:
		out = Store{Destination: readValue(r)}
	case TagStrcpy:
		out = Strcpy{MaxCount: r.Uint64()}
	case TagResource:
		out = Resource{Index: r.Uint32(), Destination: readValue(r)}
	case TagPost:
		out = Post{Source: readValue(r), Size: r.Uint64()}
	case TagAdd:
		out = Add{Count: r.Uint32()}
	case TagLabel:
		out = Label{Value: r.Uint32()}
	case TagSwitchThread:
		out = SwitchThread{Index: r.Uint32()}
	default:
		return nil, errors.Wrapf(ErrUnknownInstruction, "%v", tag)
	}
	switch err := r.Error(); err {
	case nil:
		return out, nil
	case io.EOF:
		return nil, io.ErrUnexpectedEOF
	default:
		return nil, err
	}
}

// Reader returns a binary.Reader for the instruction stream s.
func Reader(s io.Reader) binary.Reader { return endian.Reader(s, StreamEndian) }

// Writer returns a binary.Writer for the instruction stream s.
func Writer(s io.Writer) binary.Writer { return endian.Writer(s, StreamEndian) }

// ReadAll decodes every instruction of the stream s. A truncated trailing
// record ends the stream: it is logged and the instructions before it are
// returned without error.
func ReadAll(ctx context.Context, s io.Reader) ([]Instruction, error) {
	r := Reader(s)
	out := []Instruction{}
	for {
		i, err := Decode(r)
		switch err {
		case nil:
			out = append(out, i)
		case io.EOF:
			return out, nil
		case io.ErrUnexpectedEOF:
			log.W(ctx, "Instruction stream truncated after %d instructions", len(out))
			return out, nil
		default:
			return nil, errors.Wrapf(err, "Instruction %d", len(out))
		}
	}
}
