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

package protocol

import (
	"github.com/google/gapid-sub000/core/data/binary"
	"github.com/google/gapid-sub000/core/data/id"
	"github.com/google/gapid-sub000/core/fault"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrMalformedPayload is returned when a payload cannot be decoded.
const ErrMalformedPayload = fault.Const("Malformed payload")

// ResourceInfo describes a resource the replay virtual machine loads by
// index.
type ResourceInfo struct {
	ID   id.ID  // The content identifier of the resource data.
	Size uint32 // The size of the resource data in bytes.
}

// ResourceInfoSize is the size in bytes of the fixed ResourceInfo record.
const ResourceInfoSize = id.Size + 4

// Payload is everything the replay virtual machine needs to run a replay.
//
// On the wire it is the protobuf message:
//
//	message Payload {
//	  uint32 stack_size = 1;
//	  uint32 volatile_memory_size = 2;
//	  bytes constants = 3;
//	  repeated ResourceInfo resources = 4;
//	  bytes opcodes = 5;
//	}
//	message ResourceInfo {
//	  bytes id = 1;
//	  uint32 size = 2;
//	}
type Payload struct {
	StackSize          uint32
	VolatileMemorySize uint32
	Constants          []byte
	Resources          []ResourceInfo
	Opcodes            []byte
}

const (
	payloadStackSize          protowire.Number = 1
	payloadVolatileMemorySize protowire.Number = 2
	payloadConstants          protowire.Number = 3
	payloadResources          protowire.Number = 4
	payloadOpcodes            protowire.Number = 5

	resourceID   protowire.Number = 1
	resourceSize protowire.Number = 2
)

// Marshal encodes the payload in protobuf wire format.
func (p *Payload) Marshal() []byte {
	var b []byte
	b = appendVarint(b, payloadStackSize, uint64(p.StackSize))
	b = appendVarint(b, payloadVolatileMemorySize, uint64(p.VolatileMemorySize))
	b = appendBytes(b, payloadConstants, p.Constants)
	for _, r := range p.Resources {
		var m []byte
		m = appendBytes(m, resourceID, r.ID[:])
		m = appendVarint(m, resourceSize, uint64(r.Size))
		b = protowire.AppendTag(b, payloadResources, protowire.BytesType)
		b = protowire.AppendBytes(b, m)
	}
	b = appendBytes(b, payloadOpcodes, p.Opcodes)
	return b
}

// Unmarshal decodes a payload encoded with Marshal. Unknown fields are
// skipped.
func (p *Payload) Unmarshal(b []byte) error {
	*p = Payload{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == payloadStackSize && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			p.StackSize = uint32(v)
			return n, nil
		case num == payloadVolatileMemorySize && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			p.VolatileMemorySize = uint32(v)
			return n, nil
		case num == payloadConstants && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			p.Constants = append([]byte{}, v...)
			return n, nil
		case num == payloadOpcodes && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			p.Opcodes = append([]byte{}, v...)
			return n, nil
		case num == payloadResources && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			r := ResourceInfo{}
			if err := r.unmarshal(v); err != nil {
				return 0, err
			}
			p.Resources = append(p.Resources, r)
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
}

func (r *ResourceInfo) unmarshal(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == resourceID && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			if len(v) != id.Size {
				return 0, errors.Wrapf(ErrMalformedPayload, "Resource id has %d bytes", len(v))
			}
			copy(r.ID[:], v)
			return n, nil
		case num == resourceSize && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			r.Size = uint32(v)
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
}

type fieldFunc func(num protowire.Number, typ protowire.Type, b []byte) (int, error)

func consumeFields(b []byte, f fieldFunc) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrMalformedPayload, protowire.ParseError(n).Error())
		}
		b = b[n:]
		n, err := f(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return errors.Wrapf(ErrMalformedPayload, "Field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// WriteResources writes the resources as a flat array of fixed size
// records: the 20 byte content id followed by the 32 bit size.
func WriteResources(w binary.Writer, resources []ResourceInfo) error {
	for _, r := range resources {
		w.Data(r.ID[:])
		w.Uint32(r.Size)
	}
	return w.Error()
}

// ReadResources reads count records written by WriteResources.
func ReadResources(r binary.Reader, count int) ([]ResourceInfo, error) {
	out := make([]ResourceInfo, count)
	for i := range out {
		r.Data(out[i].ID[:])
		out[i].Size = r.Uint32()
	}
	if err := r.Error(); err != nil {
		return nil, err
	}
	return out, nil
}
