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

// Package memory holds the replay memory ranges and the layout allocator.
package memory

import (
	"fmt"

	"github.com/google/gapid-sub000/core/math/interval"
)

// Range represents a region of memory.
type Range struct {
	Base uint64 // The address of the first byte in the memory range.
	Size uint64 // The size in bytes of the memory range.
}

// RangeOf returns the Range covering span.
func RangeOf(span interval.Span[uint64]) Range {
	return Range{Base: span.Start, Size: span.Size()}
}

// Contains returns true if the address addr is within the Range.
func (i Range) Contains(addr uint64) bool {
	return i.Base <= addr && addr < i.End()
}

// Overlaps returns true if other overlaps this memory range.
func (i Range) Overlaps(other Range) bool {
	return i.Base < other.End() && other.Base < i.End()
}

// First returns the address of the first byte in the Range.
func (i Range) First() uint64 {
	return i.Base
}

// Last returns the address of the last byte in the Range.
func (i Range) Last() uint64 {
	return i.Base + i.Size - 1
}

// End returns the address of one byte beyond the end of the Range.
func (i Range) End() uint64 {
	return i.Base + i.Size
}

// Wraps returns true if the Range extends past the end of the 64-bit address
// space.
func (i Range) Wraps() bool {
	return i.Base+i.Size < i.Base
}

// Span returns the Range as an interval span.
func (i Range) Span() interval.Span[uint64] {
	return interval.Span[uint64]{Start: i.Base, End: i.End()}
}

func (i Range) String() string {
	return fmt.Sprintf("[0x%.16x-0x%.16x]", i.First(), i.Last())
}
