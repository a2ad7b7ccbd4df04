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

package memory

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// AlignUp returns v rounded up to the next multiple of alignment.
// alignment must be non-zero.
func AlignUp[T constraints.Unsigned](v, alignment T) T {
	if alignment == 0 {
		panic(fmt.Errorf("Alignment must be non-zero"))
	}
	if r := v % alignment; r != 0 {
		aligned := v + (alignment - r)
		if aligned < v {
			panic(fmt.Errorf("Aligning 0x%x to %d overflows", v, alignment))
		}
		return aligned
	}
	return v
}

// StackAllocator is a bump allocator over an abstract address space.
// Allocations are never freed; head and alignment only grow.
// The zero value is an empty allocator starting at address 0.
type StackAllocator[T constraints.Unsigned] struct {
	head      T
	alignment T
}

// Alloc returns the address of a new block of size bytes aligned to
// alignment. It panics if alignment is zero or the address space is
// exhausted.
func (a *StackAllocator[T]) Alloc(size, alignment T) T {
	base := AlignUp(a.head, alignment)
	head := base + size
	if head < base {
		panic(fmt.Errorf("Allocating 0x%x bytes at 0x%x overflows", size, base))
	}
	a.head = head
	if alignment > a.alignment {
		a.alignment = alignment
	}
	return base
}

// Size returns the number of bytes consumed, including alignment padding.
func (a *StackAllocator[T]) Size() T { return a.head }

// Alignment returns the strictest alignment requested, or 1 if nothing has
// been allocated.
func (a *StackAllocator[T]) Alignment() T {
	if a.alignment == 0 {
		return 1
	}
	return a.alignment
}
