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
	"iter"

	"github.com/google/gapid-sub000/core/math/interval"
)

// Reservation is a reserved range together with the strictest alignment
// requested for any part of it.
type Reservation struct {
	Range
	Alignment uint64
}

// RangeList is the ordered set of reservations of a single namespace.
// Reservations that overlap or touch are merged into one, keeping the larger
// alignment.
type RangeList struct {
	list *interval.List[uint64, uint64]
}

// NewRangeList returns an empty RangeList.
func NewRangeList() *RangeList {
	l := interval.NewList[uint64, uint64](func(a, b uint64) uint64 { return max(a, b) })
	l.SetMergeThreshold(1)
	return &RangeList{list: l}
}

// Reserve adds rng with the given alignment, returning the index of the
// reservation that now covers it. Empty ranges are ignored and return -1.
func (l *RangeList) Reserve(rng Range, alignment uint64) int {
	if rng.Size == 0 {
		return -1
	}
	return l.list.Merge(rng.Span(), alignment)
}

// Count returns the number of reservations.
func (l *RangeList) Count() int { return l.list.Count() }

// At returns the reservation at index i.
func (l *RangeList) At(i int) Reservation {
	v := l.list.At(i)
	return Reservation{Range: RangeOf(v.Span), Alignment: v.Value}
}

// IndexOf returns the index of the reservation that contains addr.
func (l *RangeList) IndexOf(addr uint64) (int, bool) { return l.list.IndexOf(addr) }

// All iterates over the reservations in ascending address order.
func (l *RangeList) All() iter.Seq2[int, Reservation] {
	return func(yield func(int, Reservation) bool) {
		for i, v := range l.list.All() {
			if !yield(i, Reservation{Range: RangeOf(v.Span), Alignment: v.Value}) {
				return
			}
		}
	}
}

func (l *RangeList) String() string { return l.list.String() }
