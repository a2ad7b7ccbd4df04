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

// Package interval provides a sorted list of non-overlapping intervals with
// merge, replace and lookup operations.
package interval

import (
	"fmt"
	"iter"

	"golang.org/x/exp/constraints"
)

// Span is a half open interval that includes the lower bound, but not the
// upper.
type Span[T constraints.Integer] struct {
	Start T // the value at which the interval begins
	End   T // the next value not included in the interval.
}

// Size returns the number of values covered by the span.
func (s Span[T]) Size() T { return s.End - s.Start }

// Contains returns true if v lies within the span.
func (s Span[T]) Contains(v T) bool { return s.Start <= v && v < s.End }

func (s Span[T]) String() string { return fmt.Sprintf("[0x%x-0x%x)", s.Start, s.End) }

func (s Span[T]) check() {
	if s.Start > s.End {
		panic(fmt.Errorf("Invalid span %v: start is after end", s))
	}
}

// Interval is a Span with an attached value.
type Interval[T constraints.Integer, V any] struct {
	Span[T]
	Value V
}

// JoinFunc combines the values of two intervals that are being merged into
// one.
type JoinFunc[V any] func(a, b V) V

// List is an ascending, non-overlapping list of intervals.
//
// The zero value is an empty list with a merge threshold of 0. When Merge
// absorbs existing intervals and no JoinFunc is set, the merged interval takes
// the value passed to Merge.
type List[T constraints.Integer, V any] struct {
	intervals []Interval[T, V]
	threshold T
	join      JoinFunc[V]
}

// NewList returns a new, empty list that combines the values of merged
// intervals with join.
func NewList[T constraints.Integer, V any](join JoinFunc[V]) *List[T, V] {
	return &List[T, V]{join: join}
}

// SetMergeThreshold sets the edge distance tolerance used by Merge.
//
//	0 requires the intervals to overlap.
//	1 also merges intervals that touch.
//	k also merges intervals separated by a gap smaller than k.
func (l *List[T, V]) SetMergeThreshold(t T) {
	if t < 0 {
		panic(fmt.Errorf("Merge threshold must not be negative. Got: %v", t))
	}
	l.threshold = t
}

// MergeThreshold returns the threshold set with SetMergeThreshold.
func (l *List[T, V]) MergeThreshold() T { return l.threshold }

// Count returns the number of intervals in the list.
func (l *List[T, V]) Count() int { return len(l.intervals) }

// At returns the interval at index i.
func (l *List[T, V]) At(i int) Interval[T, V] { return l.intervals[i] }

// Clear removes all the intervals from the list. The merge threshold is kept.
func (l *List[T, V]) Clear() { l.intervals = l.intervals[:0] }

// All iterates over the intervals in ascending order.
func (l *List[T, V]) All() iter.Seq2[int, Interval[T, V]] {
	return func(yield func(int, Interval[T, V]) bool) {
		for i, v := range l.intervals {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Spans returns a copy of the spans held by the list.
func (l *List[T, V]) Spans() []Span[T] {
	out := make([]Span[T], len(l.intervals))
	for i, v := range l.intervals {
		out[i] = v.Span
	}
	return out
}

func (l *List[T, V]) String() string {
	return fmt.Sprint(l.Spans())
}
