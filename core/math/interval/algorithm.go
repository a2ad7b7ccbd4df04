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

package interval

import (
	"sort"

	"golang.org/x/exp/slices"
)

// rangeFirst returns the index of the first interval whose end lies within
// distance t of v (or past it). Distances are tested without adding to the
// bounds so values near the top of T cannot wrap.
//
// t == 0 finds the first interval with End > v.
func (l *List[T, V]) rangeFirst(v, t T) int {
	return sort.Search(len(l.intervals), func(i int) bool {
		end := l.intervals[i].End
		return end > v || v-end < t
	})
}

// rangeLast returns one past the index of the last interval whose start lies
// within distance t of v (or before it).
//
// t == 0 finds one past the last interval with Start < v.
func (l *List[T, V]) rangeLast(v, t T) int {
	return sort.Search(len(l.intervals), func(i int) bool {
		start := l.intervals[i].Start
		return !(start < v || start-v < t)
	})
}

// window returns the index range [first, after) of the intervals touched by
// span with the edge tolerance t.
func (l *List[T, V]) window(span Span[T], t T) (first, after int) {
	first = l.rangeFirst(span.Start, t)
	after = l.rangeLast(span.End, t)
	if after < first {
		after = first
	}
	return first, after
}

// Intersect returns, in ascending order, every interval that overlaps span.
// The returned slice aliases the list and is only valid until the list is
// next modified.
func (l *List[T, V]) Intersect(span Span[T]) []Interval[T, V] {
	span.check()
	if span.Start == span.End {
		return nil
	}
	first, after := l.window(span, 0)
	return l.intervals[first:after]
}

// IndexOf returns the index of the interval that contains v.
func (l *List[T, V]) IndexOf(v T) (int, bool) {
	i := sort.Search(len(l.intervals), func(i int) bool {
		return v < l.intervals[i].Start
	}) - 1
	if i >= 0 && v < l.intervals[i].End {
		return i, true
	}
	return -1, false
}

// Merge adds span to the list, coalescing it with every interval within the
// merge threshold of its edges. The merged interval covers the union of all
// the coalesced spans. Merge returns the index of the merged interval.
func (l *List[T, V]) Merge(span Span[T], value V) int {
	span.check()
	first, after := l.window(span, l.threshold)
	for _, o := range l.intervals[first:after] {
		if o.Start < span.Start {
			span.Start = o.Start
		}
		if o.End > span.End {
			span.End = o.End
		}
		if l.join != nil {
			value = l.join(value, o.Value)
		}
	}
	l.intervals = slices.Replace(l.intervals, first, after, Interval[T, V]{span, value})
	return first
}

// Replace adds span to the list, overwriting anything the list held in that
// range. Partially covered intervals are trimmed, fully covered intervals are
// removed and an interval that strictly contains span is split in two.
// Replace returns the index of the new interval.
func (l *List[T, V]) Replace(span Span[T], value V) int {
	return l.cut(span, &Interval[T, V]{span, value})
}

// Remove removes span from the list, trimming or splitting any intervals that
// it overlaps.
func (l *List[T, V]) Remove(span Span[T]) {
	l.cut(span, nil)
}

// cut slices a hole matching span from the list, putting add in the hole if it
// is not nil. It returns the index of the hole.
func (l *List[T, V]) cut(span Span[T], add *Interval[T, V]) int {
	span.check()
	first, after := l.window(span, 0)
	pieces := make([]Interval[T, V], 0, 3)
	at := first
	if first < after {
		if low := l.intervals[first]; low.Start < span.Start {
			low.End = span.Start
			pieces = append(pieces, low)
			at++
		}
	}
	if add != nil {
		pieces = append(pieces, *add)
	}
	if first < after {
		if high := l.intervals[after-1]; span.End < high.End {
			high.Start = span.End
			pieces = append(pieces, high)
		}
	}
	l.intervals = slices.Replace(l.intervals, first, after, pieces...)
	return at
}
