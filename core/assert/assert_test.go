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

package assert_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	pkgerrors "github.com/pkg/errors"
)

// recorder is an assert.Output that remembers the last failure level.
type recorder struct {
	fatal, errors, logs int
	last               string
}

func (r *recorder) Fatal(args ...interface{}) { r.fatal++; r.last = fmt.Sprint(args...) }
func (r *recorder) Error(args ...interface{}) { r.errors++; r.last = fmt.Sprint(args...) }
func (r *recorder) Log(args ...interface{})   { r.logs++; r.last = fmt.Sprint(args...) }

type point struct {
	x, y int
}

func TestPassingAssertionsAreSilent(t *testing.T) {
	r := &recorder{}
	a := assert.To(r)
	a.For("value").That(3).Equals(3)
	a.For("not").That(3).NotEquals(4)
	a.For("nil").That((*point)(nil)).IsNil()
	a.For("deep").That(&point{1, 2}).DeepEquals(&point{1, 2})
	a.For("int").ThatInteger(10).IsBetween(5, 10)
	a.For("bool").ThatBoolean(true).IsTrue()
	a.For("slice").ThatSlice([]int{1, 2}).Equals([]int{1, 2})
	a.For("empty").ThatSlice([]string{}).IsEmpty()
	a.For("length").ThatSlice([]byte{1, 2, 3}).IsLength(3)
	a.For("err").ThatError(nil).Succeeded()
	if r.errors != 0 || r.fatal != 0 {
		t.Errorf("Unexpected failure: %v", r.last)
	}
}

func TestFailingAssertionsReport(t *testing.T) {
	r := &recorder{}
	a := assert.To(r)
	if a.For("value").That(3).Equals(4) {
		t.Error("Equals passed on different values")
	}
	if a.For("slice").ThatSlice([]int{1, 2}).Equals([]int{1, 3}) {
		t.Error("slice Equals passed on different slices")
	}
	if a.For("deep").That(point{1, 2}).DeepEquals(point{1, 3}) {
		t.Error("DeepEquals passed on different structs")
	}
	if r.errors != 3 {
		t.Errorf("Expected 3 errors, got %d", r.errors)
	}
	if !strings.Contains(r.last, "Diff") {
		t.Errorf("Expected a diff in the output, got %v", r.last)
	}
	a.For("critical").Critical().ThatBoolean(false).IsTrue()
	if r.fatal != 1 {
		t.Errorf("Expected a fatal report, got %d", r.fatal)
	}
}

func TestErrorCauses(t *testing.T) {
	r := &recorder{}
	a := assert.To(r)
	base := errors.New("base")
	a.For("pkg").ThatError(pkgerrors.Wrap(base, "outer")).HasCause(base)
	a.For("std").ThatError(fmt.Errorf("outer: %w", base)).HasCause(base)
	a.For("message").ThatError(base).HasMessage("base")
	if r.errors != 0 {
		t.Errorf("Unexpected failure: %v", r.last)
	}
	a.For("nil message").ThatError(nil).HasMessage("base")
	a.For("failed").ThatError(nil).Failed()
	if r.errors != 2 {
		t.Errorf("Expected 2 errors, got %d", r.errors)
	}
}
