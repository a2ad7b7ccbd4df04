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

package value_test

import (
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/gapis/replay/protocol"
	"github.com/google/gapid-sub000/gapis/replay/value"
)

func TestNamespaces(t *testing.T) {
	ctx := log.Testing(t)
	p := value.ObservedPtr(3, 0x1000)
	ns, ok := p.Type.Namespace()
	assert.For(ctx, "observed").ThatBoolean(ok).IsTrue()
	assert.For(ctx, "namespace").That(ns).Equals(value.Namespace(3))
	assert.For(ctx, "type").That(p.Type).Equals(value.ObservedPointerNamespace0 + 3)
	assert.For(ctx, "pointer").ThatBoolean(p.IsPointer()).IsTrue()
	assert.For(ctx, "string").That(p.String()).Equals("ObservedPointer<3>(0x1000)")

	_, ok = value.Uint32.Namespace()
	assert.For(ctx, "not observed").ThatBoolean(ok).IsFalse()
	assert.For(ctx, "valid").ThatBoolean(value.Type(14).Valid()).IsFalse()
}

func TestProtocolTypes(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "volatile").That(value.VolatilePtr(4).Type.Protocol()).Equals(protocol.Type_VolatilePointer)
	assert.For(ctx, "double").That(value.F64(1).Type.Protocol()).Equals(protocol.Type_Double)
	defer func() {
		assert.For(ctx, "observed has no protocol type").That(recover()).IsNotNil()
	}()
	value.ObservedPtr(0, 0).Type.Protocol()
}

func TestSigned(t *testing.T) {
	ctx := log.Testing(t)
	assert.For(ctx, "s8").That(value.S8(-1)).Equals(value.Value{Data: 0xff, Type: value.Int8})
	assert.For(ctx, "s8 signed").That(value.S8(-1).Signed()).Equals(int64(-1))
	assert.For(ctx, "s16 signed").That(value.S16(-300).Signed()).Equals(int64(-300))
	assert.For(ctx, "s32 signed").That(value.S32(-70000).Signed()).Equals(int64(-70000))
	assert.For(ctx, "s64").That(value.S64(-5).Data).Equals(uint64(0xfffffffffffffffb))
	assert.For(ctx, "string").That(value.S32(-7).String()).Equals("Int32(-7)")
	assert.For(ctx, "float").That(value.F32(1.5).String()).Equals("Float(1.5)")
	assert.For(ctx, "bool").That(value.B(true).String()).Equals("true")
}
