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

package device_test

import (
	"testing"

	"github.com/google/gapid-sub000/core/assert"
	"github.com/google/gapid-sub000/core/log"
	"github.com/google/gapid-sub000/core/os/device"
)

func TestArchitectureByName(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name    string
		arch    device.Architecture
		pointer uint32
		bitness int
	}{
		{"amd64", device.X86_64, 8, 64},
		{"386", device.X86, 4, 32},
		{"arm", device.ARMv7a, 4, 32},
		{"ARMv8a", device.ARMv8a, 8, 64},
		{"x86_64", device.X86_64, 8, 64},
	} {
		ctx := log.Enter(ctx, test.name)
		arch := device.ArchitectureByName(test.name)
		assert.For(ctx, "arch").That(arch).Equals(test.arch)
		assert.For(ctx, "bitness").ThatInteger(arch.Bitness()).Equals(test.bitness)
		assert.For(ctx, "pointer").That(arch.MemoryLayout().Pointer.Size).Equals(test.pointer)
	}
	assert.For(ctx, "unknown").That(device.ArchitectureByName("z80")).Equals(device.UnknownArchitecture)
}

func TestMemoryLayoutString(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		layout *device.MemoryLayout
		result string
	}{
		{
			device.ARMv7a.MemoryLayout(),
			"PointerAlignment:4 PointerSize:4 U64Alignment:8 Endian:LittleEndian",
		},
		{
			device.X86.MemoryLayout(),
			"PointerAlignment:4 PointerSize:4 U64Alignment:4 Endian:LittleEndian",
		},
	} {
		assert.For(ctx, "layout").That(test.layout.String()).Equals(test.result)
	}
}
