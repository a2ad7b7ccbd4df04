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

package device

import (
	"fmt"
	"strings"
)

// Architecture is a target CPU architecture.
type Architecture int

const (
	UnknownArchitecture Architecture = iota
	ARMv7a
	ARMv8a
	X86
	X86_64
)

var architectureNames = map[Architecture]string{
	UnknownArchitecture: "UnknownArchitecture",
	ARMv7a:              "ARMv7a",
	ARMv8a:              "ARMv8a",
	X86:                 "X86",
	X86_64:              "X86_64",
}

func (a Architecture) String() string {
	if n, ok := architectureNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Architecture<%d>", int(a))
}

// Bitness returns the natural bit width of the architecture.
// https://en.wiktionary.org/wiki/bitness
func (a Architecture) Bitness() int {
	switch a {
	case ARMv7a, X86:
		return 32
	case ARMv8a, X86_64:
		return 64
	default:
		return 0
	}
}

// MemoryLayout returns the memory layout of the architecture's default ABI,
// or nil for an unknown architecture.
func (a Architecture) MemoryLayout() *MemoryLayout {
	switch a {
	case ARMv7a:
		return ARMv7aLayout
	case ARMv8a:
		return ARM64v8aLayout
	case X86:
		return X86IA32Layout
	case X86_64:
		return X86_64Layout
	default:
		return nil
	}
}

var architectureByName = map[string]Architecture{
	// possible values of runtime.GOARCH
	"386":   X86,
	"amd64": X86_64,
	"arm":   ARMv7a,
	"arm64": ARMv8a,
}

// ArchitectureByName returns the Architecture for the supplied human name.
// There is no guarantee that ArchitectureByName(name).String() == name, as multiple human names map to the same
// canonical Architecture.
// If the architecture name is not know, it returns UnknownArchitecture
func ArchitectureByName(name string) Architecture {
	if arch, ok := architectureByName[name]; ok {
		return arch
	}
	// fallback to enum name
	for arch, n := range architectureNames {
		if strings.EqualFold(n, name) {
			return arch
		}
	}
	return UnknownArchitecture
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Architecture) UnmarshalText(text []byte) error {
	arch := ArchitectureByName(string(text))
	if arch == UnknownArchitecture {
		return fmt.Errorf("Unknown architecture %q", string(text))
	}
	*a = arch
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Architecture) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
