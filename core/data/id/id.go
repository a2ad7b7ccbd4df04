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

// Package id provides content derived identifiers for resources, constant
// blocks and stored payloads.
package id

import (
	"encoding/hex"
	"fmt"
)

// Size is the size of an ID.
const Size = 20

// ID is a codeable unique identifier.
type ID [Size]byte

// IsValid returns true if the id is not the default value.
func (id ID) IsValid() bool {
	return id != ID{}
}

// Format writes the ID as lowercase hex for any verb.
func (id ID) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%x", id[:])
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Parse parses lowercase string s as a 20 byte hex-encoded ID.
func (id *ID) Parse(s string) error {
	bytes, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(bytes) != Size {
		return fmt.Errorf("Invalid ID size: got %d, expected %d", len(bytes), Size)
	}
	copy((*id)[:], bytes)
	return nil
}

// Parse parses lowercase string s as a 20 byte hex-encoded ID.
func Parse(s string) (ID, error) {
	id := ID{}
	return id, id.Parse(s)
}

// MarshalText encodes the ID as hex. Both the JSON and YAML encoders use it.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex encoded ID.
func (id *ID) UnmarshalText(data []byte) error {
	return id.Parse(string(data))
}
