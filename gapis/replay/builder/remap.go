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

package builder

import (
	"context"
	"fmt"

	"github.com/google/gapid-sub000/gapis/replay/value"
	"github.com/pkg/errors"
)

// RemapFunc returns the remap key for the captured value v.
type RemapFunc func(ctx context.Context, v value.Value) RemapKey

type remapID struct {
	api      uint8
	typeName string
}

func (r remapID) String() string { return fmt.Sprintf("%d:%s", r.api, r.typeName) }

// RemapRegistry holds the remap functions of the types whose values are only
// known at replay time, such as driver generated handles. A registry is
// passed to each Builder so independent builds do not share state.
type RemapRegistry struct {
	funcs map[remapID]RemapFunc
}

// NewRemapRegistry returns an empty registry.
func NewRemapRegistry() *RemapRegistry {
	return &RemapRegistry{funcs: map[remapID]RemapFunc{}}
}

// Register adds the remap function for the named type of the API with index
// api. Registering a type twice is an error.
func (r *RemapRegistry) Register(api uint8, typeName string, f RemapFunc) error {
	key := remapID{api, typeName}
	if _, dup := r.funcs[key]; dup {
		return errors.Errorf("Remap function for %v already registered", key)
	}
	r.funcs[key] = f
	return nil
}

// Key returns the remap key of v for the named type. It returns false if the
// type has no remap function or r is nil.
func (r *RemapRegistry) Key(ctx context.Context, api uint8, typeName string, v value.Value) (RemapKey, bool) {
	if r == nil {
		return 0, false
	}
	f, ok := r.funcs[remapID{api, typeName}]
	if !ok {
		return 0, false
	}
	return f(ctx, v), true
}

// Count returns the number of registered remap functions.
func (r *RemapRegistry) Count() int {
	if r == nil {
		return 0
	}
	return len(r.funcs)
}
