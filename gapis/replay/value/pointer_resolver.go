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

package value

import "context"

// PointerResolver is used to translate observed pointers into the volatile
// address-space.
type PointerResolver interface {
	// Remap returns v with any observed pointer translated to a virtual
	// machine address space. Values that are not observed pointers are
	// returned unchanged.
	Remap(ctx context.Context, v Value) Value
}
