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

// Package fault holds the error primitives shared by the replay tooling.
package fault

import "fmt"

// Const is the type for constant error values.
// They can be declared as const, and compared directly.
type Const string

func (e Const) Error() string { return string(e) }

// InvalidErrorType is returned by From for values it cannot express.
const InvalidErrorType = Const("Invalid type for error")

// From converts a value recovered from a panic to an error.
// Errors pass through unchanged, strings and Stringers are wrapped, and
// anything else is reported as InvalidErrorType.
func From(value interface{}) error {
	switch err := value.(type) {
	case nil:
		return nil
	case error:
		return err
	case string:
		return Const(err)
	case fmt.Stringer:
		return Const(err.String())
	default:
		return InvalidErrorType
	}
}
