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

package log

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// V is a list of key-value pairs that can be attached to the context.
type V map[string]interface{}

// Bind returns a new context with the values in v attached to the logger.
// Every message logged with the returned context carries the values.
func (v V) Bind(ctx context.Context) context.Context {
	if len(v) == 0 {
		return ctx
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]zap.Field, len(keys))
	for i, k := range keys {
		fields[i] = zap.Any(k, v[k])
	}
	l := From(ctx)
	return put(ctx, l.with(l.z.With(fields...)))
}

// Enter returns a new context with name appended to the trace chain of the
// logger.
func Enter(ctx context.Context, name string) context.Context {
	l := From(ctx)
	return put(ctx, l.with(l.z.Named(name)))
}
