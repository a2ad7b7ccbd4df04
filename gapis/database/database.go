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

// Package database implements the content addressed store that holds
// resource data referenced by replay payloads.
package database

import (
	"context"

	"github.com/google/gapid-sub000/core/data/id"
	"github.com/google/gapid-sub000/core/fault"
)

// ErrNotFound is returned by Resolve when no data is stored for an id.
const ErrNotFound = fault.Const("Resource not found")

// Database is the interface to a resource store.
type Database interface {
	// Store adds data to the database, returning the id derived from its
	// content. Storing the same data twice returns the same id.
	Store(ctx context.Context, data []byte) (id.ID, error)
	// Resolve returns the data stored with the given id.
	Resolve(ctx context.Context, id id.ID) ([]byte, error)
	// Contains returns true if the database has an entry for the specified id.
	Contains(ctx context.Context, id id.ID) bool
}

type databaseKeyTy string

const databaseKey = databaseKeyTy("database")

// Get returns the Database attached to the given context.
func Get(ctx context.Context) Database {
	if val := ctx.Value(databaseKey); val != nil {
		return val.(Database)
	}
	panic("database missing from context")
}

// Put amends a Context by attaching a Database reference to it.
func Put(ctx context.Context, d Database) context.Context {
	if val := ctx.Value(databaseKey); val != nil {
		panic("Context already holds database")
	}
	return context.WithValue(ctx, databaseKey, d)
}

// Store is a helper that stores data to the database held by the context.
func Store(ctx context.Context, data []byte) (id.ID, error) {
	return Get(ctx).Store(ctx, data)
}

// Resolve is a helper that resolves id with the database held by the context.
func Resolve(ctx context.Context, id id.ID) ([]byte, error) {
	return Get(ctx).Resolve(ctx, id)
}
