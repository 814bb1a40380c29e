// Copyright 2025 Truby AI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store provides the three persistence backends the pipeline writes
// to: the relational store (SQLite) that owns the auditable movie, screenplay
// and scene records, the document store (MongoDB) that holds the full
// per-scene payloads, and the vector index (Pinecone) that serves semantic
// search. The three systems share no transaction; callers treat each write as
// an independently failable saga step.
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested movie, screenplay, or scene has no
// matching record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateMovie is returned when a movie with the same TMDB id already
// exists. Checked before any scene work begins, so a duplicate ingest
// performs no partial writes.
var ErrDuplicateMovie = errors.New("movie already has a screenplay")

// PersistenceError wraps a failed relational write with the operation that
// failed. A PersistenceError aborts the scene sequence; rows committed before
// the failure remain.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
