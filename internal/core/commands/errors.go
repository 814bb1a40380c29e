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

package commands

import "fmt"

// Indexing steps, in the order the indexer attempts them.
const (
	StepEmbedding     = "embedding-failed"
	StepDocumentWrite = "document-write-failed"
	StepVectorUpsert  = "vector-upsert-failed"
)

// IndexingError marks a failed document-store or vector-index write for one
// scene. Indexing failures never abort the sequence: the relational row is
// already committed, the failure is logged, and the pipeline moves to the
// next scene.
type IndexingError struct {
	Step        string
	SceneNumber int
	Err         error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("indexing scene %d: %s: %v", e.SceneNumber, e.Step, e.Err)
}

func (e *IndexingError) Unwrap() error {
	return e.Err
}
