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

// Package model defines the data structures shared across the ingestion
// pipeline. This file holds the transient values that flow between pipeline
// stages without being relational entities themselves.
package model

// IngestRequest is the input to the screenplay ingestion workflow: a path to
// the screenplay document on local storage and the TMDB id of the movie it
// belongs to.
type IngestRequest struct {
	FilePath string `json:"file_path" binding:"required"`
	TmdbID   int64  `json:"tmdb_id" binding:"required"`
}

// SceneText is one extracted scene chunk: the raw screenplay text plus a
// normalized copy suitable for the embedding model.
type SceneText struct {
	RawText       string `json:"raw_text"`
	EmbeddingText string `json:"embedding_text"`
}

// ScreenplayChunks is the output of text extraction: the full document text
// and the ordered scene chunks split out of it.
type ScreenplayChunks struct {
	FullText   string       `json:"full_text"`
	SceneTexts []*SceneText `json:"scene_texts"`
}

// SceneAnalysis is the structured answer the language model returns for one
// scene. Never persisted standalone; its fields are copied onto the Scene row
// and into the scene's document-store record.
type SceneAnalysis struct {
	AISummary string `json:"ai_summary"`
	StoryBeat string `json:"story_beat"`
}

// SceneDocument is the full per-scene payload written to the document store,
// embedding vector included. The vector-index upsert reuses its fields as
// metadata but never carries the raw vector in the metadata map.
type SceneDocument struct {
	SceneID         int64     `bson:"scene_id" json:"scene_id"`
	SceneNumber     int       `bson:"scene_number" json:"scene_number"`
	PreviousSceneID *int64    `bson:"previous_scene_id" json:"previous_scene_id"`
	NextSceneID     *int64    `bson:"next_scene_id" json:"next_scene_id"`
	AISummary       string    `bson:"ai_summary" json:"ai_summary"`
	StoryBeat       string    `bson:"story_beat" json:"story_beat"`
	ScreenplayID    int64     `bson:"screenplay_id" json:"screenplay_id"`
	RawText         string    `bson:"raw_text" json:"raw_text"`
	EmbeddingText   string    `bson:"embedding_text" json:"embedding_text"`
	Embedding       []float32 `bson:"embedding" json:"embedding,omitempty"`
}

// SceneMatch is one semantic-search hit: the document identifier the vector
// index returned, its similarity score, and the matched scene's cleaned text.
type SceneMatch struct {
	DocumentID    string  `json:"document_id"`
	Score         float32 `json:"score"`
	SceneID       int64   `json:"scene_id,omitempty"`
	ScreenplayID  int64   `json:"screenplay_id,omitempty"`
	SceneNumber   int     `json:"scene_number,omitempty"`
	AISummary     string  `json:"ai_summary,omitempty"`
	EmbeddingText string  `json:"embedding_text,omitempty"`
}
