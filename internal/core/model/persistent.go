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
// pipeline, the stores, and the API layer. This file holds the relationally
// persisted entities: Movie, Screenplay, and Scene.
package model

import "time"

// Movie is external catalogue metadata keyed by its TMDB identifier. At most
// one screenplay may be ingested per movie; the tmdb_id column is unique.
type Movie struct {
	ID          int64     `json:"id"`
	TmdbID      int64     `json:"tmdb_id"`
	ImdbID      string    `json:"imdb_id,omitempty"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	VoteAverage float64   `json:"vote_average,omitempty"`
	VoteCount   int64     `json:"vote_count,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Screenplay is one ingested screenplay document. It exclusively owns its
// ordered scenes; deleting a screenplay cascades to all of them.
type Screenplay struct {
	ID          int64     `json:"id"`
	MovieID     int64     `json:"movie_id"`
	StoragePath string    `json:"storage_path,omitempty"`
	Text        string    `json:"text,omitempty"`
	TotalScenes int       `json:"total_scenes"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Scene is one chunk of screenplay text in its 1-based sequence position.
// Beat and AISummary stay empty until classification; DocumentID stays empty
// until the scene has been indexed for semantic search. PreviousSceneID is
// nil for the first scene; NextSceneID is populated retrospectively once the
// following scene exists, so it may remain nil.
type Scene struct {
	ID              int64     `json:"id"`
	ScreenplayID    int64     `json:"screenplay_id"`
	SceneNumber     int       `json:"scene_number"`
	ProgressRaw     string    `json:"progress_raw"`
	ProgressNum     float64   `json:"progress_num"`
	Beat            string    `json:"beat,omitempty"`
	AISummary       string    `json:"ai_summary,omitempty"`
	PreviousSceneID *int64    `json:"previous_scene_id,omitempty"`
	NextSceneID     *int64    `json:"next_scene_id,omitempty"`
	DocumentID      string    `json:"document_id,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}
