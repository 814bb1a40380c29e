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

// Package extract turns a screenplay document into ordered scene chunks.
// Scenes are delimited by sluglines: the INT./EXT. header lines that open
// every scene in standard screenplay format, optionally prefixed with a scene
// number (e.g. "12 INT. ENGINE ROOM - NIGHT" or "EXT./INT. CAR - DAY").
package extract

import (
	"regexp"
	"strings"

	"github.com/trubyai/screenplay-search/internal/core/model"
)

// sluglinePattern matches a scene heading line: an optional leading scene
// number, then INT/EXT (with optional period and optional compound form like
// INT./EXT.), then the rest of the heading line.
var sluglinePattern = regexp.MustCompile(`(?m)^(?:\d+\s+)?(?:INT\.?|EXT\.?)(?:/(?:INT\.?|EXT\.?))?[^\n]*`)

var (
	whitespaceRuns  = regexp.MustCompile(`[\n\t]+`)
	spaceRuns       = regexp.MustCompile(` {2,}`)
	punctuationRuns = regexp.MustCompile(`([.!?])[.!?]+`)
	dashRuns        = regexp.MustCompile(`-{2,}`)
)

// SplitScenes splits a screenplay's full text into scene chunks. Each chunk
// starts at a slugline and runs to the next slugline (or end of text). Text
// before the first slugline (title page, cast lists) is kept as its own
// leading chunk when non-empty, so no screenplay content is lost.
func SplitScenes(text string) []string {
	locations := sluglinePattern.FindAllStringIndex(text, -1)
	if len(locations) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	out := make([]string, 0, len(locations)+1)
	if preamble := strings.TrimSpace(text[:locations[0][0]]); preamble != "" {
		out = append(out, preamble)
	}
	for i, loc := range locations {
		end := len(text)
		if i+1 < len(locations) {
			end = locations[i+1][0]
		}
		scene := strings.TrimSpace(text[loc[0]:end])
		if scene != "" {
			out = append(out, scene)
		}
	}
	return out
}

// CleanForEmbedding normalizes raw scene text for the embedding model:
// newlines and tabs collapse to single spaces, space runs collapse, repeated
// sentence punctuation and dash runs are reduced.
func CleanForEmbedding(sceneText string) string {
	text := whitespaceRuns.ReplaceAllString(sceneText, " ")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = punctuationRuns.ReplaceAllString(text, "$1")
	text = dashRuns.ReplaceAllString(text, "-")
	return strings.TrimSpace(text)
}

// Chunk splits the full text into scenes and pairs each raw chunk with its
// cleaned embedding text.
func Chunk(fullText string) *model.ScreenplayChunks {
	rawScenes := SplitScenes(fullText)
	sceneTexts := make([]*model.SceneText, 0, len(rawScenes))
	for _, raw := range rawScenes {
		sceneTexts = append(sceneTexts, &model.SceneText{
			RawText:       raw,
			EmbeddingText: CleanForEmbedding(raw),
		})
	}
	return &model.ScreenplayChunks{
		FullText:   fullText,
		SceneTexts: sceneTexts,
	}
}
