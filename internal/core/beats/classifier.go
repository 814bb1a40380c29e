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

package beats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/trubyai/screenplay-search/internal/core/model"
	"github.com/trubyai/screenplay-search/internal/llm"
)

// ClassificationDecodeError indicates the model's answer could not be turned
// into a valid classification: malformed JSON, a label outside the six-value
// taxonomy, or a missing summary.
type ClassificationDecodeError struct {
	Reason string
	Err    error
}

func (e *ClassificationDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to decode classification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to decode classification: %s", e.Reason)
}

func (e *ClassificationDecodeError) Unwrap() error {
	return e.Err
}

// ClassificationResult is a decoded, validated model answer.
type ClassificationResult struct {
	Summary string
	Beat    Beat
}

// Classifier turns a composed Prompt into a ClassificationResult by calling
// the language model with a schema that constrains the beat field to the six
// known labels. The decode-time schema is deliberately looser than the
// prompt's two-value menu; after decoding, answers that are valid labels but
// outside the prompt's allowed set are clamped to the prompt's fallback beat
// rather than rejected, which preserves the monotonic progression even when
// the model ignores the menu.
type Classifier struct {
	chatModel llm.ChatModel
	spec      *llm.OutputSpec
}

// NewClassifier builds a Classifier around the given chat model.
func NewClassifier(chatModel llm.ChatModel) *Classifier {
	return &Classifier{
		chatModel: chatModel,
		spec: &llm.OutputSpec{
			Name:   "SceneAnalysis",
			Schema: sceneAnalysisSchema(),
		},
	}
}

// sceneAnalysisSchema reflects the SceneAnalysis shape and narrows the
// story_beat property to the six-label enumeration.
func sceneAnalysisSchema() map[string]interface{} {
	schema := llm.GenerateSchema[model.SceneAnalysis]()
	if properties, ok := schema["properties"].(map[string]interface{}); ok {
		if beatProp, ok := properties["story_beat"].(map[string]interface{}); ok {
			labels := Labels()
			enum := make([]interface{}, len(labels))
			for i, l := range labels {
				enum[i] = l
			}
			beatProp["enum"] = enum
		}
	}
	return schema
}

// Classify sends the prompt to the model and decodes the structured answer.
//
// Failure modes:
//   - the model call itself fails: the provider error is returned wrapped.
//   - the answer is not valid JSON, carries an unknown label, or omits the
//     summary: a ClassificationDecodeError is returned.
//
// A known label outside the prompt's allowed set is not an error; it is
// clamped to the prompt's fallback beat and logged.
func (c *Classifier) Classify(ctx context.Context, prompt *Prompt) (*ClassificationResult, error) {
	raw, err := c.chatModel.GenerateStructured(ctx, SystemMessage, prompt.Text, c.spec)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}

	var analysis model.SceneAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &ClassificationDecodeError{Reason: "response is not valid JSON", Err: err}
	}
	if len(analysis.AISummary) == 0 {
		return nil, &ClassificationDecodeError{Reason: "missing ai_summary"}
	}

	beat, err := ParseBeat(analysis.StoryBeat)
	if err != nil {
		return nil, &ClassificationDecodeError{Reason: "story_beat outside taxonomy", Err: err}
	}

	if !prompt.Permits(beat) {
		slog.WarnContext(ctx, "model returned out-of-menu story beat, clamping",
			"returned", beat.Label(),
			"clamped_to", prompt.Fallback.Label())
		beat = prompt.Fallback
	}

	return &ClassificationResult{Summary: analysis.AISummary, Beat: beat}, nil
}
