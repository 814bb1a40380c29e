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
	"bytes"
	"fmt"
	"text/template"
)

// SystemMessage is the system instruction sent with every classification
// request. It frames the model as a story analyst rather than a plot
// summarizer.
const SystemMessage = "You are an expert in film analysis, screenwriting, and storytelling craft. You explain scenes with the precision of a story analyst, not just plot summary. Always focus on how the writing choices shape the story, character, and audience experience."

// terminalPromptText is used when the scene's beat is already decided (first
// scene, last scene, or a sequence that has reached resolution). The model is
// asked only for a summary; the beat value is hardcoded into the output
// directive.
const terminalPromptText = `You're familiar with the movie "{{.MOVIE_NAME}}" and its plot. Here is a scene from its screenplay:

<START SCENE CONTEXT>
{{.SCENE_TEXT}}
<END SCENE CONTEXT>

Do the following:

1. Summarize the scene in three to five sentences.
2. Explain how this scene moves the plot of the movie "{{.MOVIE_NAME}}" forward.
3. Analyze the craft of the scene and how this scene functions for screenwriting and storytelling.
4. Note that the story beat corresponding to this scene is "{{.BEAT}}", defined as "{{.BEAT_DESCRIPTION}}".

Output Instructions

Your output must be a JSON with two keys: "ai_summary" and "story_beat". Only output the JSON file, with no commentary, no disclaimers, no Markdown syntax, and so forth. Here are further instructions on each JSON field.

{
    "ai_summary": <Your summary and analysis goes here. Keep your response brief: no more than two to three paragraphs.>,
    "story_beat": <hardcode to "{{.BEAT}}">
}`

// choicePromptText is used for interior scenes. It offers exactly two beat
// values: the previous scene's beat and its immediate successor, with both
// definitions embedded so the model decides whether the story has advanced.
const choicePromptText = `You're familiar with the movie "{{.MOVIE_NAME}}" and its plot. Here is a scene from its screenplay:

<START SCENE CONTEXT>
{{.SCENE_TEXT}}
<END SCENE CONTEXT>

Do the following:

Part I: Create an AI summary.

1. Summarize the scene in three to five sentences.
2. Explain how this scene moves the plot of the movie "{{.MOVIE_NAME}}" forward.
3. Analyze the craft of the scene and how this scene functions for screenwriting and storytelling.

Part II: Determine the story beat.

You're analyzing scene number {{.SCENE_NUMBER}} out of {{.TOTAL_SCENES}} total scenes; the previous scene was labeled "{{.PREVIOUS_BEAT}}". Based on the text from the screenplay and your analysis in Part I, do you think the scene you read continues the story beat "{{.PREVIOUS_BEAT}}" or do you think this scene moves the story into the next story beat "{{.NEXT_BEAT}}". When uncertain, prefer "{{.PREVIOUS_BEAT}}". Here is a definition for each story beat in case you need help:

- "{{.PREVIOUS_BEAT}}" - {{.PREVIOUS_BEAT_DESCRIPTION}}
- "{{.NEXT_BEAT}}" - {{.NEXT_BEAT_DESCRIPTION}}

Output Instructions

Your output must be a JSON with two keys: "ai_summary" and "story_beat". Only output the JSON file, with no commentary, no disclaimers, no Markdown syntax, and so forth. Here are further instructions on each JSON field.

{
    "ai_summary": <your analysis from Part I should be here. Keep your response brief: no more than two to three paragraphs.>,
    "story_beat": <only include the story beat label that you think belongs here: either "{{.PREVIOUS_BEAT}}" or "{{.NEXT_BEAT}}">
}`

// InvalidSequenceError indicates a malformed scene position passed to the
// composer: a zero scene count or a scene number outside [1, total].
type InvalidSequenceError struct {
	SceneNumber int
	TotalScenes int
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("invalid scene sequence position %d of %d", e.SceneNumber, e.TotalScenes)
}

// Prompt is a composed model instruction together with the set of beat values
// the instruction permits. Allowed always has one member (terminal prompts)
// or two (choice prompts). Fallback is the beat the sequencer clamps to when
// the model answers with a valid label outside the allowed set.
type Prompt struct {
	Text     string
	Allowed  []Beat
	Fallback Beat
}

// Permits reports whether the given beat is in the prompt's allowed set.
func (p *Prompt) Permits(b Beat) bool {
	for _, a := range p.Allowed {
		if a == b {
			return true
		}
	}
	return false
}

// Composer builds classification prompts for a single screenplay's scenes.
type Composer struct {
	terminal *template.Template
	choice   *template.Template
}

// NewComposer parses the built-in prompt templates.
func NewComposer() *Composer {
	return &Composer{
		terminal: template.Must(template.New("terminal-beat-prompt").Parse(terminalPromptText)),
		choice:   template.Must(template.New("choice-beat-prompt").Parse(choicePromptText)),
	}
}

// Compose produces the prompt for one scene.
//
// Inputs:
//   - movieTitle: title of the movie, used to anchor the model's context.
//   - sceneNumber: 1-based position of the scene within the screenplay.
//   - totalScenes: total scene count, always >= 1 by construction upstream.
//   - sceneText: the raw scene text.
//   - previous: beat assigned to the preceding scene, or nil at the start of
//     the screenplay.
//
// Branching:
//   - no previous beat, or scene 1: terminal prompt hardcoded to exposition.
//   - previous beat is resolution, or last scene: terminal prompt hardcoded
//     to resolution.
//   - otherwise: choice prompt offering the previous beat and its clamped
//     successor.
func (c *Composer) Compose(movieTitle string, sceneNumber, totalScenes int, sceneText string, previous *Beat) (*Prompt, error) {
	if totalScenes == 0 || sceneNumber < 1 || sceneNumber > totalScenes {
		return nil, &InvalidSequenceError{SceneNumber: sceneNumber, TotalScenes: totalScenes}
	}

	if previous == nil || sceneNumber == 1 {
		return c.terminalPrompt(movieTitle, sceneText, Exposition)
	}
	if *previous == Resolution || sceneNumber == totalScenes {
		return c.terminalPrompt(movieTitle, sceneText, Resolution)
	}

	next := previous.Next()
	params := map[string]interface{}{
		"MOVIE_NAME":                movieTitle,
		"SCENE_TEXT":                sceneText,
		"SCENE_NUMBER":              sceneNumber,
		"TOTAL_SCENES":              totalScenes,
		"PREVIOUS_BEAT":             previous.Label(),
		"PREVIOUS_BEAT_DESCRIPTION": previous.Description(),
		"NEXT_BEAT":                 next.Label(),
		"NEXT_BEAT_DESCRIPTION":     next.Description(),
	}
	var buffer bytes.Buffer
	if err := c.choice.Execute(&buffer, params); err != nil {
		return nil, fmt.Errorf("failed to execute choice prompt template: %w", err)
	}
	return &Prompt{
		Text:     buffer.String(),
		Allowed:  []Beat{*previous, next},
		Fallback: *previous,
	}, nil
}

func (c *Composer) terminalPrompt(movieTitle, sceneText string, beat Beat) (*Prompt, error) {
	params := map[string]interface{}{
		"MOVIE_NAME":       movieTitle,
		"SCENE_TEXT":       sceneText,
		"BEAT":             beat.Label(),
		"BEAT_DESCRIPTION": beat.Description(),
	}
	var buffer bytes.Buffer
	if err := c.terminal.Execute(&buffer, params); err != nil {
		return nil, fmt.Errorf("failed to execute terminal prompt template: %w", err)
	}
	return &Prompt{
		Text:     buffer.String(),
		Allowed:  []Beat{beat},
		Fallback: beat,
	}, nil
}
