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

package beats_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trubyai/screenplay-search/internal/core/beats"
)

func TestComposeFirstSceneIsTerminalExposition(t *testing.T) {
	composer := beats.NewComposer()

	prompt, err := composer.Compose("Serenity", 1, 10, "INT. SHIP - DAY", nil)
	assert.NoError(t, err)
	assert.Equal(t, []beats.Beat{beats.Exposition}, prompt.Allowed)
	assert.Equal(t, beats.Exposition, prompt.Fallback)
	assert.Contains(t, prompt.Text, `hardcode to "exposition"`)
	assert.Contains(t, prompt.Text, "INT. SHIP - DAY")
}

func TestComposeLastSceneIsTerminalResolution(t *testing.T) {
	composer := beats.NewComposer()
	previous := beats.RisingAction

	prompt, err := composer.Compose("Serenity", 10, 10, "EXT. FIELD - NIGHT", &previous)
	assert.NoError(t, err)
	assert.Equal(t, []beats.Beat{beats.Resolution}, prompt.Allowed)
	assert.Contains(t, prompt.Text, `hardcode to "resolution"`)
}

func TestComposeAfterResolutionStaysTerminal(t *testing.T) {
	composer := beats.NewComposer()
	previous := beats.Resolution

	// Resolution reached before the final scene: remaining scenes are locked
	// to resolution, no choice is offered.
	prompt, err := composer.Compose("Serenity", 5, 10, "scene text", &previous)
	assert.NoError(t, err)
	assert.Equal(t, []beats.Beat{beats.Resolution}, prompt.Allowed)
}

func TestComposeInteriorSceneOffersExactlyTwoBeats(t *testing.T) {
	composer := beats.NewComposer()
	previous := beats.RisingAction

	prompt, err := composer.Compose("Serenity", 5, 10, "scene text", &previous)
	assert.NoError(t, err)
	assert.Equal(t, []beats.Beat{beats.RisingAction, beats.Climax}, prompt.Allowed)
	assert.Equal(t, beats.RisingAction, prompt.Fallback)
	assert.Contains(t, prompt.Text, `"rising_action"`)
	assert.Contains(t, prompt.Text, `"climax"`)
	assert.Contains(t, prompt.Text, beats.RisingAction.Description())
	assert.Contains(t, prompt.Text, beats.Climax.Description())
	assert.Contains(t, prompt.Text, "scene number 5 out of 10")
}

func TestComposeInvalidPositions(t *testing.T) {
	composer := beats.NewComposer()
	previous := beats.Exposition

	cases := []struct {
		name   string
		number int
		total  int
	}{
		{"zero total", 1, 0},
		{"zero scene number", 0, 5},
		{"past the end", 6, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := composer.Compose("Serenity", tc.number, tc.total, "x", &previous)
			var seqErr *beats.InvalidSequenceError
			assert.True(t, errors.As(err, &seqErr))
		})
	}
}

func TestPromptPermits(t *testing.T) {
	prompt := &beats.Prompt{Allowed: []beats.Beat{beats.Exposition, beats.IncitingIncident}}
	assert.True(t, prompt.Permits(beats.Exposition))
	assert.True(t, prompt.Permits(beats.IncitingIncident))
	assert.False(t, prompt.Permits(beats.Climax))
}
