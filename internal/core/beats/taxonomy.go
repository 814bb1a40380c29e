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

// Package beats implements story-beat inference for screenplay scenes: the
// ordered six-stage beat taxonomy, the prompt composer that narrows the
// model's choice to at most two adjacent beats, and the classifier that
// decodes and validates the model's structured answer.
//
// A screenplay progresses through six beats in a fixed order. Scenes are
// classified one at a time, and each scene's beat may only hold at the
// previous scene's beat or advance to its immediate successor. The taxonomy
// in this file is the single source of truth for the labels, their order,
// and their descriptions.
package beats

import "fmt"

// Beat is one of the six ordered stages of a narrative progression. The zero
// value is Exposition, the first stage.
type Beat int

const (
	Exposition Beat = iota
	IncitingIncident
	RisingAction
	Climax
	FallingAction
	Resolution
)

// beatLabels holds the canonical wire labels in taxonomy order.
var beatLabels = [...]string{
	Exposition:       "exposition",
	IncitingIncident: "inciting_incident",
	RisingAction:     "rising_action",
	Climax:           "climax",
	FallingAction:    "falling_action",
	Resolution:       "resolution",
}

// beatDescriptions holds the analyst-facing definition of each beat. These
// are embedded into prompts so the model classifies against the same
// definitions a human story analyst would use.
var beatDescriptions = [...]string{
	Exposition:       `Beginning. The opening information that establishes the world, characters, and circumstances. In screenwriting, this should be woven naturally into action and dialogue rather than delivered through obvious information dumps. Shows the "normal world" before the story's main conflict begins.`,
	IncitingIncident: "Early in the story, after exposition. The central problem or opposing force that drives the story forward. This creates dramatic tension and gives characters obstacles to overcome. Can be internal (character vs. self), interpersonal (character vs. character), or external (character vs. environment/society/fate).",
	RisingAction:     "Middle portion, building from inciting incident. The series of escalating events and complications that build tension toward the climax. Each scene should raise the stakes and deepen the conflict. Characters face increasingly difficult challenges that test their resolve and force them to make harder choices.",
	Climax:           "Peak of the story. Result of the rising action, typically in the third act. The story's most intense moment where the main conflict reaches its peak; the turning point where the protagonist faces their greatest challenge and the outcome of the central conflict is determined. Everything in the story has been building to this moment.",
	FallingAction:    "End of the story. Immediately after the climax. The events that occur after the climax, showing the immediate consequences of the climactic moment. Loose ends begin to be tied up, and the story moves toward its conclusion. Often brief in screenwriting compared to other forms.",
	Resolution:       "The final outcome where conflicts are resolved and the story concludes. Shows how the characters and their world have changed as a result of the story's events. Provides closure and answers the story's central dramatic question.",
}

// UnknownBeatError indicates a label outside the six-value taxonomy.
type UnknownBeatError struct {
	Label string
}

func (e *UnknownBeatError) Error() string {
	return fmt.Sprintf("unknown story beat label: %q", e.Label)
}

// Label returns the canonical wire label for the beat (e.g. "rising_action").
func (b Beat) Label() string {
	return beatLabels[b]
}

// String implements fmt.Stringer.
func (b Beat) String() string {
	return b.Label()
}

// Description returns the analyst-facing definition of the beat.
func (b Beat) Description() string {
	return beatDescriptions[b]
}

// Next returns the successor beat, clamped at Resolution. There is no
// wraparound: the successor of Resolution is Resolution.
func (b Beat) Next() Beat {
	if b >= Resolution {
		return Resolution
	}
	return b + 1
}

// ParseBeat maps a wire label back to its Beat, returning an
// UnknownBeatError for any label outside the taxonomy.
func ParseBeat(label string) (Beat, error) {
	for i, l := range beatLabels {
		if l == label {
			return Beat(i), nil
		}
	}
	return 0, &UnknownBeatError{Label: label}
}

// Labels returns the six wire labels in taxonomy order.
func Labels() []string {
	out := make([]string, len(beatLabels))
	copy(out, beatLabels[:])
	return out
}
