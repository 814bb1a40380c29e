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

func TestBeatOrder(t *testing.T) {
	assert.Equal(t, []string{
		"exposition",
		"inciting_incident",
		"rising_action",
		"climax",
		"falling_action",
		"resolution",
	}, beats.Labels())
}

func TestParseBeatRoundTrip(t *testing.T) {
	for _, label := range beats.Labels() {
		b, err := beats.ParseBeat(label)
		assert.NoError(t, err)
		assert.Equal(t, label, b.Label())
	}
}

func TestParseBeatUnknownLabel(t *testing.T) {
	_, err := beats.ParseBeat("denouement")
	assert.Error(t, err)
	var unknownErr *beats.UnknownBeatError
	assert.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "denouement", unknownErr.Label)
}

func TestNextAdvancesOneStage(t *testing.T) {
	assert.Equal(t, beats.IncitingIncident, beats.Exposition.Next())
	assert.Equal(t, beats.RisingAction, beats.IncitingIncident.Next())
	assert.Equal(t, beats.Climax, beats.RisingAction.Next())
	assert.Equal(t, beats.FallingAction, beats.Climax.Next())
	assert.Equal(t, beats.Resolution, beats.FallingAction.Next())
}

func TestNextClampsAtResolution(t *testing.T) {
	assert.Equal(t, beats.Resolution, beats.Resolution.Next())
}

func TestDescriptionsNonEmpty(t *testing.T) {
	for _, label := range beats.Labels() {
		b, err := beats.ParseBeat(label)
		assert.NoError(t, err)
		assert.NotEmpty(t, b.Description())
	}
}
