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

// Package test provides helpers and sample data shared across the test
// suite: a cached test configuration and a small screenplay fixture.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/trubyai/screenplay-search/internal/clients"
)

// StateManager caches the loaded test configuration so the TOML files are
// read once per test run.
type StateManager struct {
	config *clients.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestScreenplayText returns a short screenplay with a title page and
// three scenes, enough to exercise splitting, sequencing, and the fixed
// first/last beats.
func GetTestScreenplayText() string {
	return `SERENITY

Written by Joss Whedon

INT. SHIP - BRIDGE - DAY

Mal stands at the controls. The ship shudders under fire.

MAL
We're not gonna make it, are we.

EXT. SPACE - CONTINUOUS

The ship streaks past a burning planet, pursued.

INT. CARGO BAY - NIGHT

The crew regroups among the crates, battered but alive.`
}

// SetupOS points the configuration loader at the test config files.
func SetupOS() (err error) {
	err = os.Setenv(clients.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(clients.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *clients.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := clients.NewConfig()
		clients.LoadConfig(config)
		state.config = config
	}
	return state.config
}
