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

package clients

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseToml = `
[application]
name = "screenplay-search"
uploads_dir = "uploads"
scene_pacing_millis = 500

[sqlite]
path = "screenplays.db"

[agent_models.beat-classifier]
provider = "openai"
model = "gpt-4o-mini"
temperature = 0.2
max_tokens = 1024
rate_limit = 2
`

const overlayToml = `
[sqlite]
path = "test.db"

[agent_models.beat-classifier]
provider = "openai"
model = "gpt-4o"
temperature = 0.2
max_tokens = 2048
rate_limit = 1
`

func TestLoadConfigOverlaysRuntimeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging.toml"), []byte(overlayToml), 0o644))

	t.Setenv(EnvConfigFilePrefix, dir)
	t.Setenv(EnvConfigRuntime, "staging")

	config := NewConfig()
	LoadConfig(config)

	// Base values not named in the overlay survive.
	assert.Equal(t, "screenplay-search", config.Application.Name)
	assert.Equal(t, 500, config.Application.ScenePacingMillis)
	// Overlay values win.
	assert.Equal(t, "test.db", config.SQLite.Path)
	assert.Equal(t, "gpt-4o", config.AgentModels["beat-classifier"].Model)
	assert.Equal(t, int64(2048), config.AgentModels["beat-classifier"].MaxTokens)
}

func TestLoadConfigDefaultsToTestRuntime(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(`[sqlite]
path = "from-test-runtime.db"
`), 0o644))

	t.Setenv(EnvConfigFilePrefix, dir)
	t.Setenv(EnvConfigRuntime, "")

	config := NewConfig()
	LoadConfig(config)

	assert.Equal(t, "from-test-runtime.db", config.SQLite.Path)
}

func TestLoadConfigMissingFilesLeavesDefaults(t *testing.T) {
	t.Setenv(EnvConfigFilePrefix, t.TempDir())
	t.Setenv(EnvConfigRuntime, "test")

	config := NewConfig()
	LoadConfig(config)

	assert.Empty(t, config.Application.Name)
	assert.Empty(t, config.AgentModels)
}
