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

// Package clients defines the application configuration, loaded from TOML
// files, and the container that holds every external client the system talks
// to: SQLite, MongoDB, Pinecone, TMDB, and the model providers.
package clients

// Model providers supported for agent and embedding models.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// SQLiteConfig locates the relational database file.
type SQLiteConfig struct {
	Path string `toml:"path"` // Filesystem path to the database file.
}

// MongoDBConfig locates the scene document collection.
type MongoDBConfig struct {
	URI        string `toml:"uri"`        // Connection string, credentials included via env expansion.
	Database   string `toml:"database"`   // Database name.
	Collection string `toml:"collection"` // Collection holding scene documents.
}

// PineconeConfig locates the vector index. The API key comes from the
// PINECONE_API_KEY environment variable, never from config files.
type PineconeConfig struct {
	Host      string `toml:"host"`      // The index host assigned by Pinecone.
	Namespace string `toml:"namespace"` // Namespace that scopes the scene vectors.
}

// AgentModel configures one chat model used for scene analysis.
type AgentModel struct {
	Provider    string  `toml:"provider"`    // "openai" or "gemini".
	Model       string  `toml:"model"`       // Provider model name.
	Temperature float64 `toml:"temperature"` // Sampling temperature.
	MaxTokens   int64   `toml:"max_tokens"`  // Output token cap.
	RateLimit   int     `toml:"rate_limit"`  // Requests per second allowed against the provider.
}

// EmbeddingModel configures one embedding model.
type EmbeddingModel struct {
	Provider string `toml:"provider"` // "openai" or "gemini".
	Model    string `toml:"model"`    // Provider model name.
}

// Config is the top-level application configuration, populated from the base
// TOML file and then overlaid with the runtime-specific file.
type Config struct {
	Application struct {
		Name              string `toml:"name"`                // The application name, used in telemetry.
		UploadsDir        string `toml:"uploads_dir"`         // Directory where uploaded screenplays land.
		ScenePacingMillis int    `toml:"scene_pacing_millis"` // Pause between scene classifications.
		SearchTopK        int    `toml:"search_top_k"`        // Default result count for scene search.
	} `toml:"application"`
	SQLite          SQLiteConfig              `toml:"sqlite"`
	MongoDB         MongoDBConfig             `toml:"mongodb"`
	Pinecone        PineconeConfig            `toml:"pinecone"`
	AgentModels     map[string]AgentModel     `toml:"agent_models"`     // Chat models keyed by a logical name (e.g., "beat-classifier").
	EmbeddingModels map[string]EmbeddingModel `toml:"embedding_models"` // Embedding models keyed by a logical name (e.g., "scene-embedder").
}

// NewConfig creates an initialized Config. The maps must exist before the
// TOML decoder populates them.
func NewConfig() *Config {
	return &Config{
		AgentModels:     make(map[string]AgentModel),
		EmbeddingModels: make(map[string]EmbeddingModel),
	}
}
