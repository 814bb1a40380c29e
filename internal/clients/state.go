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
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"google.golang.org/genai"

	"github.com/trubyai/screenplay-search/internal/core/store"
	"github.com/trubyai/screenplay-search/internal/llm"
	"github.com/trubyai/screenplay-search/internal/tmdb"
)

// Environment variables carrying secrets. TOML config never holds keys.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvPineconeAPIKey  = "PINECONE_API_KEY"
	EnvTMDBAccessToken = "TMDB_ACCESS_TOKEN"
)

// ServiceClients is the dependency injection container holding every
// external client the application uses. It is assembled once at startup and
// passed to the workflows and HTTP handlers.
type ServiceClients struct {
	Store       *store.Store
	MongoClient *mongo.Client
	Documents   *store.DocumentStore
	Vectors     *store.VectorIndex
	TMDB        *tmdb.Client
	ChatModels  map[string]llm.ChatModel // Rate-limited chat models keyed by logical name.
	Embedders   map[string]llm.Embedder  // Embedding models keyed by logical name.
}

// Close releases the client connections that hold resources.
func (c *ServiceClients) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.MongoClient != nil {
		_ = c.MongoClient.Disconnect(context.Background())
	}
}

// NewServiceClients initializes every external dependency from the loaded
// configuration. Model providers are constructed lazily per configured
// model, so a deployment using only one provider needs only that provider's
// API key.
func NewServiceClients(ctx context.Context, config *Config) (*ServiceClients, error) {
	s, err := store.Open(ctx, config.SQLite.Path)
	if err != nil {
		return nil, err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoDB.URI))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	documents := store.NewDocumentStore(
		mongoClient.Database(config.MongoDB.Database).Collection(config.MongoDB.Collection))

	fail := func(err error) (*ServiceClients, error) {
		_ = s.Close()
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	vectors, err := store.NewVectorIndex(ctx, os.Getenv(EnvPineconeAPIKey), config.Pinecone.Host, config.Pinecone.Namespace)
	if err != nil {
		return fail(err)
	}

	// Provider clients are created once and shared across models.
	var openaiClient *openai.Client
	var geminiClient *genai.Client
	getOpenAI := func() *openai.Client {
		if openaiClient == nil {
			client := openai.NewClient(option.WithAPIKey(os.Getenv(EnvOpenAIAPIKey)))
			openaiClient = &client
		}
		return openaiClient
	}
	getGemini := func() (*genai.Client, error) {
		if geminiClient == nil {
			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  os.Getenv(EnvGeminiAPIKey),
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to create genai client: %w", err)
			}
			geminiClient = client
		}
		return geminiClient, nil
	}

	chatModels, err := buildChatModels(config, getOpenAI, getGemini)
	if err != nil {
		return fail(err)
	}
	embedders, err := buildEmbedders(config, getOpenAI, getGemini)
	if err != nil {
		return fail(err)
	}

	return &ServiceClients{
		Store:       s,
		MongoClient: mongoClient,
		Documents:   documents,
		Vectors:     vectors,
		TMDB:        tmdb.NewClient(os.Getenv(EnvTMDBAccessToken)),
		ChatModels:  chatModels,
		Embedders:   embedders,
	}, nil
}

// buildChatModels constructs the configured chat models, each wrapped in the
// quota-aware rate limiter. Provider clients are requested from the factories
// only when a model actually needs that provider.
func buildChatModels(
	config *Config,
	getOpenAI func() *openai.Client,
	getGemini func() (*genai.Client, error)) (map[string]llm.ChatModel, error) {

	chatModels := make(map[string]llm.ChatModel)
	for key, values := range config.AgentModels {
		var base llm.ChatModel
		switch values.Provider {
		case ProviderOpenAI:
			base = llm.NewOpenAIChatModel(getOpenAI(), values.Model, values.Temperature, values.MaxTokens)
		case ProviderGemini:
			gc, err := getGemini()
			if err != nil {
				return nil, err
			}
			base = llm.NewGeminiChatModel(gc.Models, values.Model, float32(values.Temperature), int32(values.MaxTokens))
		default:
			return nil, fmt.Errorf("agent model %q has unknown provider %q", key, values.Provider)
		}
		rateLimit := values.RateLimit
		if rateLimit <= 0 {
			rateLimit = 1
		}
		chatModels[key] = NewQuotaAwareChatModel(base, rateLimit)
	}
	return chatModels, nil
}

// buildEmbedders constructs the configured embedding models.
func buildEmbedders(
	config *Config,
	getOpenAI func() *openai.Client,
	getGemini func() (*genai.Client, error)) (map[string]llm.Embedder, error) {

	embedders := make(map[string]llm.Embedder)
	for key, values := range config.EmbeddingModels {
		switch values.Provider {
		case ProviderOpenAI:
			embedders[key] = llm.NewOpenAIEmbedder(getOpenAI(), values.Model)
		case ProviderGemini:
			gc, err := getGemini()
			if err != nil {
				return nil, err
			}
			embedders[key] = llm.NewGeminiEmbedder(gc.Models, values.Model)
		default:
			return nil, fmt.Errorf("embedding model %q has unknown provider %q", key, values.Provider)
		}
	}
	return embedders, nil
}
