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

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/trubyai/screenplay-search/internal/clients"
	"github.com/trubyai/screenplay-search/internal/core/services"
	"github.com/trubyai/screenplay-search/internal/core/workflow"
)

// Logical model names the server expects in the configuration.
const (
	BeatClassifierModel = "beat-classifier"
	SceneEmbedderModel  = "scene-embedder"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config            *clients.Config
	clients           *clients.ServiceClients
	searchService     *services.SearchService
	screenplayService *services.ScreenplayService
	ingestWorkflow    *workflow.ScreenplayIngestWorkflow
}

var state = &StateManager{}

func SetupOS() (err error) {
	err = os.Setenv(clients.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(clients.EnvConfigRuntime, "local")
	return err
}

// GetConfig loads the application configuration once.
func GetConfig() *clients.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := clients.NewConfig()
		clients.LoadConfig(config)
		state.config = config
	}
	return state.config
}

// InitState initializes the service clients, the read services, and the
// ingestion workflow.
func InitState(ctx context.Context) {
	config := GetConfig()

	serviceClients, err := clients.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.clients = serviceClients

	chatModel, ok := serviceClients.ChatModels[BeatClassifierModel]
	if !ok {
		log.Fatalf("configuration is missing agent model %q\n", BeatClassifierModel)
	}
	embedder, ok := serviceClients.Embedders[SceneEmbedderModel]
	if !ok {
		log.Fatalf("configuration is missing embedding model %q\n", SceneEmbedderModel)
	}

	state.searchService = services.NewSearchService(embedder, serviceClients.Vectors, config.Application.SearchTopK)
	state.screenplayService = services.NewScreenplayService(serviceClients.Store, serviceClients.Documents, serviceClients.Vectors)
	state.ingestWorkflow = workflow.NewScreenplayIngestWorkflow(
		"screenplay-ingest",
		serviceClients.Store,
		serviceClients.TMDB,
		chatModel,
		embedder,
		serviceClients.Documents,
		serviceClients.Vectors,
		time.Duration(config.Application.ScenePacingMillis)*time.Millisecond,
	)

	if err := os.MkdirAll(config.Application.UploadsDir, 0o755); err != nil {
		log.Fatalf("failed to create uploads directory: %v\n", err)
	}
}
