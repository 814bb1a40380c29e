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

package commands

import (
	"fmt"

	"github.com/trubyai/screenplay-search/internal/core/cor"
	"github.com/trubyai/screenplay-search/internal/core/extract"
	"github.com/trubyai/screenplay-search/internal/core/model"
)

// ScreenplayExtractor reads the uploaded screenplay file, picks the
// extractor that matches its file type, and splits the text into ordered
// scene chunks for the rest of the chain.
type ScreenplayExtractor struct {
	cor.BaseCommand
}

// NewScreenplayExtractor is the constructor for the ScreenplayExtractor
// command.
func NewScreenplayExtractor(name string) *ScreenplayExtractor {
	return &ScreenplayExtractor{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *ScreenplayExtractor) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(c.GetInputParam()) != nil
}

// Execute extracts and chunks the screenplay text.
func (c *ScreenplayExtractor) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.IngestRequest)
	ctx := context.GetContext()

	extractor, err := extract.ForFile(req.FilePath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}

	chunks, err := extractor.Extract(req.FilePath)
	if err != nil {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), err)
		return
	}
	if len(chunks.SceneTexts) == 0 {
		c.GetErrorCounter().Add(ctx, 1)
		context.AddError(c.GetName(), fmt.Errorf("screenplay %s produced no scenes", req.FilePath))
		return
	}

	c.GetSuccessCounter().Add(ctx, 1)
	context.Add(cor.CtxOut, chunks)
}
