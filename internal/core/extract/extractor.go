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

package extract

import (
	"fmt"
	"os"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"

	"github.com/trubyai/screenplay-search/internal/core/model"
)

// Extractor reads a screenplay document from disk and returns its full text
// plus the ordered scene chunks.
type Extractor interface {
	Extract(path string) (*model.ScreenplayChunks, error)
}

// TextExtractor handles plain-text screenplay files.
type TextExtractor struct{}

// Extract reads the file and splits it into scenes.
func (e *TextExtractor) Extract(path string) (*model.ScreenplayChunks, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenplay file %s: %w", path, err)
	}
	return Chunk(string(content)), nil
}

// ForFile sniffs the file's magic bytes and returns the extractor that can
// handle it: the PDF extractor for PDF documents, the text extractor for
// everything unrecognized (screenplays are frequently distributed as plain
// .txt with no magic bytes).
func ForFile(path string) (Extractor, error) {
	buf := make([]byte, 261)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open screenplay file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("failed to read screenplay file %s: %w", path, err)
	}

	kind, _ := filetype.Match(buf[:n])
	if kind == matchers.TypePdf {
		return &PDFExtractor{}, nil
	}
	return &TextExtractor{}, nil
}
