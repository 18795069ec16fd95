// Copyright (c) 2025 Reza Arani
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package lethu

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Metadata keys carried by every indexed document.
const (
	MetaLanguage = "language"
	MetaID       = "id"
)

// SplitText cuts text into overlapping chunks with the recursive character splitter.
func SplitText(text string, chunkSize, chunkOverlap int) ([]string, error) {
	p := documentloaders.NewText(strings.NewReader(text))

	split := textsplitter.NewRecursiveCharacter()
	split.ChunkSize = chunkSize
	split.ChunkOverlap = chunkOverlap

	docs, err := p.LoadAndSplit(context.Background(), split)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(docs))
	for _, d := range docs {
		if c := strings.TrimSpace(d.PageContent); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks, nil
}

// BuildDocuments turns records into indexable documents: the text joins concept,
// description and example, the language becomes the tag and the row ordinal the id.
func BuildDocuments(records []ReferenceRecord) []schema.Document {
	docs := make([]schema.Document, 0, len(records))
	for i, r := range records {
		var parts []string
		for _, p := range []string{r.Concept, r.Description, r.Example} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		docs = append(docs, schema.Document{
			PageContent: strings.Join(parts, " "),
			Metadata: map[string]any{
				MetaLanguage: r.Language,
				MetaID:       strconv.Itoa(i),
			},
		})
	}
	return docs
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9:_-]`)

// sanitizeKey makes a string safe to use inside a Redis index or collection name.
func sanitizeKey(input string) string {
	sanitized := unsafeKeyChars.ReplaceAllString(input, "_")
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	return strings.Trim(sanitized, "_")
}
