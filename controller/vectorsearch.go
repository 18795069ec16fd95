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
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/gamecoded/lethu/pkg/logger"
)

// Snippet is one retrieved piece of reference text and its language tag.
type Snippet struct {
	Text string
	Tag  string
}

// SearchFunc is a plain search callable.
type SearchFunc func(ctx context.Context, query string, k int) ([]schema.Document, error)

// Searcher returns up to k snippets for a query. It never fails; problems
// surface as an empty result.
type Searcher interface {
	Search(ctx context.Context, query string, k int) []Snippet
}

// EmptySearcher is used when no store is available.
type EmptySearcher struct{}

func (EmptySearcher) Search(context.Context, string, int) []Snippet {
	return []Snippet{}
}

// Retriever searches a vector store through up to three call shapes and uses
// the first that returns without error:
//  1. Store.SimilaritySearch
//  2. vectorstores.ToRetriever(Store, k).GetRelevantDocuments
//  3. Func
type Retriever struct {
	Store          vectorstores.VectorStore
	Func           SearchFunc
	ScoreThreshold float32
	Logger         logger.ILogger
}

type searchShape struct {
	name string
	call SearchFunc
}

// NewSearcher returns a Retriever over the backend, or EmptySearcher when there is none.
func NewSearcher(b *Backend, scoreThreshold float32, log logger.ILogger) Searcher {
	if b == nil || b.Store == nil {
		return EmptySearcher{}
	}
	return &Retriever{Store: b.Store, ScoreThreshold: scoreThreshold, Logger: log}
}

func (r *Retriever) storeOptions() []vectorstores.Option {
	if r.ScoreThreshold > 0 {
		return []vectorstores.Option{vectorstores.WithScoreThreshold(r.ScoreThreshold)}
	}
	return nil
}

func (r *Retriever) shapes() []searchShape {
	var shapes []searchShape

	if r.Store != nil {
		shapes = append(shapes,
			searchShape{"invoke", func(ctx context.Context, query string, k int) ([]schema.Document, error) {
				return r.Store.SimilaritySearch(ctx, query, k, r.storeOptions()...)
			}},
			searchShape{"relevant_documents", func(ctx context.Context, query string, k int) ([]schema.Document, error) {
				return vectorstores.ToRetriever(r.Store, k, r.storeOptions()...).GetRelevantDocuments(ctx, query)
			}},
		)
	}
	if r.Func != nil {
		shapes = append(shapes, searchShape{"callable", r.Func})
	}
	return shapes
}

// Search returns snippets in the store's ranking order.
func (r *Retriever) Search(ctx context.Context, query string, k int) []Snippet {
	log := orNop(r.Logger)
	if k <= 0 {
		k = 1
	}

	for _, shape := range r.shapes() {
		docs, err := shape.call(ctx, query, k)
		if err != nil {
			log.Debug("retriever", "search shape failed", map[string]interface{}{"shape": shape.name, "error": err.Error()})
			continue
		}
		return toSnippets(docs)
	}

	log.Debug("retriever", "no search shape succeeded", map[string]interface{}{"query": query})
	return []Snippet{}
}

func toSnippets(docs []schema.Document) []Snippet {
	snippets := make([]Snippet, 0, len(docs))
	for _, d := range docs {
		snippets = append(snippets, Snippet{Text: d.PageContent, Tag: tagOf(d)})
	}
	return snippets
}

func tagOf(d schema.Document) string {
	v, ok := d.Metadata[MetaLanguage]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FilterByLanguage keeps snippets without a tag or tagged with language, ignoring case.
func FilterByLanguage(snippets []Snippet, language Language) []Snippet {
	kept := make([]Snippet, 0, len(snippets))
	for _, s := range snippets {
		tag := strings.TrimSpace(s.Tag)
		if tag == "" || strings.EqualFold(tag, string(language)) {
			kept = append(kept, s)
		}
	}
	return kept
}

// JoinContext joins snippet texts with a blank line.
func JoinContext(snippets []Snippet) string {
	texts := make([]string, 0, len(snippets))
	for _, s := range snippets {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n\n")
}
