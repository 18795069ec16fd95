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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"

	"github.com/gamecoded/lethu/pkg/logger"
)

// ManifestFile is written into the store directory after a successful build.
const ManifestFile = "manifest.json"

// Manifest describes a completed index build.
type Manifest struct {
	Records   int       `json:"records"`
	Backend   string    `json:"backend"`
	IndexedAt time.Time `json:"indexed_at"`
}

// InitEmbedding returns the embedder for a provider and embedding model.
func InitEmbedding(provider string, cfg LLMConfig) (embeddings.Embedder, error) {
	client, err := NewProvider(provider, cfg)
	if err != nil {
		return nil, err
	}
	embedder, err := client.NewEmbedder()
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return embedder, nil
}

// Indexer loads reference records into a vector store once. The store directory
// existing on disk is the only signal that indexing already happened.
type Indexer struct {
	Dir     string
	Store   vectorstores.VectorStore
	Backend string
	// Reset clears backend state kept outside Dir before a rebuild. Optional.
	Reset  func(ctx context.Context) error
	Logger logger.ILogger
}

// NewIndexer wires an indexer to an opened backend.
func NewIndexer(dir string, b *Backend, log logger.ILogger) *Indexer {
	return &Indexer{
		Dir:     dir,
		Store:   b.Store,
		Backend: b.Name,
		Reset:   b.Reset,
		Logger:  log,
	}
}

// EnsureIndexed adds all records in a single batch unless the store directory
// exists. It reports whether documents were written.
func (ix *Indexer) EnsureIndexed(ctx context.Context, records []ReferenceRecord) (bool, error) {
	log := orNop(ix.Logger)

	_, err := os.Stat(ix.Dir)
	switch {
	case err == nil:
		log.Debug("indexer", "store directory exists, skipping indexing", map[string]interface{}{"dir": ix.Dir})
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat store directory: %w", err)
	}

	if len(records) == 0 {
		log.Warn("indexer", "no records to index", map[string]interface{}{"dir": ix.Dir})
		return false, nil
	}

	docs := BuildDocuments(records)
	if _, err := ix.Store.AddDocuments(ctx, docs); err != nil {
		_ = os.RemoveAll(ix.Dir)
		return false, fmt.Errorf("add documents: %w", err)
	}

	if err := ix.writeManifest(len(docs)); err != nil {
		return true, err
	}

	log.Info("indexer", "knowledge base indexed", map[string]interface{}{
		"dir":     ix.Dir,
		"records": len(docs),
		"backend": ix.Backend,
	})
	return true, nil
}

// Rebuild discards the existing index and builds it again from records.
func (ix *Indexer) Rebuild(ctx context.Context, records []ReferenceRecord) (bool, error) {
	if ix.Reset != nil {
		if err := ix.Reset(ctx); err != nil {
			return false, fmt.Errorf("reset store: %w", err)
		}
	}
	if err := os.RemoveAll(ix.Dir); err != nil {
		return false, fmt.Errorf("remove store directory: %w", err)
	}
	return ix.EnsureIndexed(ctx, records)
}

func (ix *Indexer) writeManifest(records int) error {
	if err := os.MkdirAll(ix.Dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	data, err := json.MarshalIndent(Manifest{
		Records:   records,
		Backend:   ix.Backend,
		IndexedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ix.Dir, ManifestFile), data, 0o644)
}

// ReadManifest returns the manifest of a built store directory.
func ReadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
