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

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/chroma"
	"github.com/tmc/langchaingo/vectorstores/redisvector"

	"github.com/gamecoded/lethu/config"
	"github.com/gamecoded/lethu/pkg/localstore"
)

// Backend is an opened vector store plus the hooks the indexer needs around it.
type Backend struct {
	Name  string
	Store vectorstores.VectorStore
	// Reset clears vectors kept outside the store directory. It runs before a rebuild.
	Reset func(ctx context.Context) error
	Close func() error
}

// OpenStore builds the configured vector store backend.
func OpenStore(ctx context.Context, cfg config.StoreConfig, embedder embeddings.Embedder) (*Backend, error) {
	switch cfg.Backend {
	case "", "local":
		store := localstore.New(cfg.Dir, embedder)
		return &Backend{
			Name:  "local",
			Store: store,
			Reset: func(context.Context) error { return store.Close() },
			Close: store.Close,
		}, nil

	case "redis":
		if err := pingRedis(ctx, cfg.RedisURL); err != nil {
			return nil, err
		}
		indexName := redisIndexName(cfg.Namespace)
		store, err := redisvector.New(ctx,
			redisvector.WithConnectionURL(cfg.RedisURL),
			redisvector.WithIndexName(indexName, true),
			redisvector.WithEmbedder(embedder),
		)
		if err != nil {
			return nil, fmt.Errorf("open redis vector store: %w", err)
		}
		return &Backend{
			Name:  "redis",
			Store: store,
			Reset: func(ctx context.Context) error { return dropRedisIndex(ctx, cfg.RedisURL, indexName) },
			Close: func() error { return nil },
		}, nil

	case "chroma":
		store, err := chroma.New(
			chroma.WithChromaURL(cfg.ChromaURL),
			chroma.WithNameSpace(sanitizeKey(cfg.Namespace)),
			chroma.WithEmbedder(embedder),
		)
		if err != nil {
			return nil, fmt.Errorf("open chroma vector store: %w", err)
		}
		return &Backend{
			Name:  "chroma",
			Store: store,
			Reset: func(context.Context) error { return store.RemoveCollection() },
			Close: func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
