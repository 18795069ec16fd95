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
package cmd

import (
	"context"
	"fmt"

	"github.com/gamecoded/lethu/config"
	lethu "github.com/gamecoded/lethu/controller"
	"github.com/gamecoded/lethu/pkg/logger"
)

// app holds what every command builds from the configuration.
type app struct {
	cfg     config.Config
	log     *logger.ZapLogger
	backend *lethu.Backend
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}

	a := &app{
		cfg: cfg,
		log: logger.NewZapLogger(logger.Options{Debug: cfg.Debug, FilePath: cfg.Log.File}),
	}

	embedder, err := lethu.InitEmbedding(cfg.Embedding.Provider, lethu.LLMConfig{
		Apiurl:   cfg.Embedding.URL,
		AiModel:  cfg.Embedding.Model,
		APIToken: cfg.LLM.APIToken,
	})
	if err != nil {
		a.log.Warn("cmd", "embedding model unavailable", map[string]interface{}{"error": err.Error()})
		return a, nil
	}

	backend, err := lethu.OpenStore(ctx, cfg.Store, embedder)
	if err != nil {
		a.log.Warn("cmd", "vector store unavailable", map[string]interface{}{"backend": cfg.Store.Backend, "error": err.Error()})
		return a, nil
	}
	a.backend = backend
	return a, nil
}

// loadRecords reads the knowledge file and any supplement files.
func (a *app) loadRecords(ctx context.Context) ([]lethu.ReferenceRecord, error) {
	records, err := lethu.LoadKnowledge(a.cfg.Knowledge.File)
	if err != nil {
		return nil, err
	}

	supplements, err := lethu.SupplementLoader{
		Dir:          a.cfg.Knowledge.SupplementDir,
		Transcriber:  &lethu.Transcriber{TikaURL: a.cfg.Knowledge.TikaURL},
		ChunkSize:    a.cfg.Knowledge.ChunkSize,
		ChunkOverlap: a.cfg.Knowledge.ChunkOverlap,
		Logger:       a.log,
	}.Load(ctx)
	if err != nil {
		a.log.Warn("cmd", "supplements skipped", map[string]interface{}{"error": err.Error()})
	}

	return append(records, supplements...), nil
}

func (a *app) searcher() lethu.Searcher {
	return lethu.NewSearcher(a.backend, a.cfg.Retrieval.ScoreThreshold, a.log)
}

func (a *app) newTutor() (*lethu.Tutor, error) {
	provider, err := lethu.NewProvider(a.cfg.LLM.Provider, lethu.LLMConfig{
		Apiurl:   a.cfg.LLM.URL,
		AiModel:  a.cfg.LLM.Model,
		APIToken: a.cfg.LLM.APIToken,
	})
	if err != nil {
		return nil, err
	}

	tutor := &lethu.Tutor{
		LLMClient:   provider,
		Temperature: a.cfg.LLM.Temperature,
		Streaming:   a.cfg.LLM.Stream,
		Logger:      a.log,
	}
	if err := tutor.Init(); err != nil {
		return nil, fmt.Errorf("language model: %w", err)
	}
	return tutor, nil
}

func (a *app) Close() {
	if a.backend != nil && a.backend.Close != nil {
		_ = a.backend.Close()
	}
	_ = a.log.Sync()
}
