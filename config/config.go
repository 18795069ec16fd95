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
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given. A missing default file is not an error.
const DefaultFile = "lethu.yaml"

// DefaultOllamaURL is the local Ollama server used when no URL is configured.
const DefaultOllamaURL = "http://127.0.0.1:11434"

// Config holds the configuration for the tutor.
type Config struct {
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Store     StoreConfig     `yaml:"store"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Tutor     TutorConfig     `yaml:"tutor"`
	Console   ConsoleConfig   `yaml:"console"`
	Log       LogConfig       `yaml:"log"`
	Debug     bool            `yaml:"debug"`
}

type KnowledgeConfig struct {
	// File is the CSV with Language, Concept, Description, Example columns.
	File string `yaml:"file" validate:"required"`
	// SupplementDir holds optional <dir>/<language>/* reference files.
	SupplementDir string `yaml:"supplement_dir"`
	// TikaURL points to an Apache Tika server for formats not handled natively.
	TikaURL      string `yaml:"tika_url"`
	ChunkSize    int    `yaml:"chunk_size" validate:"gt=0"`
	ChunkOverlap int    `yaml:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" validate:"oneof=local redis chroma"`
	// Dir existing on disk means the knowledge base was already indexed.
	Dir       string `yaml:"dir" validate:"required"`
	RedisURL  string `yaml:"redis_url" validate:"required_if=Backend redis"`
	ChromaURL string `yaml:"chroma_url" validate:"required_if=Backend chroma"`
	Namespace string `yaml:"namespace"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider" validate:"oneof=ollama openai"`
	URL         string  `yaml:"url"`
	Model       string  `yaml:"model" validate:"required"`
	APIToken    string  `yaml:"api_token"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	Stream      bool    `yaml:"stream"`
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider" validate:"oneof=ollama openai"`
	URL      string `yaml:"url"`
	Model    string `yaml:"model" validate:"required"`
}

type RetrievalConfig struct {
	K              int     `yaml:"k" validate:"gt=0"`
	ScoreThreshold float32 `yaml:"score_threshold" validate:"gte=0,lte=1"`
}

type TutorConfig struct {
	AskLevel  bool `yaml:"ask_level"`
	FollowUps bool `yaml:"follow_ups"`
}

type ConsoleConfig struct {
	Markdown bool `yaml:"markdown"`
}

type LogConfig struct {
	File string `yaml:"file"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Knowledge: KnowledgeConfig{
			File:         "rag.csv",
			ChunkSize:    1024,
			ChunkOverlap: 100,
		},
		Store: StoreConfig{
			Backend:   "local",
			Dir:       "./lethu_store",
			Namespace: "lethu",
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			URL:         DefaultOllamaURL,
			Model:       "llama3.2",
			Temperature: 0.3,
			Stream:      true,
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
			Model:    "mxbai-embed-large",
		},
		Retrieval: RetrievalConfig{
			K: 1,
		},
		Tutor: TutorConfig{
			AskLevel:  true,
			FollowUps: true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file, then .env and
// LETHU_* environment variables. An empty path means DefaultFile, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Embedding.URL == "" {
		switch {
		case cfg.Embedding.Provider == cfg.LLM.Provider:
			cfg.Embedding.URL = cfg.LLM.URL
		case cfg.Embedding.Provider == "ollama":
			cfg.Embedding.URL = DefaultOllamaURL
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"LETHU_KNOWLEDGE_FILE":  &cfg.Knowledge.File,
		"LETHU_SUPPLEMENT_DIR":  &cfg.Knowledge.SupplementDir,
		"LETHU_TIKA_URL":        &cfg.Knowledge.TikaURL,
		"LETHU_STORE_BACKEND":   &cfg.Store.Backend,
		"LETHU_STORE_DIR":       &cfg.Store.Dir,
		"LETHU_REDIS_URL":       &cfg.Store.RedisURL,
		"LETHU_CHROMA_URL":      &cfg.Store.ChromaURL,
		"LETHU_LLM_PROVIDER":    &cfg.LLM.Provider,
		"LETHU_LLM_URL":         &cfg.LLM.URL,
		"LETHU_LLM_MODEL":       &cfg.LLM.Model,
		"OPENAI_API_KEY":        &cfg.LLM.APIToken,
		"LETHU_EMBEDDING_URL":   &cfg.Embedding.URL,
		"LETHU_EMBEDDING_MODEL": &cfg.Embedding.Model,
		"LETHU_LOG_FILE":        &cfg.Log.File,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"LETHU_DEBUG":      &cfg.Debug,
		"LETHU_STREAM":     &cfg.LLM.Stream,
		"LETHU_ASK_LEVEL":  &cfg.Tutor.AskLevel,
		"LETHU_FOLLOW_UPS": &cfg.Tutor.FollowUps,
		"LETHU_MARKDOWN":   &cfg.Console.Markdown,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}

	if v := os.Getenv("LETHU_RETRIEVAL_K"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LETHU_RETRIEVAL_K: %w", err)
		}
		cfg.Retrieval.K = k
	}
	return nil
}
