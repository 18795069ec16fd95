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
// Package localstore is a langchaingo vector store backed by a single sqlite
// file. Vectors are cached in memory and ranked by cosine similarity.
package localstore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
)

// FileName is the database file created inside the store directory.
const FileName = "index.db"

var (
	ErrNoEmbedder = errors.New("localstore: no embedder configured")
	ErrMismatch   = errors.New("localstore: number of vectors does not match number of documents")
)

var _ vectorstores.VectorStore = (*Store)(nil)

type Store struct {
	dir      string
	embedder embeddings.Embedder

	mu      sync.Mutex
	db      *gorm.DB
	vectors map[uint][]float32
}

type RecordModel struct {
	gorm.Model

	UID    string `gorm:"uniqueIndex"`
	Text   string
	Vector datatypes.JSONSlice[float32]

	Metadata datatypes.JSONMap
}

// New returns a store rooted at dir. Nothing touches the disk until the
// first AddDocuments or SimilaritySearch call.
func New(dir string, embedder embeddings.Embedder) *Store {
	return &Store{
		dir:      dir,
		embedder: embedder,
	}
}

// Path is the location of the sqlite file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// open lazily connects to the database. With create=false a missing file is
// reported as fs.ErrNotExist instead of being created.
func (s *Store) open(create bool) error {
	if s.db != nil {
		return nil
	}

	if !create {
		if _, err := os.Stat(s.Path()); err != nil {
			return err
		}
	} else if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	db, err := gorm.Open(gormlite.Open(s.Path()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&RecordModel{}); err != nil {
		return err
	}

	s.db = db
	s.vectors = make(map[uint][]float32)

	return s.loadVectors()
}

func (s *Store) loadVectors() error {
	var models []RecordModel

	result := s.db.Model(&RecordModel{}).FindInBatches(&models, 100, func(tx *gorm.DB, batch int) error {
		for _, m := range models {
			if m.Vector == nil {
				continue
			}

			s.vectors[m.ID] = m.Vector
		}

		return nil
	})

	return result.Error
}

// AddDocuments embeds all documents in one request and stores them. It returns
// the generated record ids.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := s.options(options...)

	if opts.Embedder == nil {
		return nil, ErrNoEmbedder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(true); err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	texts := make([]string, 0, len(docs))

	for _, d := range docs {
		texts = append(texts, d.PageContent)
	}

	vectors, err := opts.Embedder.EmbedDocuments(ctx, texts)

	if err != nil {
		return nil, err
	}

	if len(vectors) != len(docs) {
		return nil, ErrMismatch
	}

	models := make([]*RecordModel, 0, len(docs))

	for i, d := range docs {
		m := &RecordModel{
			UID:    uuid.NewString(),
			Text:   d.PageContent,
			Vector: datatypes.NewJSONSlice(vectors[i]),
		}

		if len(d.Metadata) > 0 {
			metadata := datatypes.JSONMap{}

			for k, v := range d.Metadata {
				metadata[k] = v
			}

			m.Metadata = metadata
		}

		models = append(models, m)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(models, 100).Error
	})

	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(models))

	for i, m := range models {
		s.vectors[m.ID] = vectors[i]
		ids = append(ids, m.UID)
	}

	return ids, nil
}

// SimilaritySearch returns up to numDocuments documents ordered by descending
// cosine similarity. A store that was never written returns no documents.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := s.options(options...)

	if opts.Embedder == nil {
		return nil, ErrNoEmbedder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(false); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []schema.Document{}, nil
		}

		return nil, fmt.Errorf("open local store: %w", err)
	}

	vector, err := opts.Embedder.EmbedQuery(ctx, query)

	if err != nil {
		return nil, err
	}

	if numDocuments <= 0 {
		numDocuments = 4
	}

	type scoredID struct {
		ID    uint
		score float64
	}

	scores := make([]scoredID, 0, len(s.vectors))

	for id, v := range s.vectors {
		if len(v) != len(vector) {
			continue
		}

		score := similarity(vector, v)

		if opts.ScoreThreshold > 0 && score < float64(opts.ScoreThreshold) {
			continue
		}

		scores = append(scores, scoredID{
			ID:    id,
			score: score,
		})
	}

	slices.SortFunc(scores, func(a, b scoredID) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	filter, _ := opts.Filters.(map[string]any)

	var results []schema.Document

	for _, sc := range scores {
		if len(results) >= numDocuments {
			break
		}

		var m RecordModel

		if result := s.db.WithContext(ctx).First(&m, sc.ID); result.Error != nil {
			return nil, result.Error
		}

		if !matches(m.Metadata, filter) {
			continue
		}

		results = append(results, schema.Document{
			PageContent: m.Text,
			Metadata:    map[string]any(m.Metadata),
			Score:       float32(sc.score),
		})
	}

	return results, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(false); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, err
	}

	var n int64
	result := s.db.WithContext(ctx).Model(&RecordModel{}).Count(&n)

	return n, result.Error
}

// Close releases the database handle. The store can be reopened by using it again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()

	if err != nil {
		return err
	}

	s.db = nil
	s.vectors = nil

	return sqlDB.Close()
}

func (s *Store) options(options ...vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{
		Embedder: s.embedder,
	}

	for _, o := range options {
		o(&opts)
	}

	return opts
}

func matches(metadata datatypes.JSONMap, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := metadata[k]

		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}

	return true
}

func similarity(vals1, vals2 []float32) float64 {
	l2norm := func(v float64, s, t float64) (float64, float64) {
		if v == 0 {
			return s, t
		}

		a := math.Abs(v)

		if a > t {
			r := t / v
			s = 1 + s*r*r
			t = a
		} else {
			r := v / t
			s = s + r*r
		}

		return s, t
	}

	dot := float64(0)

	s1 := float64(1)
	t1 := float64(0)

	s2 := float64(1)
	t2 := float64(0)

	for i, v1f := range vals1 {
		v1 := float64(v1f)
		v2 := float64(vals2[i])

		dot += v1 * v2

		s1, t1 = l2norm(v1, s1, t1)
		s2, t2 = l2norm(v2, s2, t2)
	}

	l1 := t1 * math.Sqrt(s1)
	l2 := t2 * math.Sqrt(s2)

	if l1 == 0 || l2 == 0 {
		return 0
	}

	return dot / (l1 * l2)
}
