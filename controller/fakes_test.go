package lethu

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// fakeModel answers prompts from a fixed list of replies and records every prompt it sees.
type fakeModel struct {
	mu sync.Mutex

	replies []string // reply i answers call i; the last one repeats
	failOn  map[int]error

	chunks         []string // streamed when a streaming func is set
	streamErr      error
	streamErrAfter int // chunks delivered before streamErr

	prompts []string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}

	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if t, ok := part.(llms.TextContent); ok {
				prompt.WriteString(t.Text)
			}
		}
	}

	m.mu.Lock()
	call := len(m.prompts)
	m.prompts = append(m.prompts, prompt.String())
	err := m.failOn[call]
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}

	if opts.StreamingFunc != nil {
		for i, c := range m.chunks {
			if m.streamErr != nil && i == m.streamErrAfter {
				return nil, m.streamErr
			}
			if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
				return nil, err
			}
		}
		if m.streamErr != nil && m.streamErrAfter >= len(m.chunks) {
			return nil, m.streamErr
		}
		return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: strings.Join(m.chunks, "")}}}, nil
	}

	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply(call)}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *fakeModel) reply(call int) string {
	if len(m.replies) == 0 {
		return ""
	}
	if call < len(m.replies) {
		return m.replies[call]
	}
	return m.replies[len(m.replies)-1]
}

func (m *fakeModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *fakeModel) prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prompts[i]
}

// keywordEmbedder maps text onto a fixed vocabulary, one dimension per word.
type keywordEmbedder struct {
	vocabulary []string
}

func newKeywordEmbedder() *keywordEmbedder {
	return &keywordEmbedder{vocabulary: []string{"loop", "function", "selector", "tag", "variable"}}
}

func (e *keywordEmbedder) embed(text string) []float32 {
	text = strings.ToLower(text)
	v := make([]float32, len(e.vocabulary))
	for i, w := range e.vocabulary {
		v[i] = float32(strings.Count(text, w))
	}
	return v
}

func (e *keywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, e.embed(t))
	}
	return out, nil
}

func (e *keywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

var errStore = errors.New("store unavailable")

// recordingStore is an in-memory vector store that counts writes and can be made to fail.
type recordingStore struct {
	addCalls    int
	searchCalls int
	added       []schema.Document
	results     []schema.Document

	addErr    error
	searchErr error
	failFirst int // number of initial searches that fail with searchErr
}

var _ vectorstores.VectorStore = (*recordingStore)(nil)

func (s *recordingStore) AddDocuments(_ context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	s.addCalls++
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = append(s.added, docs...)
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = docs[i].Metadata[MetaID].(string)
	}
	return ids, nil
}

func (s *recordingStore) SimilaritySearch(_ context.Context, _ string, k int, _ ...vectorstores.Option) ([]schema.Document, error) {
	s.searchCalls++
	if s.searchErr != nil && (s.failFirst == 0 || s.searchCalls <= s.failFirst) {
		return nil, s.searchErr
	}
	if k < len(s.results) {
		return s.results[:k], nil
	}
	return s.results, nil
}
