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
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"

	"github.com/gamecoded/lethu/pkg/logger"
)

var (
	// ErrNoAnswer means the model returned nothing that could be shown.
	ErrNoAnswer = errors.New("no answer text could be extracted")
	// ErrStreamingUnsupported means the configured client cannot stream.
	ErrStreamingUnsupported = errors.New("streaming is not supported by this client")
)

// LLMConfig identifies a model on a provider endpoint.
type LLMConfig struct {
	Apiurl   string
	AiModel  string
	APIToken string
}

// LLMClient abstracts a model provider able to serve chat and embeddings.
type LLMClient interface {
	NewLLMClient() (llms.Model, error)
	NewEmbedder() (embeddings.Embedder, error)
	GetConfig() LLMConfig
	initialized() bool
}

type streamingCapable interface {
	SupportsStreaming() bool
}

// NewProvider returns the controller for a provider name ("ollama" or "openai").
func NewProvider(provider string, cfg LLMConfig) (LLMClient, error) {
	switch provider {
	case "", "ollama":
		return &OllamaController{Config: cfg}, nil
	case "openai":
		return &OpenAIController{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

// Generator produces one blocking answer for a prompt template.
type Generator interface {
	Generate(ctx context.Context, tmpl prompts.PromptTemplate, values map[string]any, options ...CallOption) (string, error)
}

// Streamer delivers an answer in chunks. It reports how many chunks were
// delivered before any error.
type Streamer interface {
	Stream(ctx context.Context, tmpl prompts.PromptTemplate, values map[string]any, fn func(chunk string) error, options ...CallOption) (int, error)
}

// Tutor is the model adapter used by the session.
//
// Fields:
//   - LLMClient: provider controller used by Init to build Model.
//   - Model: the chat model. Set directly to bypass Init.
//   - Temperature: default sampling temperature.
//   - Streaming: whether Stream may be used at all.
//   - Logger: receives chain fallbacks and call failures.
type Tutor struct {
	LLMClient   LLMClient
	Model       llms.Model
	Temperature float64
	Streaming   bool
	Logger      logger.ILogger
}

// Init builds the chat model from LLMClient when Model is not already set.
func (t *Tutor) Init() error {
	t.Logger = orNop(t.Logger)
	if t.Model != nil {
		return nil
	}
	if t.LLMClient == nil {
		return errors.New("missing llm client")
	}

	model, err := t.LLMClient.NewLLMClient()
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	t.Model = model
	return nil
}

// Generate runs the template through an LLM chain. If the chain fails, the
// formatted prompt is sent to the model directly. ErrNoAnswer is returned when
// neither path yields text.
func (t *Tutor) Generate(ctx context.Context, tmpl prompts.PromptTemplate, values map[string]any, options ...CallOption) (string, error) {
	if t.Model == nil {
		return "", errors.New("missing llm model")
	}
	log := orNop(t.Logger)
	o := t.callOptions(options)

	chain := chains.NewLLMChain(t.Model, tmpl)
	out, err := chains.Call(ctx, chain, values, o.chainOptions()...)
	if err == nil {
		return answerText(NormalizeAnswer(out))
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	log.Debug("llm", "chain call failed, calling model directly", map[string]interface{}{"error": err.Error()})

	prompt, err := tmpl.Format(values)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, t.Model, prompt, o.llmOptions()...)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return answerText(NormalizeAnswer(resp))
}

// Stream formats the template and forwards every chunk to fn in delivery order.
func (t *Tutor) Stream(ctx context.Context, tmpl prompts.PromptTemplate, values map[string]any, fn func(chunk string) error, options ...CallOption) (int, error) {
	if !t.CanStream() {
		return 0, ErrStreamingUnsupported
	}
	o := t.callOptions(options)

	prompt, err := tmpl.Format(values)
	if err != nil {
		return 0, fmt.Errorf("format prompt: %w", err)
	}

	chunks := 0
	streamOpt := llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		chunks++
		return fn(string(chunk))
	})

	_, err = llms.GenerateFromSinglePrompt(ctx, t.Model, prompt, append(o.llmOptions(), streamOpt)...)
	if err != nil {
		return chunks, fmt.Errorf("stream: %w", err)
	}
	return chunks, nil
}

// CanStream reports whether streaming is enabled and the client supports it.
func (t *Tutor) CanStream() bool {
	if !t.Streaming || t.Model == nil {
		return false
	}
	if t.LLMClient == nil {
		return true
	}
	if sc, ok := t.LLMClient.(streamingCapable); ok {
		return sc.SupportsStreaming()
	}
	return false
}

func answerText(a Answer) (string, error) {
	if a.Kind == AnswerNone {
		return "", ErrNoAnswer
	}
	return a.Text, nil
}

func orNop(l logger.ILogger) logger.ILogger {
	if l == nil {
		return logger.NewNop()
	}
	return l
}
