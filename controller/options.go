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
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
)

// CallOptions tunes a single generation call.
type CallOptions struct {
	Temperature float64
	MaxTokens   int
}

type CallOption func(*CallOptions)

// WithTemperature overrides the tutor's default temperature for one call.
func WithTemperature(temperature float64) CallOption {
	return func(o *CallOptions) {
		o.Temperature = temperature
	}
}

// WithMaxTokens caps the length of the generated answer.
func WithMaxTokens(maxTokens int) CallOption {
	return func(o *CallOptions) {
		o.MaxTokens = maxTokens
	}
}

func (t *Tutor) callOptions(options []CallOption) CallOptions {
	o := CallOptions{Temperature: t.Temperature}
	for _, opt := range options {
		opt(&o)
	}
	return o
}

func (o CallOptions) chainOptions() []chains.ChainCallOption {
	opts := []chains.ChainCallOption{chains.WithTemperature(o.Temperature)}
	if o.MaxTokens > 0 {
		opts = append(opts, chains.WithMaxTokens(o.MaxTokens))
	}
	return opts
}

func (o CallOptions) llmOptions() []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(o.Temperature)}
	if o.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(o.MaxTokens))
	}
	return opts
}
