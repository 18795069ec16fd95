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
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIController wraps any OpenAI-compatible endpoint.
type OpenAIController struct {
	Config        LLMConfig
	LLMController *openai.LLM
}

func (oc *OpenAIController) NewEmbedder() (embeddings.Embedder, error) {
	if !oc.initialized() {
		if _, err := oc.NewLLMClient(); err != nil {
			return nil, err
		}
	}
	return embeddings.NewEmbedder(oc.LLMController)
}

// NewLLMClient builds the client from the token, base URL and model in Config.
// An empty base URL keeps the library default.
func (oc *OpenAIController) NewLLMClient() (llms.Model, error) {
	opts := []openai.Option{
		openai.WithToken(oc.Config.APIToken),
		openai.WithModel(oc.Config.AiModel),
		openai.WithEmbeddingModel(oc.Config.AiModel),
	}
	if oc.Config.Apiurl != "" {
		opts = append(opts, openai.WithBaseURL(oc.Config.Apiurl))
	}

	var err error
	oc.LLMController, err = openai.New(opts...)
	return oc.LLMController, err
}

func (oc *OpenAIController) SupportsStreaming() bool {
	return true
}

func (oc *OpenAIController) initialized() bool {
	return oc.LLMController != nil
}

func (oc *OpenAIController) GetConfig() LLMConfig {
	return oc.Config
}
