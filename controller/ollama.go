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
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaController wraps a local Ollama server, used for both chat and embeddings.
type OllamaController struct {
	Config        LLMConfig
	LLMController *ollama.LLM
}

// NewEmbedder returns an embedder backed by the configured Ollama model,
// creating the client on first use.
func (oc *OllamaController) NewEmbedder() (embeddings.Embedder, error) {
	if !oc.initialized() {
		if _, err := oc.NewLLMClient(); err != nil {
			return nil, err
		}
	}
	return embeddings.NewEmbedder(oc.LLMController)
}

// NewLLMClient connects to the Ollama server at Config.Apiurl with Config.AiModel.
func (oc *OllamaController) NewLLMClient() (llms.Model, error) {
	var err error
	oc.LLMController, err = ollama.New(ollama.WithServerURL(oc.Config.Apiurl), ollama.WithModel(oc.Config.AiModel))
	return oc.LLMController, err
}

func (oc *OllamaController) SupportsStreaming() bool {
	return true
}

func (oc *OllamaController) initialized() bool {
	return oc.LLMController != nil
}

func (oc *OllamaController) GetConfig() LLMConfig {
	return oc.Config
}
