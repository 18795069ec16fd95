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
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// AnswerKind records which result shape a model call produced.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerMapping
	AnswerObject
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerText:
		return "text"
	case AnswerMapping:
		return "mapping"
	case AnswerObject:
		return "object"
	default:
		return "none"
	}
}

// Answer is the single normalized result of a generation call.
type Answer struct {
	Kind AnswerKind
	Text string
}

// answerKeys are the mapping entries that may hold the generated text, in priority order.
var answerKeys = []string{"text", "output_text", "output text", "response"}

type texter interface{ Text() string }
type outputTexter interface{ OutputText() string }
type contenter interface{ Content() string }

// NormalizeAnswer extracts text from a model result. Blank text yields AnswerNone.
func NormalizeAnswer(v any) Answer {
	kind, text := AnswerNone, ""

	switch r := v.(type) {
	case nil:
	case string:
		kind, text = AnswerText, r
	case []byte:
		kind, text = AnswerText, string(r)
	case map[string]any:
		kind, text = AnswerMapping, fromMapping(r)
	case map[string]string:
		m := make(map[string]any, len(r))
		for k, s := range r {
			m[k] = s
		}
		kind, text = AnswerMapping, fromMapping(m)
	case *llms.ContentResponse:
		if r != nil && len(r.Choices) > 0 && r.Choices[0] != nil {
			kind, text = AnswerObject, r.Choices[0].Content
		}
	case texter:
		kind, text = AnswerObject, r.Text()
	case outputTexter:
		kind, text = AnswerObject, r.OutputText()
	case contenter:
		kind, text = AnswerObject, r.Content()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Answer{Kind: AnswerNone}
	}
	return Answer{Kind: kind, Text: text}
}

func fromMapping(m map[string]any) string {
	for _, key := range answerKeys {
		if v, ok := m[key]; ok {
			if a := NormalizeAnswer(v); a.Kind != AnswerNone {
				return a.Text
			}
		}
	}
	return ""
}
