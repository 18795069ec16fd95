package lethu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

type textResult struct{ text string }

func (r textResult) Text() string { return r.text }

type outputTextResult struct{ text string }

func (r outputTextResult) OutputText() string { return r.text }

type contentResult struct{ content string }

func (r contentResult) Content() string { return r.content }

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Answer
	}{
		{"plain string", "  Loops repeat code. ", Answer{Kind: AnswerText, Text: "Loops repeat code."}},
		{"bytes", []byte("hi"), Answer{Kind: AnswerText, Text: "hi"}},
		{"mapping text", map[string]any{"text": "from chain"}, Answer{Kind: AnswerMapping, Text: "from chain"}},
		{"mapping output_text", map[string]any{"output_text": "out"}, Answer{Kind: AnswerMapping, Text: "out"}},
		{"mapping response", map[string]string{"response": "resp"}, Answer{Kind: AnswerMapping, Text: "resp"}},
		{"mapping priority", map[string]any{"response": "second", "text": "first"}, Answer{Kind: AnswerMapping, Text: "first"}},
		{"mapping without text", map[string]any{"other": "x"}, Answer{Kind: AnswerNone}},
		{"content response", &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "choice"}}}, Answer{Kind: AnswerObject, Text: "choice"}},
		{"empty content response", &llms.ContentResponse{}, Answer{Kind: AnswerNone}},
		{"text object", textResult{"obj"}, Answer{Kind: AnswerObject, Text: "obj"}},
		{"output text object", outputTextResult{"obj2"}, Answer{Kind: AnswerObject, Text: "obj2"}},
		{"content object", contentResult{"obj3"}, Answer{Kind: AnswerObject, Text: "obj3"}},
		{"blank string", "   ", Answer{Kind: AnswerNone}},
		{"nil", nil, Answer{Kind: AnswerNone}},
		{"unknown type", 42, Answer{Kind: AnswerNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAnswer(tt.in))
		})
	}
}

func TestAnswerKind_String(t *testing.T) {
	assert.Equal(t, "none", AnswerNone.String())
	assert.Equal(t, "mapping", AnswerMapping.String())
}
