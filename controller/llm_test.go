package lethu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errModel = errors.New("model offline")

func tutorValues() map[string]any {
	return map[string]any{
		"context":  "Loops Repeats code",
		"question": "how do I loop in python",
		"language": "Python",
		"level":    "",
	}
}

func TestTutor_GenerateUsesChain(t *testing.T) {
	model := &fakeModel{replies: []string{"Use a for loop."}}
	tutor := &Tutor{Model: model}
	require.NoError(t, tutor.Init())

	answer, err := tutor.Generate(context.Background(), TutorPrompt(), tutorValues())
	require.NoError(t, err)
	assert.Equal(t, "Use a for loop.", answer)
	assert.Equal(t, 1, model.calls())
	assert.Contains(t, model.prompt(0), "how do I loop in python")
	assert.Contains(t, model.prompt(0), "Loops Repeats code")
}

func TestTutor_GenerateFallsBackToDirectCall(t *testing.T) {
	model := &fakeModel{
		replies: []string{"", "Direct answer."},
		failOn:  map[int]error{0: errModel},
	}
	tutor := &Tutor{Model: model}

	answer, err := tutor.Generate(context.Background(), TutorPrompt(), tutorValues())
	require.NoError(t, err)
	assert.Equal(t, "Direct answer.", answer)
	assert.Equal(t, 2, model.calls())
	assert.Equal(t, model.prompt(0), model.prompt(1), "direct call sends the same prompt")
}

func TestTutor_GenerateAllPathsFail(t *testing.T) {
	model := &fakeModel{failOn: map[int]error{0: errModel, 1: errModel}}
	tutor := &Tutor{Model: model}

	_, err := tutor.Generate(context.Background(), TutorPrompt(), tutorValues())
	assert.ErrorIs(t, err, errModel)
}

func TestTutor_GenerateBlankAnswer(t *testing.T) {
	tutor := &Tutor{Model: &fakeModel{replies: []string{"   "}}}

	_, err := tutor.Generate(context.Background(), TutorPrompt(), tutorValues())
	assert.ErrorIs(t, err, ErrNoAnswer)
}

func TestTutor_Stream(t *testing.T) {
	model := &fakeModel{chunks: []string{"Use ", "a for ", "loop."}}
	tutor := &Tutor{Model: model, Streaming: true}

	var got []string
	n, err := tutor.Stream(context.Background(), TutorPrompt(), tutorValues(), func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"Use ", "a for ", "loop."}, got)
}

func TestTutor_StreamInterrupted(t *testing.T) {
	model := &fakeModel{chunks: []string{"Use ", "a for "}, streamErr: errModel, streamErrAfter: 1}
	tutor := &Tutor{Model: model, Streaming: true}

	var got strings.Builder
	n, err := tutor.Stream(context.Background(), TutorPrompt(), tutorValues(), func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	assert.ErrorIs(t, err, errModel)
	assert.Equal(t, 1, n)
	assert.Equal(t, "Use ", got.String())
}

func TestTutor_StreamDisabled(t *testing.T) {
	tutor := &Tutor{Model: &fakeModel{}, Streaming: false}

	_, err := tutor.Stream(context.Background(), TutorPrompt(), tutorValues(), func(string) error { return nil })
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestTutor_InitRequiresClient(t *testing.T) {
	tutor := &Tutor{}
	assert.Error(t, tutor.Init())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("ollama", LLMConfig{Apiurl: "http://127.0.0.1:11434", AiModel: "llama3.2"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaController{}, p)
	assert.Equal(t, "llama3.2", p.GetConfig().AiModel)

	p, err = NewProvider("openai", LLMConfig{AiModel: "gpt-4o-mini", APIToken: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIController{}, p)

	_, err = NewProvider("gemini", LLMConfig{})
	assert.Error(t, err)
}

func TestTutor_CanStream(t *testing.T) {
	tutor := &Tutor{
		LLMClient: &OllamaController{Config: LLMConfig{Apiurl: "http://127.0.0.1:11434", AiModel: "llama3.2"}},
		Streaming: true,
	}
	require.NoError(t, tutor.Init())
	assert.True(t, tutor.CanStream())

	tutor.Streaming = false
	assert.False(t, tutor.CanStream())
}

func TestTutorPrompt(t *testing.T) {
	out, err := TutorPrompt().Format(tutorValues())
	require.NoError(t, err)
	assert.Contains(t, out, RefusalLine)
	assert.Contains(t, out, "Loops Repeats code")
	assert.Contains(t, out, "learning **Python**")
	assert.NotContains(t, out, "Their level")

	values := tutorValues()
	values["level"] = "beginner"
	out, err = TutorPrompt().Format(values)
	require.NoError(t, err)
	assert.Contains(t, out, "Their level is **beginner**")
}
