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
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

// FollowUp is the action picked after an answer.
type FollowUp int

const (
	FollowUpSkip FollowUp = iota
	FollowUpExample
	FollowUpQuiz
	FollowUpMore
)

// ParseFollowUp matches on the first letter: e, q or m. Anything else skips.
func ParseFollowUp(input string) FollowUp {
	input = strings.ToLower(strings.TrimSpace(input))
	switch {
	case strings.HasPrefix(input, "e"):
		return FollowUpExample
	case strings.HasPrefix(input, "q"):
		return FollowUpQuiz
	case strings.HasPrefix(input, "m"):
		return FollowUpMore
	default:
		return FollowUpSkip
	}
}

// followUp offers the extra actions for the last answer. Only input errors are
// returned; generation failures are reported and the session goes on.
func (s *Session) followUp(ctx context.Context) error {
	choice, err := s.Console.Prompt(ctx, "Want more? (e)xample, (q)uiz, (m)ore detail, or Enter to skip: ")
	if err != nil {
		return err
	}

	last, ok := s.History.Last()
	if !ok {
		return nil
	}

	values := map[string]any{
		"question": last.Question,
		"answer":   last.Answer,
		"language": s.language.Title(),
		"level":    string(s.level),
	}

	switch ParseFollowUp(choice) {
	case FollowUpExample:
		s.followUpAnswer(ctx, "example", ExamplePrompt(), values)
	case FollowUpQuiz:
		return s.quiz(ctx, values)
	case FollowUpMore:
		s.followUpAnswer(ctx, "more detail", MoreDetailPrompt(), values)
	}
	return nil
}

func (s *Session) followUpAnswer(ctx context.Context, name string, tmpl prompts.PromptTemplate, values map[string]any, options ...CallOption) (string, bool) {
	answer, err := s.Generator.Generate(ctx, tmpl, values, options...)
	if errors.Is(err, context.Canceled) {
		return "", false
	}
	if err != nil {
		s.Logger.Error("session", "follow-up failed", map[string]interface{}{"follow_up": name, "error": err})
		s.Console.Diagnostic(fmt.Sprintf("Sorry, I couldn't prepare the %s: %v", name, err))
		return "", false
	}
	s.Console.Answer(s.language, answer)
	return answer, true
}

// quiz asks one multiple-choice question and grades the learner's letter.
func (s *Session) quiz(ctx context.Context, values map[string]any) error {
	question, ok := s.followUpAnswer(ctx, "quiz", QuizPrompt(), values)
	if !ok {
		return nil
	}

	choice, err := s.Console.Prompt(ctx, "Your answer (A/B/C/D): ")
	if err != nil {
		return err
	}
	choice = strings.ToUpper(strings.TrimSpace(choice))
	if choice == "" {
		return nil
	}

	s.followUpAnswer(ctx, "quiz feedback", GradePrompt(), map[string]any{
		"quiz":     question,
		"choice":   choice,
		"language": s.language.Title(),
	}, WithTemperature(0))
	return nil
}
