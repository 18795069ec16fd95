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
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/gamecoded/lethu/pkg/logger"
)

// SessionConfig holds the tunables of one tutoring session.
type SessionConfig struct {
	K         int  // snippets requested per question
	AskLevel  bool // ask for beginner/intermediate/advanced after the language
	FollowUps bool // offer example/quiz/more detail after blocking answers
}

// Session is the interactive tutor loop:
// AwaitLanguage, AwaitLevel, then AwaitQuestion, Retrieve, Generate and AwaitFollowUp until exit.
type Session struct {
	ID        string
	Console   *Console
	Searcher  Searcher
	Generator Generator
	// Streamer is used for main answers when set. Follow-ups always block.
	Streamer Streamer
	Config   SessionConfig
	History  *History
	Logger   logger.ILogger

	language Language
	level    Level
}

// NewSession creates a session with a fresh id and an empty history.
func NewSession(console *Console, searcher Searcher, gen Generator, cfg SessionConfig, log logger.ILogger) *Session {
	if searcher == nil {
		searcher = EmptySearcher{}
	}
	return &Session{
		ID:        uuid.NewString(),
		Console:   console,
		Searcher:  searcher,
		Generator: gen,
		Config:    cfg,
		History:   NewHistory(0),
		Logger:    orNop(log),
	}
}

func (s *Session) Language() Language { return s.language }
func (s *Session) Level() Level       { return s.level }

// Run drives the session until the learner types exit or input ends, both
// returning nil. A cancelled ctx ends it with ctx.Err().
func (s *Session) Run(ctx context.Context) error {
	if s.History == nil {
		s.History = NewHistory(0)
	}
	s.Logger = orNop(s.Logger)
	s.Logger.Info("session", "session started", map[string]interface{}{"session_id": s.ID})

	s.Console.Println("Hi, I'm Lethu 👋 your coding tutor for Python, HTML, CSS and JavaScript.")

	if err := s.awaitLanguage(ctx); err != nil {
		return endOfInput(err)
	}
	if s.Config.AskLevel {
		if err := s.awaitLevel(ctx); err != nil {
			return endOfInput(err)
		}
	}
	s.Console.Printf("Great choice! Let's learn %s %s\n", s.language.Title(), s.language.Emoji())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.Console.Separator()
		question, err := s.Console.Prompt(ctx, "Ask Lethu a coding question (or type 'exit' to quit): ")
		if err != nil {
			return endOfInput(err)
		}

		question = strings.TrimSpace(question)
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "exit") {
			s.Console.Println("Goodbye! Keep coding 💪")
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if s.Ask(ctx, question) && s.Config.FollowUps {
			if err := s.followUp(ctx); err != nil {
				return endOfInput(err)
			}
		}
	}
}

func (s *Session) awaitLanguage(ctx context.Context) error {
	for {
		input, err := s.Console.Prompt(ctx, fmt.Sprintf("Which language do you want to learn? (%s): ", languageChoices()))
		if err != nil {
			return err
		}
		if lang, ok := ParseLanguage(input); ok {
			s.language = lang
			return nil
		}
		s.Console.Println("Please choose one of: " + languageChoices())
	}
}

func (s *Session) awaitLevel(ctx context.Context) error {
	for {
		input, err := s.Console.Prompt(ctx, fmt.Sprintf("What is your level? (%s): ", levelChoices()))
		if err != nil {
			return err
		}
		if level, ok := ParseLevel(input); ok {
			s.level = level
			return nil
		}
		s.Console.Println("Please choose one of: " + levelChoices())
	}
}

// Ask answers one question. It returns true when a blocking answer was
// printed, which is when follow-ups may be offered.
func (s *Session) Ask(ctx context.Context, question string) bool {
	snippets := FilterByLanguage(s.Searcher.Search(ctx, question, s.Config.K), s.language)
	retrieved := JoinContext(snippets)

	s.Logger.Debug("session", "context retrieved", map[string]interface{}{
		"session_id": s.ID,
		"snippets":   len(snippets),
	})

	values := map[string]any{
		"context":  retrieved,
		"question": question,
		"language": s.language.Title(),
		"level":    string(s.level),
	}

	s.Console.Println()
	s.Console.Label("Lethu's Response:")

	if s.Streamer != nil {
		var answer strings.Builder
		chunks, err := s.Streamer.Stream(ctx, TutorPrompt(), values, func(chunk string) error {
			answer.WriteString(chunk)
			return s.Console.Chunk(chunk)
		})

		switch {
		case err == nil && chunks == 0:
			s.Console.Println(NoAnswerMessage)
			return false
		case err == nil:
			s.Console.Println()
			s.remember(question, retrieved, answer.String())
			return false
		case chunks > 0:
			s.Console.Println()
			s.Console.Diagnostic(fmt.Sprintf("The answer was cut off: %v", err))
			s.Logger.Warn("session", "stream interrupted", map[string]interface{}{"error": err.Error(), "chunks": chunks})
			return false
		case ctx.Err() != nil:
			return false
		}
		s.Logger.Debug("session", "stream failed before first chunk, using blocking call", map[string]interface{}{"error": err.Error()})
	}

	answer, err := s.Generator.Generate(ctx, TutorPrompt(), values)
	if err != nil {
		s.reportGenerateError(err)
		return false
	}

	s.Console.Answer(s.language, answer)
	s.remember(question, retrieved, answer)
	return true
}

func (s *Session) remember(question, retrieved, answer string) {
	s.History.Add(Exchange{
		Question: question,
		Context:  retrieved,
		Answer:   answer,
		Language: s.language,
	})
}

func (s *Session) reportGenerateError(err error) {
	if errors.Is(err, context.Canceled) {
		s.Logger.Debug("session", "generation cancelled", nil)
		return
	}
	s.Logger.Error("session", "generation failed", map[string]interface{}{"error": err})
	if !errors.Is(err, ErrNoAnswer) {
		s.Console.Diagnostic(fmt.Sprintf("Could not reach the language model: %v", err))
	}
	s.Console.Println(NoAnswerMessage)
}

// endOfInput turns io.EOF into a normal session end.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
