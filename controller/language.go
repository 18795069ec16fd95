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
	"fmt"
	"strings"
)

// Language is one of the four topics the tutor teaches.
type Language string

const (
	Python     Language = "python"
	HTML       Language = "html"
	CSS        Language = "css"
	JavaScript Language = "javascript"
)

// Languages lists the supported languages in menu order.
var Languages = []Language{Python, HTML, CSS, JavaScript}

var languageEmoji = map[Language]string{
	Python:     "🐍",
	HTML:       "🌐",
	CSS:        "🎨",
	JavaScript: "⚡",
}

var languageTitle = map[Language]string{
	Python:     "Python",
	HTML:       "HTML",
	CSS:        "CSS",
	JavaScript: "JavaScript",
}

// ParseLanguage matches trimmed, case-insensitive input against the supported languages.
func ParseLanguage(input string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(input)))
	_, ok := languageEmoji[l]
	return l, ok
}

func (l Language) Emoji() string {
	return languageEmoji[l]
}

func (l Language) Title() string {
	if t, ok := languageTitle[l]; ok {
		return t
	}
	return string(l)
}

// Decorate wraps a directly printed answer as "<emoji> <text> ✅".
func (l Language) Decorate(text string) string {
	return fmt.Sprintf("%s %s ✅", l.Emoji(), text)
}

// Level is the learner's self-reported difficulty level.
type Level string

const (
	Beginner     Level = "beginner"
	Intermediate Level = "intermediate"
	Advanced     Level = "advanced"
)

var Levels = []Level{Beginner, Intermediate, Advanced}

func ParseLevel(input string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(input)))
	for _, known := range Levels {
		if l == known {
			return l, true
		}
	}
	return l, false
}

func languageChoices() string {
	names := make([]string, 0, len(Languages))
	for _, l := range Languages {
		names = append(names, string(l))
	}
	return strings.Join(names, "/")
}

func levelChoices() string {
	names := make([]string, 0, len(Levels))
	for _, l := range Levels {
		names = append(names, string(l))
	}
	return strings.Join(names, "/")
}
