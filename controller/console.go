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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/gamecoded/lethu/pkg/markdown"
)

const separatorLine = "--------------------------------"

var (
	promptColor     = color.New(color.FgCyan, color.Bold)
	labelColor      = color.New(color.FgGreen, color.Bold)
	diagnosticColor = color.New(color.FgYellow)
)

// Console reads learner input line by line and prints the tutor's output.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	Markdown bool

	once    sync.Once
	lines   chan string
	readErr error
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Prompt prints label and returns the next input line without its line ending.
// io.EOF is returned once input is exhausted and ctx.Err() once ctx is done,
// even while waiting for the learner to type.
func (c *Console) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.once.Do(func() {
		c.lines = make(chan string)
		go c.readLines()
	})

	fmt.Fprint(c.out, promptColor.Sprint(label))

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-c.lines:
		if !ok {
			return "", c.readErr
		}
		return line, nil
	}
}

// readLines feeds input lines to Prompt. A read error closes the channel.
func (c *Console) readLines() {
	for {
		line, err := c.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line != "" {
				c.lines <- strings.TrimRight(line, "\r\n")
			}
			c.readErr = err
			close(c.lines)
			return
		}
		c.lines <- strings.TrimRight(line, "\r\n")
	}
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Separator() {
	fmt.Fprintln(c.out, "\n"+separatorLine)
}

func (c *Console) Label(text string) {
	fmt.Fprintln(c.out, labelColor.Sprint(text))
}

// Chunk writes a streamed piece of the answer as is.
func (c *Console) Chunk(s string) error {
	_, err := io.WriteString(c.out, s)
	return err
}

// Answer prints a decorated answer, rendering markdown first when enabled.
func (c *Console) Answer(lang Language, text string) {
	if c.Markdown {
		text = markdown.Render(text)
	}
	fmt.Fprintln(c.out, lang.Decorate(text))
}

func (c *Console) Diagnostic(msg string) {
	fmt.Fprintln(c.out, diagnosticColor.Sprint(msg))
}
