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
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Render formats markdown for the terminal. On failure the content is
// returned unchanged.
func Render(content string) string {
	md, err := glamour.Render(content, "auto")

	if err != nil {
		return content
	}

	return strings.TrimSpace(md)
}
