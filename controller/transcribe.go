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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/go-tika/tika"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedFormat is returned for files that need Tika when no Tika server is configured.
var ErrUnsupportedFormat = errors.New("file type not supported without a tika server")

// Transcriber extracts plain text from supplementary reference files.
//
// Fields:
//   - MaxPageLimit: PDFs with more pages than this are rejected. Defaults to 20.
//   - TikaURL: Apache Tika server used for formats not handled natively. Optional.
//   - MaxTimeout: Tika processing timeout. Defaults to one minute.
type Transcriber struct {
	MaxPageLimit uint
	TikaURL      string
	MaxTimeout   time.Duration
}

// TranscribeFile detects the file type and returns its cleaned text content.
func (ts *Transcriber) TranscribeFile(ctx context.Context, fileName string) (string, error) {
	mtype, err := mimetype.DetectFile(fileName)
	if err != nil {
		return "", err
	}
	mimeType := mtype.String()

	switch {
	case strings.Contains(mimeType, "application/pdf"):
		return ts.getPDFContents(ctx, fileName)
	case strings.Contains(mimeType, "text/html"):
		fileContents, err := os.ReadFile(fileName)
		if err != nil {
			return "", err
		}
		return extractHTMLContent(fileContents), nil
	case strings.Contains(mimeType, "text/plain"), strings.Contains(mimeType, "text/csv"):
		fileContents, err := os.ReadFile(fileName)
		if err != nil {
			return "", err
		}
		return cleanupText(string(fileContents)), nil
	default:
		return ts.getContentsFromTika(ctx, fileName)
	}
}

func (ts *Transcriber) pageLimit() int {
	if ts.MaxPageLimit == 0 {
		return 20
	}
	return int(ts.MaxPageLimit)
}

// getPDFContents reads text with the native PDF reader, or through Tika when one is configured.
func (ts *Transcriber) getPDFContents(ctx context.Context, inputPath string) (string, error) {
	f, r, err := pdf.Open(inputPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pageCount := r.NumPage()
	if pageCount > ts.pageLimit() {
		return "", fmt.Errorf("pdf file has %d pages, more than the limit of %d", pageCount, ts.pageLimit())
	}

	if ts.TikaURL != "" {
		return ts.getContentsFromTika(ctx, inputPath)
	}

	var output strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf page %d: %w", i, err)
		}
		output.WriteString(text)
		output.WriteString("\n")
	}
	return cleanupText(output.String()), nil
}

func (ts *Transcriber) getContentsFromTika(ctx context.Context, inputPath string) (string, error) {
	if ts.TikaURL == "" {
		return "", ErrUnsupportedFormat
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	timeout := ts.MaxTimeout
	if timeout == 0 {
		timeout = time.Minute
	}

	header := http.Header{"Accept": []string{"text/plain"}}
	header.Add("X-Tika-Timeout-Millis", fmt.Sprintf("%d", timeout.Milliseconds()))

	client := tika.NewClient(nil, ts.TikaURL)
	body, err := client.ParseReaderWithHeader(ctx, f, header)
	if err != nil {
		return "", err
	}
	defer body.Close()

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, body); err != nil {
		return "", err
	}
	return cleanupText(buf.String()), nil
}

// cleanupText drops tabs, dash rulers and repeated blank lines.
func cleanupText(textContent string) string {
	textContent = strings.ReplaceAll(textContent, "\t", "")
	for strings.Contains(textContent, "----") {
		textContent = strings.ReplaceAll(textContent, "----", "")
	}
	for strings.Contains(textContent, "\n \n") {
		textContent = strings.ReplaceAll(textContent, "\n \n", "\n")
	}
	for strings.Contains(textContent, "\n\n") {
		textContent = strings.ReplaceAll(textContent, "\n\n", "\n")
	}
	return strings.TrimSpace(textContent)
}

// extractHTMLContent keeps the title, headings, paragraphs, list items, code blocks and tables.
func extractHTMLContent(htmlBytes []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBytes))
	if err != nil {
		return ""
	}

	var output strings.Builder

	title := doc.Find("title").First().Text()
	if title != "" {
		output.WriteString(strings.TrimSpace(title) + "\n")
	}

	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			output.WriteString(text + "\n")
		}
	})

	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		output.WriteString("[Table Start]\n")

		var headers []string
		table.Find("th").Each(func(j int, header *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(header.Text()))
		})
		if len(headers) > 0 {
			output.WriteString(strings.Join(headers, " | ") + " | \n")
		}

		table.Find("tr").Each(func(j int, row *goquery.Selection) {
			var rowData []string
			row.Find("td").Each(func(k int, cell *goquery.Selection) {
				rowData = append(rowData, strings.TrimSpace(cell.Text()))
			})
			if len(rowData) > 0 {
				output.WriteString(strings.Join(rowData, " | ") + " | \n")
			}
		})

		output.WriteString("[Table End]\n")
	})

	return strings.TrimSpace(output.String())
}
