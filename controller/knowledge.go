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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gamecoded/lethu/pkg/logger"
)

// ReferenceRecord is one row of the knowledge file.
type ReferenceRecord struct {
	Language    string
	Concept     string
	Description string
	Example     string
}

const recordFields = 4

// LoadKnowledge reads the knowledge file at path. Only an unreadable path is an error;
// malformed rows are repaired.
func LoadKnowledge(path string) ([]ReferenceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge file: %w", err)
	}
	defer f.Close()

	return ParseKnowledge(f)
}

// ParseKnowledge parses CSV rows into records. A tolerant CSV parse is tried
// first; when it fails each line is split on commas instead.
func ParseKnowledge(r io.Reader) ([]ReferenceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read knowledge: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	rows, err := parseCSV(data)
	if err != nil {
		rows = splitLines(data)
	}

	records := make([]ReferenceRecord, 0, len(rows))
	first := true
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		// only the first non-blank row can be the header
		header := first && strings.EqualFold(strings.TrimSpace(row[0]), "language")
		first = false
		if header {
			continue
		}
		records = append(records, normalizeRow(row))
	}
	return records, nil
}

func parseCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func splitLines(data []byte) [][]string {
	var rows [][]string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}
	return rows
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// normalizeRow pads short rows and joins fields past the fourth into the example.
func normalizeRow(row []string) ReferenceRecord {
	fields := make([]string, recordFields)
	for i, f := range row {
		f = strings.TrimSpace(f)
		if i < recordFields {
			fields[i] = f
			continue
		}
		fields[recordFields-1] += " " + f
	}
	return ReferenceRecord{
		Language:    fields[0],
		Concept:     fields[1],
		Description: fields[2],
		Example:     fields[3],
	}
}

// SupplementLoader turns reference files under <Dir>/<language>/ into records.
type SupplementLoader struct {
	Dir          string
	Transcriber  *Transcriber
	ChunkSize    int
	ChunkOverlap int
	Logger       logger.ILogger
}

// Load walks the supplement directory. Folders that are not a supported language
// are ignored; unreadable files are logged and skipped.
func (sl SupplementLoader) Load(ctx context.Context) ([]ReferenceRecord, error) {
	if sl.Dir == "" {
		return nil, nil
	}
	log := orNop(sl.Logger)
	entries, err := os.ReadDir(sl.Dir)
	if err != nil {
		return nil, fmt.Errorf("read supplement dir: %w", err)
	}

	var records []ReferenceRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		lang, ok := ParseLanguage(entry.Name())
		if !ok {
			continue
		}

		langDir := filepath.Join(sl.Dir, entry.Name())
		files, err := os.ReadDir(langDir)
		if err != nil {
			log.Warn("knowledge", "cannot read supplement folder", map[string]interface{}{"dir": langDir, "error": err.Error()})
			continue
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			path := filepath.Join(langDir, file.Name())

			text, err := sl.Transcriber.TranscribeFile(ctx, path)
			if err != nil {
				log.Warn("knowledge", "skipping supplement file", map[string]interface{}{"file": path, "error": err.Error()})
				continue
			}

			chunks, err := SplitText(text, sl.ChunkSize, sl.ChunkOverlap)
			if err != nil {
				log.Warn("knowledge", "cannot split supplement file", map[string]interface{}{"file": path, "error": err.Error()})
				continue
			}

			concept := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			for _, chunk := range chunks {
				records = append(records, ReferenceRecord{
					Language:    lang.Title(),
					Concept:     concept,
					Description: chunk,
				})
			}
		}
	}
	return records, nil
}
