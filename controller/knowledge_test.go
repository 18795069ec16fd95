package lethu

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnowledge(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []ReferenceRecord
	}{
		{
			name:  "header dropped",
			input: "Language,Concept,Description,Example\nPython,Loops,Repeats code,for i in range(5): print(i)\n",
			want: []ReferenceRecord{
				{Language: "Python", Concept: "Loops", Description: "Repeats code", Example: "for i in range(5): print(i)"},
			},
		},
		{
			name:  "header after leading blank row dropped",
			input: ",,,\n\nLanguage,Concept,Description,Example\nHTML,Tags,Mark up,<p>\n",
			want: []ReferenceRecord{
				{Language: "HTML", Concept: "Tags", Description: "Mark up", Example: "<p>"},
			},
		},
		{
			name:  "language cell after first row is data",
			input: "Python,Loops,Repeats code,x\nlanguage,Concept,Description,Example\n",
			want: []ReferenceRecord{
				{Language: "Python", Concept: "Loops", Description: "Repeats code", Example: "x"},
				{Language: "language", Concept: "Concept", Description: "Description", Example: "Example"},
			},
		},
		{
			name:  "short rows padded",
			input: "CSS,Selectors\nHTML\n",
			want: []ReferenceRecord{
				{Language: "CSS", Concept: "Selectors"},
				{Language: "HTML"},
			},
		},
		{
			name:  "extra fields joined into example",
			input: "JavaScript,Functions,Reusable code,function add(a,b){return a+b}\n",
			want: []ReferenceRecord{
				{Language: "JavaScript", Concept: "Functions", Description: "Reusable code", Example: "function add(a b){return a+b}"},
			},
		},
		{
			name:  "blank rows skipped",
			input: "Python,Loops,Repeats code,x\n\n , , , \nHTML,Tags,Mark up,<p>\n",
			want: []ReferenceRecord{
				{Language: "Python", Concept: "Loops", Description: "Repeats code", Example: "x"},
				{Language: "HTML", Concept: "Tags", Description: "Mark up", Example: "<p>"},
			},
		},
		{
			name:  "quoted fields keep commas",
			input: "Python,Lists,\"Ordered, mutable\",\"[1, 2, 3]\"\n",
			want: []ReferenceRecord{
				{Language: "Python", Concept: "Lists", Description: "Ordered, mutable", Example: "[1, 2, 3]"},
			},
		},
		{
			name:  "stray quotes tolerated",
			input: "Python,Strings,Use \"quotes\" freely,print(\"hi\")\n",
			want: []ReferenceRecord{
				{Language: "Python", Concept: "Strings", Description: "Use \"quotes\" freely", Example: "print(\"hi\")"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  []ReferenceRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKnowledge(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRow_AlwaysFourFields(t *testing.T) {
	got := normalizeRow([]string{"Python", "Print", "Shows output", "print(1,", "2,", "3)"})
	assert.Equal(t, "print(1, 2, 3)", got.Example)

	got = normalizeRow(nil)
	assert.Equal(t, ReferenceRecord{}, got)
}

func TestSplitLines_Fallback(t *testing.T) {
	rows := splitLines([]byte("Python,Loops,Repeats\r\n\r\nCSS,Colors,Paint,red,blue\n"))
	require.Len(t, rows, 2)

	records := []ReferenceRecord{normalizeRow(rows[0]), normalizeRow(rows[1])}
	assert.Equal(t, ReferenceRecord{Language: "Python", Concept: "Loops", Description: "Repeats"}, records[0])
	assert.Equal(t, "red blue", records[1].Example)
}

func TestLoadKnowledge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffLanguage,Concept,Description,Example\nPython,Loops,Repeats code,for\n"), 0o644))

	records, err := LoadKnowledge(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Python", records[0].Language)

	_, err = LoadKnowledge(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestSupplementLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "python"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ruby"), 0o755))

	text := strings.Repeat("A while loop repeats while its condition is true. ", 6)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "python", "while_loops.txt"), []byte(text), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "python", "blob.bin"), []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ruby", "blocks.txt"), []byte("Ruby blocks"), 0o644))

	records, err := SupplementLoader{
		Dir:          dir,
		Transcriber:  &Transcriber{},
		ChunkSize:    100,
		ChunkOverlap: 10,
	}.Load(context.Background())
	require.NoError(t, err)

	require.Greater(t, len(records), 1)
	for _, r := range records {
		assert.Equal(t, "Python", r.Language)
		assert.Equal(t, "while_loops", r.Concept)
		assert.NotEmpty(t, r.Description)
		assert.Empty(t, r.Example)
	}
}

func TestSupplementLoader_NoDir(t *testing.T) {
	records, err := SupplementLoader{}.Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, records)
}
