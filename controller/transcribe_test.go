package lethu

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestTranscribeFile_PlainText(t *testing.T) {
	path := writeFile(t, "loops.txt", []byte("Loops\n\n\n\tA for loop repeats code.\n--------\nwhile loops too.\n"))

	ts := &Transcriber{}
	text, err := ts.TranscribeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Loops\nA for loop repeats code.\nwhile loops too.", text)
}

func TestTranscribeFile_HTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>Selectors</title></head>
<body>
<h1>CSS Selectors</h1>
<p>Selectors pick the elements a rule applies to.</p>
<ul><li>#id</li><li>.class</li></ul>
<script>console.log("ignored")</script>
<table><tr><th>Selector</th><th>Matches</th></tr><tr><td>p</td><td>paragraphs</td></tr></table>
</body></html>`
	path := writeFile(t, "selectors.html", []byte(page))

	ts := &Transcriber{}
	text, err := ts.TranscribeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "Selectors\nCSS Selectors\nSelectors pick the elements a rule applies to.")
	assert.Contains(t, text, "#id\n.class")
	assert.Contains(t, text, "Selector | Matches | \np | paragraphs | ")
	assert.NotContains(t, text, "console.log")
}

func TestTranscribeFile_NeedsTika(t *testing.T) {
	// gzip magic bytes
	path := writeFile(t, "notes.gz", []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00})

	ts := &Transcriber{}
	_, err := ts.TranscribeFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTranscribeFile_Missing(t *testing.T) {
	ts := &Transcriber{}
	_, err := ts.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestCleanupText(t *testing.T) {
	assert.Equal(t, "a\nb", cleanupText("\ta\n \n\n\nb\n"))
	assert.Equal(t, "", cleanupText("--------"))
}
