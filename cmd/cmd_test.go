package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lethu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	RootCmd.SetArgs(args)
	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearch_UnindexedStore(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "store:\n  dir: "+filepath.Join(dir, "store")+"\n")

	out, err := execute(t, "search", "--config", cfg, "-l", "", "-k", "0", "how", "do", "I", "loop")
	require.NoError(t, err)
	assert.Contains(t, out, "Top 0 snippets:")

	_, err = os.Stat(filepath.Join(dir, "store"))
	assert.True(t, os.IsNotExist(err), "searching must not create the store")
}

func TestSearch_UnknownLanguage(t *testing.T) {
	cfg := writeConfig(t, "store:\n  dir: "+filepath.Join(t.TempDir(), "store")+"\n")

	_, err := execute(t, "search", "--config", cfg, "-k", "0", "--language", "ruby", "blocks")
	assert.ErrorContains(t, err, `unknown language "ruby"`)
}

func TestIndex_MissingKnowledgeFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "knowledge:\n  file: "+filepath.Join(dir, "missing.csv")+"\nstore:\n  dir: "+filepath.Join(dir, "store")+"\n")

	_, err := execute(t, "index", "--config", cfg, "--rebuild=false")
	assert.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "store:\n  backend: mongo\n")

	_, err := execute(t, "search", "--config", cfg, "-l", "", "-k", "0", "loops")
	assert.ErrorContains(t, err, "invalid configuration")
}
