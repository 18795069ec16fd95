package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewZapLogger_NopWhenNothingConfigured(t *testing.T) {
	l := NewZapLogger(Options{})

	assert.NotPanics(t, func() {
		l.Debug("test", "hidden", nil)
		l.Error("test", "hidden", map[string]interface{}{"error": errors.New("boom")})
	})
}

func TestNewZapLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lethu.log")
	l := NewZapLogger(Options{FilePath: path})

	l.Info("indexer", "documents indexed", map[string]interface{}{"count": 3})
	l.Debug("indexer", "below file level", nil)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"documents indexed"`)
	assert.Contains(t, string(data), `"module":"indexer"`)
	assert.NotContains(t, string(data), "below file level")
}
