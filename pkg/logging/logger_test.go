package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	logger, err := InitLogger("test", path)
	require.NoError(t, err)

	logger.Debug("volunteers not assigned", zap.Int("count", 2))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"volunteers not assigned"`)
	assert.Contains(t, string(data), `"count":2`)
	assert.Contains(t, string(data), `"env":"test"`)
}

func TestInitLogger_ConsoleOnly(t *testing.T) {
	logger, err := InitLogger("test", "")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNew_ConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("test", "", &buf)
	require.NoError(t, err)

	logger.Info("seeded", zap.Int("volunteers", 3))
	logger.Debug("hidden")
	_ = logger.Sync()

	assert.Contains(t, buf.String(), "seeded")
	assert.Contains(t, buf.String(), "INFO")
	assert.NotContains(t, buf.String(), "hidden")
}
