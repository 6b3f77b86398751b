package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fivetwenty-io/strapi-go/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("bogus"))
}

func TestAdapter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewWithConfig(logging.Config{Level: "DEBUG", Format: "json", Output: &buf})
	logger.Debug("HTTP Request", map[string]interface{}{"method": "GET", "url": "http://x/articles"})

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP Request", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "http://x/articles", entry["url"])
}

func TestAdapter_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logging.NewWithConfig(logging.Config{Level: "WARN", Output: &buf})
	logger.Info("hidden", nil)
	assert.Empty(t, buf.String())

	logger.Error("shown", map[string]interface{}{"status": 500})
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "status=500")
}

// TestInit is the only test in this package that touches the process logger.
func TestInit(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer

	before := logging.New(nil)
	assert.NotNil(t, before)

	logging.Init(logging.Config{Level: "DEBUG", Format: "json", Output: &first})
	logging.Init(logging.Config{Level: "ERROR", Format: "json", Output: &second})

	logger := logging.New(nil)
	logger.Debug("restored session", map[string]interface{}{"key": "strapi.auth.token"})

	assert.Contains(t, first.String(), `"msg":"restored session"`)
	assert.Contains(t, first.String(), `"level":"DEBUG"`)
	assert.Empty(t, second.String())
	assert.Same(t, logging.Get(), slog.Default())
}
