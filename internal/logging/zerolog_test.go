package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologAdapter_KeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerolog(&buf, zerolog.DebugLevel)

	logger.Info("request done", "status", 200, "path", "/api/v1/health")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request done", entry["message"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "/api/v1/health", entry["path"])
	assert.Equal(t, "info", entry["level"])
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerolog(&buf, zerolog.WarnLevel)

	logger.Debug("noisy detail")
	assert.Zero(t, buf.Len())

	logger.Error("broken", "error", "boom")
	assert.Contains(t, buf.String(), "broken")
}

func TestZerologAdapter_OddPairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerolog(&buf, zerolog.DebugLevel)

	logger.Warn("lonely key", "orphan")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "orphan", entry["missing"])
}
