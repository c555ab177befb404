// AngelaMos | 2026
// logger_test.go

package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/config"
)

func TestNewLoggerJSONWithServiceFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf,
		config.LogConfig{Level: "warn", Format: "json"},
		config.AppConfig{Name: "storefront", Environment: "staging"},
	)

	logger.Info("dropped")
	logger.Warn("kept", "product_id", "p-1")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "storefront", entry["service"])
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "p-1", entry["product_id"])
}

func TestNewLoggerTextAndUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LogConfig{Level: "chatty", Format: "TEXT"}, config.AppConfig{})

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
