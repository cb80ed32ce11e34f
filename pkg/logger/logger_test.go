package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	Initialize(Config{Level: level, Format: "json", Output: buf})
	t.Cleanup(func() { globalLogger = nil })
	return buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestPackageLevelLogging(t *testing.T) {
	buf := captureLogs(t, "info")

	Debug("hidden")
	Info("Ledger imported", map[string]interface{}{"shop_id": "shop-1"})
	Warn("Lock unavailable")
	Error("Import failed", errors.New("boom"), map[string]interface{}{"rows": 3})

	entries := lines(t, buf)
	require.Len(t, entries, 3)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Ledger imported", entries[0]["message"])
	assert.Equal(t, "shop-1", entries[0]["shop_id"])
	assert.Contains(t, entries[0]["caller"], "logger_test.go")

	assert.Equal(t, "warn", entries[1]["level"])

	assert.Equal(t, "error", entries[2]["level"])
	assert.Equal(t, "boom", entries[2]["error"])
	assert.Equal(t, float64(3), entries[2]["rows"])
}

func TestWithContext(t *testing.T) {
	buf := captureLogs(t, "debug")

	reqLog := WithContext(map[string]interface{}{"request_id": "req-1"})
	reqLog.Debug("start")
	reqLog.Info("done", map[string]interface{}{"status": 200})

	entries := lines(t, buf)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "req-1", e["request_id"])
		assert.Contains(t, e["caller"], "logger_test.go")
	}
	assert.Equal(t, "debug", entries[0]["level"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "warn", parseLogLevel("warn").String())
	assert.Equal(t, "info", parseLogLevel("unknown").String())
}
