package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level string) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Output = buf
	cfg.Level = level
	cfg.Environment = "test"
	return NewLogger(cfg)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	return records
}

func TestNewLogger_AddsServiceMetadata(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf, "info").Info("hello")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "service-desk-realtime", records[0]["service"])
	assert.Equal(t, "test", records[0]["environment"])

	_, err := time.Parse(time.RFC3339Nano, records[0]["time"].(string))
	assert.NoError(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn")

	logger.Info("dropped")
	logger.Warn("kept")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0]["msg"])
}

func TestContextHandler_InjectsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "info")

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithSession(ctx, "sess-9", "ticket_42")
	ctx = WithUserID(ctx, "7")
	logger.InfoContext(ctx, "session event")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "req-1", records[0]["request_id"])
	assert.Equal(t, "sess-9", records[0]["session_id"])
	assert.Equal(t, "ticket_42", records[0]["room"])
	assert.Equal(t, "7", records[0]["user_id"])
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestHTTPRequestLogger_LevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	requestLogger := &HTTPRequestLogger{Logger: newTestLogger(&buf, "info")}

	for _, status := range []int{101, 404, 503} {
		requestLogger.LogRequest(context.Background(), RequestRecord{
			Method:     "GET",
			Path:       "/ws/tickets/42/",
			StatusCode: status,
			Upgraded:   status == 101,
		})
	}

	records := decodeLines(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, "INFO", records[0]["level"])
	assert.Equal(t, true, records[0]["upgraded"])
	assert.Equal(t, "WARN", records[1]["level"])
	assert.Equal(t, "ERROR", records[2]["level"])
	assert.NotContains(t, records[1], "upgraded")
}

func TestLogPanic(t *testing.T) {
	var buf bytes.Buffer
	LogPanic(newTestLogger(&buf, "info"), "boom")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "boom", records[0]["panic"])
	assert.Contains(t, records[0]["stack_trace"], "TestLogPanic")
}
