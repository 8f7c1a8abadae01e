package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Init(&buf, "json", slog.LevelInfo)

	ForService("flatten").Debug("hidden")
	ForService("flatten").Info("visible", "count", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "visible", record["msg"])
	assert.Equal(t, "flatten", record["service"])
	assert.Equal(t, "INFO", record["level"])
}

func TestTraceLevelName(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := Init(&buf, "text", LevelTrace)
	logger.Log(t.Context(), LevelTrace, "deep")

	assert.Contains(t, buf.String(), "level=TRACE")

	SetLevel(slog.LevelError)
	buf.Reset()
	logger.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
