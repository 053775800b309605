package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 10, 3, 9, 15, 0, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "festmaplogs",
			appName: "festmap",
			want:    filepath.Join("festmaplogs", "festmap.20261003_091500.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./festmaplogs",
			appName: "festmap",
			want:    filepath.Join(".", "festmaplogs", "festmap.20261003_091500.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "festmap"),
			appName: "festmap",
			want:    filepath.Join("/var", "log", "festmap", "festmap.20261003_091500.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerolog(&buf, "WARN", "database")

	logger.Info().Msg("filtered")
	logger.Warn().Str("table", "snapshots").Msg("slow query")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "database", entry["component"])
	assert.Equal(t, "snapshots", entry["table"])
	assert.NotContains(t, buf.String(), "filtered")
}

func TestNewZerolog_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerolog(&buf, "chatty", "influx")

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
