package logger

import (
	"bytes"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log := New(Config{})
	assert.NotNil(t, log)
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{ServiceName: "shaderbg"}, &buf)

	log.Info("shader running", zap.Int("width", 800), zap.String("surface", "webgl-canvas"))

	var entry map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shader running", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "shaderbg", entry["service"])
	assert.Equal(t, float64(800), entry["width"])
	assert.Equal(t, "webgl-canvas", entry["surface"])
	assert.Contains(t, entry, "ts")
	assert.Contains(t, entry, "caller")
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{Environment: "development", LogLevel: "debug"}, &buf)

	log.Debug("frame loop started")

	out := buf.String()
	assert.Contains(t, out, "frame loop started")
	assert.False(t, strings.HasPrefix(out, "{"), "console encoder expected")
}

func TestLogLevels(t *testing.T) {
	cases := []struct {
		level   string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"info", zapcore.InfoLevel, zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", zapcore.ErrorLevel, zapcore.WarnLevel},
		{"bogus", zapcore.InfoLevel, zapcore.DebugLevel},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			lvl := getLogLevel(tc.level)
			assert.True(t, lvl.Enabled(tc.enabled))
			assert.False(t, lvl.Enabled(tc.muted))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(Config{LogLevel: "warn"}, &buf)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
