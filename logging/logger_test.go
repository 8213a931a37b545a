package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger = (*CareMeshLogger)(nil)
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = NoOpLogger{}
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel("WARN"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("info"))
	assert.Equal(t, LogLevelInfo, ParseLevel("bogus"))
}

func TestCareMeshLogger_EmitsContextualFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf}).
		WithComponent("pipeline").
		WithInteraction("int-1").
		WithContext("conversation_id", "conv-1")

	logger.Info("pipeline started", "channel", "chat")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "pipeline started", entry["msg"])
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "int-1", entry["interaction_id"])
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.Equal(t, "chat", entry["channel"])
}

func TestCareMeshLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.NotZero(t, buf.Len())
}

func TestCareMeshLogger_CloningDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	_ = parent.WithComponent("child").WithContext("key", "value")

	parent.Info("from parent")

	entry := decodeLine(t, &buf)
	_, hasComponent := entry["component"]
	assert.False(t, hasComponent)
	_, hasKey := entry["key"]
	assert.False(t, hasKey)
}

func TestCareMeshLogger_LogAgentCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogAgentCall("sentiment", 42*time.Millisecond, false, errors.New("lexicon missing"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "agent invocation failed", entry["msg"])
	assert.Equal(t, "sentiment", entry["agent"])
	assert.Equal(t, false, entry["success"])
	assert.Equal(t, "lexicon missing", entry["error"])
}

func TestNoOpLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NoOpLogger{}.Debug("a")
		NoOpLogger{}.Info("b", "k", "v")
		NoOpLogger{}.Warn("c")
		NoOpLogger{}.Error("d")
	})
}
