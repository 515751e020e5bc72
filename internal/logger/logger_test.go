package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProdIsJSONAtInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newLogger(&buf, "prod", "")

	log.Debug("hidden")
	log.Info("shown", "user_id", "u1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "taskmanager", line["service"])
}

func TestNewLogger_DevIsTextAtDebug(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	newLogger(&buf, "dev", "").Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}

func TestNewLogger_LevelOverride(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newLogger(&buf, "dev", "warn")
	log.Info("dropped")
	log.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")

	buf.Reset()
	newLogger(&buf, "prod", "nonsense").Info("default level applies")
	assert.Contains(t, buf.String(), "default level applies")
}

func TestNewLogger_RequestIDFromContext(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := newLogger(&buf, "dev", "")

	log.InfoContext(WithRequestID(context.Background(), "req-42"), "handled")
	assert.Contains(t, buf.String(), "request_id=req-42")

	buf.Reset()
	log.With("k", "v").InfoContext(context.Background(), "background")
	assert.NotContains(t, buf.String(), "request_id")
	assert.Contains(t, buf.String(), "k=v")
}
