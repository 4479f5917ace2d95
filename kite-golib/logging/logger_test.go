package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_SplitsByLevel(t *testing.T) {
	var out, errs bytes.Buffer
	logger := New(zapcore.AddSync(&out), zapcore.AddSync(&errs))

	logger.Info("loaded dataset")
	logger.Error("training failed")
	require.NoError(t, logger.Sync())

	assert.Contains(t, out.String(), "loaded dataset")
	assert.NotContains(t, out.String(), "training failed")
	assert.Contains(t, errs.String(), "training failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(errs.Bytes()), &line))
	assert.Equal(t, "error", line["level"])
	assert.Contains(t, line, "caller")
}
