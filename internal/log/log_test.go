package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DropsTime(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, FormatText).Info("hello", "k", "v")

	assert.Equal(t, "level=INFO msg=hello k=v\n", buf.String())
}

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, FormatJSON)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.Equal(t, `{"level":"WARN","msg":"shown"}`+"\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("json"))
	assert.True(t, ValidFormat("TEXT"))
	assert.False(t, ValidFormat("xml"))
}

func TestContext(t *testing.T) {
	assert.Same(t, discardLogger, FromContextOrDiscard(context.Background()))

	logger := New(&bytes.Buffer{}, slog.LevelInfo, FormatText)
	assert.Same(t, logger, FromContextOrDiscard(NewContext(context.Background(), logger)))
}
