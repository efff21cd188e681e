package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: "info", Format: FormatText}) })

	var buf bytes.Buffer
	level := Configure(Config{Level: "WARN", Format: FormatJSON, Output: &buf})
	assert.Equal(t, zerolog.WarnLevel, level)

	Info().Msg("dropped")
	componentLogger := WithComponent("store")
	componentLogger.Warn().Msg("kept")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["message"])
	assert.Equal(t, "store", line["component"])
}

func TestConfigure_UnknownLevel(t *testing.T) {
	t.Cleanup(func() { Configure(Config{Level: "info", Format: FormatText}) })

	var buf bytes.Buffer
	assert.Equal(t, zerolog.InfoLevel, Configure(Config{Level: "loud", Output: &buf}))
	assert.Equal(t, zerolog.InfoLevel, Configure(Config{Level: "", Output: &buf}))
}
