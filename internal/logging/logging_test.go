// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/prime-shields/pkg/types"
)

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(types.LogConfig{}, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("validated shield general")
	require.NoError(t, log.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is filtered at the default level")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "validated shield general", rec["msg"])
}

func TestNewWriterVerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(types.LogConfig{Verbose: true, Format: FormatConsole}, &buf)
	require.NoError(t, err)

	log.Debug("ratchet search hit")
	require.NoError(t, log.Sync())

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "ratchet search hit")
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWriter(types.LogConfig{Format: "xml"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)

	_, err = New(types.LogConfig{Format: "xml"})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", FormatJSON, FormatConsole} {
		log, err := New(types.LogConfig{Format: format})
		require.NoError(t, err, "format %q", format)
		assert.NotNil(t, log)
	}
}
