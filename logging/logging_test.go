package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	h, err := New(Config{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)

	log := slog.New(h)
	log.Info("dropped")
	log.Warn("kept", "sheet", "NRCellDU")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "NRCellDU", rec["sheet"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	h, err := New(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	slog.New(h).Debug("matched", "outcome", "correct")
	assert.Contains(t, buf.String(), "matched")
	assert.Contains(t, buf.String(), "outcome=correct")
	assert.NotContains(t, buf.String(), "\x1b[", "no colour when not writing to a terminal")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.Error(t, err)
}
