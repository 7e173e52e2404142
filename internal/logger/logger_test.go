package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	require.NoError(t, Init(Options{Level: "loud"}))
	assert.Equal(t, io.Discard, L.Out, "level is ignored when disabled")
}

func TestInit_TextOutput(t *testing.T) {
	t.Cleanup(func() { _ = Init(Options{}) })

	var out bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Level: "debug", Out: &out}))

	WithFile("data/1ST_READ.BIN").Debug("found HACK0 at 0x10")
	assert.Contains(t, out.String(), "found HACK0 at 0x10")
	assert.Contains(t, out.String(), "file=data/1ST_READ.BIN")
	assert.Equal(t, logrus.DebugLevel, L.Level)
}

func TestInit_File(t *testing.T) {
	t.Cleanup(func() { _ = Init(Options{}) })

	path := filepath.Join(t.TempDir(), "cdikit.log")
	require.NoError(t, Init(Options{Enabled: true, File: path, JSON: true}))
	L.Warn("oversized logo")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"oversized logo"`)
}

func TestInit_BadLevel(t *testing.T) {
	err := Init(Options{Enabled: true, Level: "loud"})
	require.Error(t, err)
}
