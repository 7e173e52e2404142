//go:build linux

package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapThenTruncate maps a three page file and truncates it to zero length
// while the mapping is still alive.
func mapThenTruncate(t *testing.T) []byte {
	t.Helper()
	page := os.Getpagesize()
	path := filepath.Join(t.TempDir(), "1ST_READ.BIN")
	require.NoError(t, os.WriteFile(path, make([]byte, 3*page), 0o644))

	data, cleanup, err := Map(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	require.NoError(t, os.Truncate(path, 0))
	return data
}

func TestGuard_TruncatedMapping(t *testing.T) {
	data := mapThenTruncate(t)

	var b byte
	err := Guard(func() { b = data[2*os.Getpagesize()] })
	_ = b
	assert.ErrorIs(t, err, ErrMappingFault)
}

func TestPreFault_TruncatedMapping(t *testing.T) {
	data := mapThenTruncate(t)
	assert.ErrorIs(t, PreFault(data), ErrMappingFault)
}
