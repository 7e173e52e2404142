package logo

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/cdikit/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInject(t *testing.T) {
	ip := bytes.Repeat([]byte{0xEE}, format.IPSize)
	mr := []byte("MR\x00\x01logo")

	out := Inject(ip, mr)
	require.Len(t, out, format.IPSize)
	assert.Equal(t, mr, out[format.LogoOffset:format.LogoOffset+len(mr)])
	assert.Equal(t, byte(0xEE), out[format.LogoOffset-1])
	assert.Equal(t, byte(0xEE), out[format.LogoOffset+len(mr)])
}

func TestInject_ExtendsShortImage(t *testing.T) {
	ip := []byte{1, 2, 3}
	mr := []byte{0xAA, 0xBB}

	out := Inject(ip, mr)
	require.Len(t, out, format.LogoOffset+2)
	assert.Equal(t, []byte{1, 2, 3}, out[:3])
	assert.Equal(t, byte(0), out[format.LogoOffset-1])
	assert.Equal(t, mr, out[format.LogoOffset:])
}

func TestOversized(t *testing.T) {
	assert.False(t, Oversized(make([]byte, format.LogoMaxSize)))
	assert.True(t, Oversized(make([]byte, format.LogoMaxSize+1)))
}

func TestInjectFile(t *testing.T) {
	dir := t.TempDir()
	mrPath := filepath.Join(dir, "wince.mr")
	ipPath := filepath.Join(dir, "IP.BIN")
	mr := bytes.Repeat([]byte{0x4D}, format.LogoMaxSize+16)
	require.NoError(t, os.WriteFile(mrPath, mr, 0o644))
	require.NoError(t, os.WriteFile(ipPath, make([]byte, format.IPSize), 0o644))

	res, err := InjectFile(mrPath, ipPath)
	require.NoError(t, err)
	assert.Equal(t, len(mr), res.LogoSize)
	assert.Equal(t, format.IPSize, res.IPSize)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], ErrOversizedLogo)

	got, err := os.ReadFile(ipPath)
	require.NoError(t, err)
	assert.Equal(t, mr, got[format.LogoOffset:format.LogoOffset+len(mr)])
}

func TestInjectFile_MissingIP(t *testing.T) {
	dir := t.TempDir()
	mrPath := filepath.Join(dir, "wince.mr")
	require.NoError(t, os.WriteFile(mrPath, []byte{1}, 0o644))

	_, err := InjectFile(mrPath, filepath.Join(dir, "IP.BIN"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
