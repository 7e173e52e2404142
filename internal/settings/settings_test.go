package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/cdikit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureFileAndLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	created, err := EnsureFile(path)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureFile(path)
	require.NoError(t, err)
	assert.False(t, created, "existing file is left alone")

	s, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, uint32(11702), s.LBA)
	assert.Equal(t, "0WINCEOS.BIN", s.Binary)
	assert.Equal(t, "mygame", s.Volume)
	assert.False(t, s.EnableEmulator)
	assert.Equal(t, "data", s.DataDir)
	assert.Equal(t, uint32(0xAFC8), s.OldPos)
	assert.Equal(t, uint32(11702), s.NewPos, "new position follows the LBA")
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	ini := `[SETTINGS]
lba = 12000
binary = 1ST_READ.BIN
volume = homebrew
enable_emulator = 1

[HACK4]
old_pos = 0x8000
hacks = 0,hack3
`
	require.NoError(t, os.WriteFile(path, []byte(ini), 0o644))

	s, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, uint32(12000), s.LBA)
	assert.Equal(t, "1ST_READ.BIN", s.Binary)
	assert.Equal(t, "homebrew", s.Volume)
	assert.True(t, s.EnableEmulator)
	assert.Equal(t, uint32(0x8000), s.OldPos)
	assert.Equal(t, uint32(12000), s.NewPos)
	assert.Equal(t, []int{0, 3}, s.Hacks)

	cfg := s.PatchOptions().Config()
	assert.Equal(t, types.VariantDirect|types.VariantPlus166|types.VariantPlus150, cfg.Variants)
	assert.Equal(t, uint32(0x8000), cfg.BaseOld)
	assert.Equal(t, uint32(12000), cfg.BaseNew)
	assert.True(t, cfg.Commit)
}

func TestParseHacks(t *testing.T) {
	got, err := ParseHacks("")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ParseHacks("1 2,HACK0")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, got)

	_, err = ParseHacks("4")
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CDIKIT_SETTINGS_VOLUME", "fromenv")
	t.Setenv("CDIKIT_HACK4_NEW_POS", "0x4000")

	s, err := Load(New(), filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, "fromenv", s.Volume)
	assert.Equal(t, uint32(0x4000), s.NewPos)
}

func TestLoad_BadValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("[SETTINGS]\nlba = lots\n"), 0o644))

	_, err := Load(New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings.lba")
}

func TestParseUint32(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{in: "45000", want: 45000},
		{in: "0xafc8", want: 0xAFC8},
		{in: "0XAFC8", want: 0xAFC8},
		{in: " 11702 ", want: 11702},
		{in: "0xFFFFFFFF", want: 0xFFFFFFFF},
		{in: "0x100000000", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseUint32(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
