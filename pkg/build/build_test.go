package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joshuapare/cdikit/internal/buf"
	"github.com/joshuapare/cdikit/internal/format"
	"github.com/joshuapare/cdikit/internal/settings"
	"github.com/joshuapare/cdikit/patch"
	"github.com/joshuapare/cdikit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args []string
}

// fakeRunner records commands and produces the files the real tools would.
type fakeRunner struct {
	calls []call
	fail  string
}

func (r *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	tool := filepath.Base(name)
	r.calls = append(r.calls, call{dir: dir, name: tool, args: args})
	if tool == r.fail {
		return []byte("boom"), errors.New("exit status 1")
	}
	switch tool {
	case "mkisofs":
		return nil, os.WriteFile(filepath.Join(dir, isoName), []byte("iso"), 0o644)
	case "iso2cdi":
		return nil, os.WriteFile(filepath.Join(dir, cdiName), []byte("cdi"), 0o644)
	}
	return nil, nil
}

func testSettings() *settings.Settings {
	return &settings.Settings{
		LBA:       11702,
		Binary:    BinWinCE,
		Volume:    "mygame",
		DataDir:   "data",
		SystemDir: "system",
		OldPos:    types.DefaultOldPos,
		NewPos:    11702,
	}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func newTestBuilder(t *testing.T, s *settings.Settings) (*Builder, *fakeRunner) {
	t.Helper()
	r := &fakeRunner{}
	b := New(s, t.TempDir())
	b.Runner = r
	b.Now = func() time.Time { return time.Date(2001, time.May, 4, 12, 0, 0, 0, time.Local) }
	return b, r
}

func TestRun_FirstRead(t *testing.T) {
	s := testSettings()
	s.Hacks = []int{0}
	b, r := newTestBuilder(t, s)

	bin := make([]byte, 64)
	buf.PutU32(bin, 8, types.DefaultOldPos)
	copy(bin[32:], patch.UnprotectSignature)
	writeFile(t, b.dataPath(BinFirstRead), bin)
	katana := make([]byte, format.IPSize)
	copy(katana, format.HardwareSignature)
	writeFile(t, b.systemPath("precon", "katana.bin"), katana)
	writeFile(t, filepath.Join(b.Root, "mygame-20000101.cdi"), []byte("old"))

	image, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, BinFirstRead, b.Binary())
	assert.Equal(t, filepath.Join(b.Root, "mygame-20010504.cdi"), image)
	assert.Equal(t, []byte("cdi"), readFile(t, image))
	assert.Equal(t, []byte("old"), readFile(t, filepath.Join(b.Root, archiveDir, "mygame-20000101.cdi")))
	assert.NoFileExists(t, filepath.Join(b.Root, isoName))
	assert.Equal(t, katana, readFile(t, b.dataPath(IPBin)))

	patched := readFile(t, b.dataPath(BinFirstRead))
	assert.Equal(t, uint32(11702), buf.ReadU32(patched, 8))
	assert.Equal(t, patch.UnprotectReplacement, patched[32:36])

	require.Len(t, r.calls, 2)
	assert.Equal(t, "mkisofs", r.calls[0].name)
	assert.Equal(t, b.Root, r.calls[0].dir)
	assert.Equal(t, "-C 0,11702 -V mygame -exclude IP.BIN -G data/IP.BIN -l -J -r -o test.iso data",
		filepath.ToSlash(strings.Join(r.calls[0].args, " ")))
	assert.Equal(t, "iso2cdi", r.calls[1].name)
	assert.Equal(t, []string{"-i", isoName, "-l", "11702", "-o", cdiName}, r.calls[1].args)
}

func TestBinhack_WinCE(t *testing.T) {
	b, _ := newTestBuilder(t, testSettings())

	var bin []byte
	for i := 0; i < 4; i++ {
		for j := 0; j < format.WinCETrailerChunk; j++ {
			bin = append(bin, byte(i+1))
		}
	}
	writeFile(t, b.dataPath(BinWinCE), bin)
	ip := make([]byte, format.IPSize)
	ip[format.WinCEFlagOffset] = '1'
	writeFile(t, b.dataPath(IPBin), ip)
	mr := []byte("MR-logo")
	writeFile(t, b.systemPath("wince.mr"), mr)

	require.NoError(t, b.Verify())
	require.Equal(t, BinWinCE, b.Binary())
	require.NoError(t, b.Binhack(context.Background()))

	gotIP := readFile(t, b.dataPath(IPBin))
	assert.Equal(t, byte('0'), gotIP[format.WinCEFlagOffset])
	assert.Equal(t, mr, gotIP[format.LogoOffset:format.LogoOffset+len(mr)])

	converted := readFile(t, b.dataPath(BinWinCE))
	assert.Len(t, converted, len(bin))
	assert.Equal(t, bin[format.WinCEHeaderSize:], converted[:len(bin)-format.WinCEHeaderSize])
}

func TestVerify_NoBootBinary(t *testing.T) {
	b, _ := newTestBuilder(t, testSettings())
	err := b.Verify()
	require.ErrorIs(t, err, ErrNoBootBinary)
	assert.DirExists(t, filepath.Join(b.Root, "data"))
}

func TestVerify_NoSDCUsesLodossIP(t *testing.T) {
	b, _ := newTestBuilder(t, testSettings())
	writeFile(t, b.dataPath(BinNoSDC), []byte{0})
	writeFile(t, b.dataPath(IPBin), []byte("original"))
	writeFile(t, b.systemPath("precon", "lodoss-5167.bin"), []byte("lodoss"))

	require.NoError(t, b.Verify())
	assert.Equal(t, BinNoSDC, b.Binary())
	assert.Equal(t, []byte("lodoss"), readFile(t, b.dataPath(IPBin)))
}

func TestMakeImage_ToolFailure(t *testing.T) {
	b, r := newTestBuilder(t, testSettings())
	r.fail = "iso2cdi"

	_, err := b.MakeImage(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error converting to CDI")
	assert.Contains(t, err.Error(), "boom")
}

func TestMakeImage_SortFile(t *testing.T) {
	b, r := newTestBuilder(t, testSettings())
	writeFile(t, filepath.Join(b.Root, sortFile), []byte("data/1ST_READ.BIN 100\n"))

	_, err := b.MakeImage(context.Background())
	require.NoError(t, err)
	assert.Contains(t, strings.Join(r.calls[0].args, " "), "-sort sortfile.str")
}

func TestRunEmulator(t *testing.T) {
	s := testSettings()
	b, r := newTestBuilder(t, s)

	require.NoError(t, b.RunEmulator(context.Background(), "img.cdi"))
	assert.Empty(t, r.calls, "disabled")

	s.EnableEmulator = true
	require.NoError(t, b.RunEmulator(context.Background(), "img.cdi"))
	assert.Empty(t, r.calls, "not installed")

	emu := filepath.Join(b.Root, emulatorDir, "redream")
	if filepath.Separator == '\\' {
		emu += ".exe"
	}
	writeFile(t, emu, []byte{0})
	require.NoError(t, b.RunEmulator(context.Background(), "img.cdi"))
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"img.cdi"}, r.calls[0].args)
}
