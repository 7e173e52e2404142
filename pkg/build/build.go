// Package build drives the self-boot image pipeline: verify the data
// directory, patch the boot binaries, build the ISO and convert it to CDI.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joshuapare/cdikit/internal/logger"
	"github.com/joshuapare/cdikit/internal/settings"
	"github.com/joshuapare/cdikit/internal/stamp"
	"github.com/joshuapare/cdikit/pkg/bincon"
	"github.com/joshuapare/cdikit/pkg/logo"
	"github.com/joshuapare/cdikit/pkg/patcher"
	"github.com/joshuapare/cdikit/pkg/types"
)

// Boot binary names, in the order they are looked for.
const (
	BinFirstRead = "1ST_READ.BIN"
	BinWinCE     = "0WINCEOS.BIN"
	BinNoSDC     = "1NOSDC.BIN"
	IPBin        = "IP.BIN"
)

var bootBinaries = []string{BinFirstRead, BinWinCE, BinNoSDC}

const (
	isoName     = "test.iso"
	cdiName     = "image.cdi"
	sortFile    = "sortfile.str"
	archiveDir  = "archive"
	emulatorDir = "emulator"
)

// ErrNoBootBinary is returned when the data directory has no boot binary.
var ErrNoBootBinary = &types.Error{Kind: types.ErrKindNotFound, Msg: "boot binary not found"}

// Builder runs the pipeline rooted at a working directory.
type Builder struct {
	Settings *settings.Settings
	// Root holds the data, system, archive and emulator directories.
	Root   string
	Runner Runner
	Now    func() time.Time

	binary string
	built  time.Time
}

// New returns a Builder that runs real commands.
func New(s *settings.Settings, root string) *Builder {
	return &Builder{Settings: s, Root: root, Runner: ExecRunner{}, Now: time.Now}
}

func (b *Builder) dataPath(name string) string {
	return filepath.Join(b.Root, b.Settings.DataDir, name)
}

func (b *Builder) systemPath(elem ...string) string {
	return filepath.Join(append([]string{b.Root, b.Settings.SystemDir}, elem...)...)
}

// tool resolves an external program, preferring a copy in the system directory.
func (b *Builder) tool(name string) string {
	candidates := []string{b.systemPath(name)}
	if runtime.GOOS == "windows" {
		candidates = append([]string{b.systemPath(name + ".exe")}, candidates...)
	}
	for _, c := range candidates {
		if exists(c) {
			return c
		}
	}
	return name
}

// Binary returns the boot binary chosen by Verify.
func (b *Builder) Binary() string { return b.binary }

// Verify picks the boot binary and makes sure an IP.BIN is present.
func (b *Builder) Verify() error {
	log := logger.L.WithField("step", "verify")
	if err := os.MkdirAll(filepath.Join(b.Root, b.Settings.DataDir), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	b.binary = b.Settings.Binary
	for _, name := range bootBinaries {
		if exists(b.dataPath(name)) {
			b.binary = name
			break
		}
	}
	if !exists(b.dataPath(b.binary)) {
		return fmt.Errorf("%s: %w", b.dataPath(b.binary), ErrNoBootBinary)
	}
	log.WithField("binary", b.binary).Info("boot binary selected")

	ip := b.dataPath(IPBin)
	if !exists(ip) {
		log.Warn("IP.BIN not found, creating generic IP.BIN")
		if src := b.systemPath("precon", "katana.bin"); exists(src) {
			if err := copyFile(src, ip); err != nil {
				return fmt.Errorf("create IP.BIN: %w", err)
			}
		}
	}
	if b.binary == BinNoSDC {
		if src := b.systemPath("precon", "lodoss-5167.bin"); exists(src) {
			if err := copyFile(src, ip); err != nil {
				return fmt.Errorf("install 1NOSDC IP.BIN: %w", err)
			}
		}
	}
	return nil
}

// Binhack patches the boot binaries in place: the unprotect pass, the
// relocation pass, WinCE conversion and the WinCE logo.
func (b *Builder) Binhack(ctx context.Context) error {
	log := logger.L.WithField("step", "binhack")
	targets := []string{filepath.Join(b.Root, b.Settings.DataDir, "*.{bin,BIN}")}

	unprotect := types.Options{Unprotect: true, Write: true}
	if _, err := patcher.PatchFiles(targets, unprotect.Config(), nil); err != nil {
		if !errors.Is(err, patcher.ErrNoTargets) {
			return fmt.Errorf("unprotect: %w", err)
		}
		log.Warn("no binaries to unprotect")
	}

	reloc := b.Settings.PatchOptions()
	if _, err := patcher.PatchFiles(targets, reloc.Config(), nil); err != nil {
		switch {
		case errors.Is(err, types.ErrNoOpConfiguration):
			log.Info("no position hacks configured, relocation skipped")
		case errors.Is(err, patcher.ErrNoTargets):
			log.Warn("no binaries to relocate")
		default:
			return fmt.Errorf("relocate: %w", err)
		}
	}

	if b.binary == BinWinCE {
		_, err := bincon.ConvertFile(b.dataPath(BinWinCE), b.dataPath(IPBin), "", true)
		switch {
		case errors.Is(err, bincon.ErrAlreadyConverted):
			log.Info("WinCE binary already converted")
		case err != nil:
			return fmt.Errorf("bincon: %w", err)
		}

		if mr := b.systemPath("wince.mr"); exists(mr) {
			if _, err := logo.InjectFile(mr, b.dataPath(IPBin)); err != nil {
				return fmt.Errorf("logo: %w", err)
			}
		}
	}

	if tool := b.tool("binhack"); tool != "binhack" {
		out, err := b.Runner.Run(ctx, b.Root, tool,
			b.dataPath(b.binary), b.dataPath(IPBin), b.lba(),
			"--output-dir", filepath.Join(b.Root, b.Settings.DataDir), "--quiet")
		if err != nil {
			log.WithError(err).WithField("output", string(out)).Warn("binhack failed")
		}
	}
	return nil
}

func (b *Builder) lba() string { return strconv.FormatUint(uint64(b.Settings.LBA), 10) }

// ImageName returns the stamped image file name for this build.
func (b *Builder) ImageName() string {
	if b.built.IsZero() {
		b.built = b.Now()
	}
	return stamp.ImageName(b.Settings.Volume, b.built)
}

// MakeImage builds the ISO, converts it to CDI, archives older images and
// returns the path of the new one.
func (b *Builder) MakeImage(ctx context.Context) (string, error) {
	log := logger.L.WithField("step", "image")
	iso := filepath.Join(b.Root, isoName)
	if err := removeIfExists(iso); err != nil {
		return "", err
	}

	args := []string{"-C", "0," + b.lba(), "-V", b.Settings.Volume}
	if exists(filepath.Join(b.Root, sortFile)) {
		args = append(args, "-sort", sortFile)
	}
	args = append(args,
		"-exclude", IPBin,
		"-G", filepath.Join(b.Settings.DataDir, IPBin),
		"-l", "-J", "-r",
		"-o", isoName,
		b.Settings.DataDir,
	)
	if out, err := b.Runner.Run(ctx, b.Root, b.tool("mkisofs"), args...); err != nil {
		return "", fmt.Errorf("error creating ISO: %w: %s", err, strings.TrimSpace(string(out)))
	}

	if out, err := b.Runner.Run(ctx, b.Root, b.tool("iso2cdi"), "-i", isoName, "-l", b.lba(), "-o", cdiName); err != nil {
		return "", fmt.Errorf("error converting to CDI: %w: %s", err, strings.TrimSpace(string(out)))
	}
	if err := removeIfExists(iso); err != nil {
		return "", err
	}

	final := b.ImageName()
	tmp := stamp.TempName(b.Settings.Volume, b.built)
	if err := os.Rename(filepath.Join(b.Root, cdiName), filepath.Join(b.Root, tmp)); err != nil {
		return "", fmt.Errorf("stage image: %w", err)
	}
	if err := b.archive(); err != nil {
		return "", err
	}
	finalPath := filepath.Join(b.Root, final)
	if err := os.Rename(filepath.Join(b.Root, tmp), finalPath); err != nil {
		return "", fmt.Errorf("rename image: %w", err)
	}
	log.WithField("image", final).Info("image created")
	return finalPath, nil
}

// archive moves every existing .cdi in Root into the archive directory.
func (b *Builder) archive() error {
	dir := filepath.Join(b.Root, archiveDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		return fmt.Errorf("scan for images: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), stamp.ImageExt) {
			continue
		}
		if err := os.Rename(filepath.Join(b.Root, e.Name()), filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("archive %s: %w", e.Name(), err)
		}
	}
	return nil
}

// RunEmulator starts the emulator on image when enabled and installed.
func (b *Builder) RunEmulator(ctx context.Context, image string) error {
	if !b.Settings.EnableEmulator {
		return nil
	}
	emu := filepath.Join(b.Root, emulatorDir, "redream")
	if runtime.GOOS == "windows" {
		emu += ".exe"
	}
	if !exists(emu) {
		logger.L.WithField("emulator", emu).Warn("emulator not installed")
		return nil
	}
	if out, err := b.Runner.Run(ctx, b.Root, emu, image); err != nil {
		return fmt.Errorf("emulator: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Run executes the whole pipeline and returns the image path.
func (b *Builder) Run(ctx context.Context) (string, error) {
	if err := b.Verify(); err != nil {
		return "", fmt.Errorf("verification failed: %w", err)
	}
	if err := b.Binhack(ctx); err != nil {
		return "", err
	}
	logger.L.WithField("name", b.ImageName()).Info("image name set")

	image, err := b.MakeImage(ctx)
	if err != nil {
		return "", err
	}
	if err := b.RunEmulator(ctx, image); err != nil {
		return image, err
	}
	return image, nil
}
