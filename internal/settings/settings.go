// Package settings loads the build settings file (settings.ini) that drives
// the image pipeline.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshuapare/cdikit/pkg/types"
)

const (
	// DefaultFile is the settings file looked up in the working directory.
	DefaultFile = "settings.ini"

	envVarPrefix = "CDIKIT"
)

// Settings is the resolved build configuration.
type Settings struct {
	// LBA of the data track. Also used as the new position when relocating
	// the boot binary.
	LBA uint32
	// Binary is the preferred boot binary name inside DataDir.
	Binary string
	// Volume is the ISO volume label and the image name prefix.
	Volume string
	// EnableEmulator launches the emulator on the finished image.
	EnableEmulator bool

	DataDir   string
	SystemDir string

	// OldPos and NewPos seed the hack4 defaults. NewPos falls back to LBA.
	OldPos uint32
	NewPos uint32
	// Hacks lists the position hacks (0-3) applied by the relocation pass.
	Hacks []int
}

// PatchOptions returns hack4 options for the relocation pass: the configured
// positions and hacks, in write mode.
func (s *Settings) PatchOptions() types.Options {
	opts := types.Options{OldPos: s.OldPos, NewPos: s.NewPos, Write: true}
	for _, h := range s.Hacks {
		switch h {
		case 0:
			opts.Hack0 = true
		case 1:
			opts.Hack1 = true
		case 2:
			opts.Hack2 = true
		case 3:
			opts.Hack3 = true
		}
	}
	return opts
}

const defaultINI = `[SETTINGS]
lba = 11702
binary = 0WINCEOS.BIN
volume = mygame
enable_emulator = 0
`

// New returns a viper instance with every default registered and env
// overrides enabled (CDIKIT_SETTINGS_LBA, CDIKIT_HACK4_OLD_POS, ...).
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("ini")

	v.SetDefault("settings.lba", types.DefaultNewPos)
	v.SetDefault("settings.binary", "0WINCEOS.BIN")
	v.SetDefault("settings.volume", "mygame")
	v.SetDefault("settings.enable_emulator", false)
	v.SetDefault("settings.data_dir", "data")
	v.SetDefault("settings.system_dir", "system")
	v.SetDefault("hack4.old_pos", fmt.Sprintf("0x%x", types.DefaultOldPos))
	v.SetDefault("hack4.new_pos", "")
	v.SetDefault("hack4.hacks", "")

	v.SetEnvPrefix(envVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// EnsureFile writes a default settings file at path when none exists.
// created reports whether a file was written.
func EnsureFile(path string) (created bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(defaultINI), 0o644); err != nil {
		return false, fmt.Errorf("creating default settings %s: %w", path, err)
	}
	return true, nil
}

// Load reads path into v and resolves the settings. A missing file is not an
// error; defaults and env overrides still apply.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return Resolve(v)
}

// Resolve converts the values held by v into Settings.
func Resolve(v *viper.Viper) (*Settings, error) {
	lba, err := ParseUint32(v.GetString("settings.lba"))
	if err != nil {
		return nil, fmt.Errorf("settings.lba: %w", err)
	}
	oldPos, err := ParseUint32(v.GetString("hack4.old_pos"))
	if err != nil {
		return nil, fmt.Errorf("hack4.old_pos: %w", err)
	}
	newPos := lba
	if raw := v.GetString("hack4.new_pos"); raw != "" {
		if newPos, err = ParseUint32(raw); err != nil {
			return nil, fmt.Errorf("hack4.new_pos: %w", err)
		}
	}

	hacks, err := ParseHacks(v.GetString("hack4.hacks"))
	if err != nil {
		return nil, fmt.Errorf("hack4.hacks: %w", err)
	}

	return &Settings{
		LBA:            lba,
		Binary:         v.GetString("settings.binary"),
		Volume:         v.GetString("settings.volume"),
		EnableEmulator: v.GetBool("settings.enable_emulator"),
		DataDir:        v.GetString("settings.data_dir"),
		SystemDir:      v.GetString("settings.system_dir"),
		OldPos:         oldPos,
		NewPos:         newPos,
		Hacks:          hacks,
	}, nil
}

// ParseHacks parses a comma or space separated list of hack numbers 0-3.
func ParseHacks(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	hacks := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(f), "hack"))
		if err != nil || n < 0 || n > 3 {
			return nil, fmt.Errorf("unknown hack %q", f)
		}
		hacks = append(hacks, n)
	}
	return hacks, nil
}

// ParseUint32 parses a decimal, 0x-hex, 0o-octal or 0b-binary value that
// must fit in 32 bits.
func ParseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
