package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/internal/settings"
	"github.com/joshuapare/cdikit/pkg/build"
)

var (
	buildRoot    string
	buildTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(newBuildCmd())
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a self-boot CDI image from the data directory",
		Long: `The build command runs the whole pipeline driven by settings.ini:
verify the boot binary and IP.BIN, unprotect and relocate the binaries,
convert WinCE binaries, build the ISO with mkisofs, convert it with
iso2cdi, archive older images and optionally start the emulator.

A default settings.ini is written to the root when none exists.

Example:
  cdictl build
  cdictl build --root ~/dc/mygame --timeout 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild()
		},
	}

	cmd.Flags().StringVar(&buildRoot, "root", ".", "Directory holding data/ and system/")
	cmd.Flags().DurationVar(&buildTimeout, "timeout", 0, "Abort the build after this long (0 = no limit)")

	return cmd
}

func runBuild() error {
	if configPath == "" {
		path := filepath.Join(buildRoot, settings.DefaultFile)
		created, err := settings.EnsureFile(path)
		if err != nil {
			return err
		}
		if created {
			printInfo("Created default %s\n", path)
		}
		if _, err := settings.Load(cfg, path); err != nil {
			return err
		}
	}

	s, err := settings.Resolve(cfg)
	if err != nil {
		return err
	}
	if debug {
		spew.Fdump(os.Stderr, s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if buildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, buildTimeout)
		defer cancel()
	}

	return buildWith(ctx, build.New(s, buildRoot))
}

func buildWith(ctx context.Context, b *build.Builder) error {
	printVerbose("Volume: %s, LBA: %d\n", b.Settings.Volume, b.Settings.LBA)

	image, err := b.Run(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]string{
			"image":  image,
			"binary": b.Binary(),
			"volume": b.Settings.Volume,
		})
	}
	printInfo("Boot binary: %s\n", b.Binary())
	printInfo("Created %s\n", image)
	return nil
}
