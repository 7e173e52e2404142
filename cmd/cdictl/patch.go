package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/internal/settings"
	"github.com/joshuapare/cdikit/pkg/patcher"
	"github.com/joshuapare/cdikit/pkg/types"
)

var (
	patchOldPos    string
	patchNewPos    string
	patchHack0     bool
	patchHack1     bool
	patchHack2     bool
	patchHack3     bool
	patchUnprotect bool
	patchWrite     bool
	patchBackup    bool
)

func init() {
	rootCmd.AddCommand(newPatchCmd())
}

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patch <file>...",
		Aliases: []string{"hack4"},
		Short:   "Relocate LBA references and remove protection in boot binaries",
		Long: `The patch command scans each file for the old LBA position (and the
+166/+150 derived values) and replaces it with the new one. It can also
replace the CD E4 43 6A protection check with 09 00 09 00.

Files are only modified with --write; otherwise every match is reported.
Arguments are glob patterns (*, ?, [..], {a,b} and **).

Positions default to hack4.old_pos and hack4.new_pos from the settings
file, falling back to 0xafc8 and settings.lba (11702, 0x2db6).

Example:
  cdictl patch -0 1ST_READ.BIN
  cdictl patch -3 -w -o 45000 -n 11702 data/*.BIN
  cdictl patch -p -w --backup 'data/**/*.bin'
  cdictl hack4 -0 -1 --json 1ST_READ.BIN`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(args)
		},
	}

	cmd.Flags().StringVarP(&patchOldPos, "old-pos", "o", "", "Old position (decimal or 0x-hex)")
	cmd.Flags().StringVarP(&patchNewPos, "new-pos", "n", "", "New position (decimal or 0x-hex)")
	cmd.Flags().BoolVarP(&patchHack0, "hack0", "0", false, "Replace the old position")
	cmd.Flags().BoolVarP(&patchHack1, "hack1", "1", false, "Replace old position + 166")
	cmd.Flags().BoolVarP(&patchHack2, "hack2", "2", false, "Replace old position + 150")
	cmd.Flags().BoolVarP(&patchHack3, "hack3", "3", false, "Replace both +166 and +150")
	cmd.Flags().BoolVarP(&patchUnprotect, "unprotect", "p", false, "Replace CD E4 43 6A with 09 00 09 00")
	cmd.Flags().BoolVarP(&patchWrite, "write", "w", false, "Write changes to the files")
	cmd.Flags().BoolVar(&patchBackup, "backup", false, "Create <file>.bak before writing")

	return cmd
}

// patchOptions merges command flags over the resolved settings.
func patchOptions() (types.Options, error) {
	s, err := settings.Resolve(cfg)
	if err != nil {
		return types.Options{}, err
	}

	opts := types.Options{
		OldPos:    s.OldPos,
		NewPos:    s.NewPos,
		Hack0:     patchHack0,
		Hack1:     patchHack1,
		Hack2:     patchHack2,
		Hack3:     patchHack3,
		Unprotect: patchUnprotect,
		Write:     patchWrite,
	}
	if patchOldPos != "" {
		if opts.OldPos, err = settings.ParseUint32(patchOldPos); err != nil {
			return opts, fmt.Errorf("invalid --old-pos %q: %w", patchOldPos, err)
		}
	}
	if patchNewPos != "" {
		if opts.NewPos, err = settings.ParseUint32(patchNewPos); err != nil {
			return opts, fmt.Errorf("invalid --new-pos %q: %w", patchNewPos, err)
		}
	}
	return opts, nil
}

func runPatch(args []string) error {
	opts, err := patchOptions()
	if err != nil {
		return err
	}
	if debug {
		spew.Fdump(os.Stderr, opts)
	}

	config := opts.Config()
	if err := config.Validate(); err != nil {
		if errors.Is(err, types.ErrNoOpConfiguration) {
			return fmt.Errorf("%w: enable at least one of -0, -1, -2, -3 or -p", err)
		}
		return err
	}

	printVerbose("Old position: 0x%x, new position: 0x%x, variants: %s\n",
		config.BaseOld, config.BaseNew, config.Variants)

	results, err := patcher.PatchFiles(args, config, &patcher.Options{CreateBackup: patchBackup})
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(patchResultsJSON(results)); err != nil {
			return err
		}
	} else {
		printPatchResults(results, config.Commit)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}

func printPatchResults(results []*patcher.FileResult, commit bool) {
	for _, r := range results {
		printInfo("Processing: %s\n", r.Path)
		if r.Err != nil {
			printError("%v\n", r.Err)
			continue
		}
		for _, f := range r.Report.Findings {
			printInfo("  Found %s (%s) at offset: 0x%x\n", f.Variant, f.Variant.Describe(), f.Offset)
			if f.Applied {
				printInfo("  Applied %s patch\n", f.Variant)
			} else {
				printInfo("  Would apply %s patch (use --write to write)\n", f.Variant)
			}
		}
		if len(r.Report.Findings) == 0 {
			printVerbose("  No matches\n")
		}
		if r.Backup != "" {
			printVerbose("  Backup created: %s\n", r.Backup)
		}
		if r.Written {
			printInfo("Successfully patched: %s\n", r.Path)
		} else if commit && len(r.Report.Findings) > 0 {
			printInfo("Nothing written: %s\n", r.Path)
		}
		printInfo("Finished: %s\n", r.Path)
	}
	printInfo("Processing complete.\n")
}

type findingJSON struct {
	Offset  string `json:"offset"`
	Variant string `json:"variant"`
	Applied bool   `json:"applied"`
}

type patchFileJSON struct {
	Path     string        `json:"path"`
	Size     int           `json:"size"`
	Findings []findingJSON `json:"findings"`
	Written  bool          `json:"written"`
	Backup   string        `json:"backup,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func patchResultsJSON(results []*patcher.FileResult) []patchFileJSON {
	out := make([]patchFileJSON, 0, len(results))
	for _, r := range results {
		entry := patchFileJSON{
			Path:     r.Path,
			Size:     r.Size,
			Findings: []findingJSON{},
			Written:  r.Written,
			Backup:   r.Backup,
		}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		for _, f := range r.Report.Findings {
			entry.Findings = append(entry.Findings, findingJSON{
				Offset:  fmt.Sprintf("0x%x", f.Offset),
				Variant: f.Variant.String(),
				Applied: f.Applied,
			})
		}
		out = append(out, entry)
	}
	return out
}
