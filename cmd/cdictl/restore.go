package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/pkg/patcher"
)

var restoreRemove bool

func init() {
	rootCmd.AddCommand(newRestoreCmd())
}

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <file>...",
		Short: "Restore files from the backups written by patch --backup",
		Long: `The restore command copies <file>.bak over <file> for every
argument. Backups are kept unless --remove is given.

Example:
  cdictl restore data/1ST_READ.BIN
  cdictl restore --remove data/*.BIN`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(args)
		},
	}
	cmd.Flags().BoolVar(&restoreRemove, "remove", false, "Delete the backup after restoring")
	return cmd
}

func runRestore(args []string) error {
	failed := 0
	for _, path := range args {
		printVerbose("Restoring %s from %s\n", path, patcher.BackupPath(path))
		if err := patcher.RestoreBackup(path, restoreRemove); err != nil {
			printError("%v\n", err)
			failed++
			continue
		}
		printInfo("Restored: %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be restored", failed, len(args))
	}
	return nil
}
