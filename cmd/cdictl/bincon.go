package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/pkg/bincon"
)

var (
	binconOutput  string
	binconReplace bool
)

func init() {
	rootCmd.AddCommand(newBinconCmd())
}

func newBinconCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bincon <0WINCEOS.BIN> <IP.BIN>",
		Short: "Convert a WinCE boot binary for self-boot use",
		Long: `The bincon command clears the WinCE flag in IP.BIN and converts the
WinCE binary: the first 0x800 bytes are dropped and the second-to-last
0x800 chunk is appended. Converting twice is refused.

The result is written to 1ST_READ.BIN next to the input unless --output
or --replace is given.

Example:
  cdictl bincon data/0WINCEOS.BIN data/IP.BIN
  cdictl bincon --replace data/0WINCEOS.BIN data/IP.BIN`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBincon(args)
		},
	}

	cmd.Flags().StringVarP(&binconOutput, "output", "o", "", "Output path (default 1ST_READ.BIN)")
	cmd.Flags().BoolVar(&binconReplace, "replace", false, "Replace the input binary in place")

	return cmd
}

func runBincon(args []string) error {
	binPath, ipPath := args[0], args[1]

	printVerbose("Converting %s (IP.BIN: %s)\n", binPath, ipPath)

	res, err := bincon.ConvertFile(binPath, ipPath, binconOutput, binconReplace)
	if errors.Is(err, bincon.ErrAlreadyConverted) {
		printInfo("%s is already converted\n", binPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to convert: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"input":        binPath,
			"ip":           ipPath,
			"output":       res.Output,
			"flag_removed": res.FlagRemoved,
		})
	}

	if res.FlagRemoved {
		printInfo("Removed WinCE flag from %s\n", ipPath)
	} else {
		printVerbose("WinCE flag already cleared in %s\n", ipPath)
	}
	printInfo("Converted %s -> %s\n", binPath, res.Output)
	return nil
}
