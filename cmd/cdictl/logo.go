package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/pkg/logo"
)

func init() {
	rootCmd.AddCommand(newLogoCmd())
}

func newLogoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logo <image.mr> <ip.bin>",
		Short: "Insert an MR logo into IP.BIN",
		Long: `The logo command writes an MR image into IP.BIN at offset 0x3820.
Images larger than 8192 bytes are inserted anyway with a warning.

Example:
  cdictl logo system/wince.mr data/IP.BIN`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogo(args)
		},
	}
	return cmd
}

func runLogo(args []string) error {
	mrPath, ipPath := args[0], args[1]

	printVerbose("Inserting %s into %s\n", mrPath, ipPath)

	res, err := logo.InjectFile(mrPath, ipPath)
	if err != nil {
		return err
	}

	if jsonOut {
		warnings := make([]string, 0, len(res.Warnings))
		for _, w := range res.Warnings {
			warnings = append(warnings, w.Error())
		}
		return printJSON(map[string]interface{}{
			"logo":      mrPath,
			"ip":        ipPath,
			"logo_size": res.LogoSize,
			"ip_size":   res.IPSize,
			"warnings":  warnings,
		})
	}

	for _, w := range res.Warnings {
		printInfo("Warning: %v (%d bytes)\n", w, res.LogoSize)
	}
	printInfo("Logo injection completed: %s (%d bytes)\n", ipPath, res.LogoSize)
	return nil
}
