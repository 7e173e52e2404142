package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/internal/format"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <ip.bin>",
		Short: "Validate an IP.BIN header and report its metadata",
		Long: `The info command validates the hardware signature of an IP.BIN
bootstrap and displays the meta information block: product number,
version, release date, boot file, company, title and the WinCE flag.

Example:
  cdictl info data/IP.BIN
  cdictl info data/IP.BIN --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	ipPath := args[0]

	printVerbose("Reading IP.BIN: %s\n", ipPath)

	data, err := os.ReadFile(ipPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ipPath, err)
	}
	hdr, err := format.ParseIPHeader(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", ipPath, err)
	}

	if jsonOut {
		return printJSON(hdr)
	}

	printInfo("\nIP.BIN Information:\n")
	printInfo("  File: %s\n", ipPath)
	printInfo("  Size: %d bytes\n", len(data))
	printInfo("  Hardware ID: %s\n", hdr.HardwareID)
	printInfo("  Maker ID: %s\n", hdr.MakerID)
	printInfo("  Device Info: %s\n", hdr.DeviceInfo)
	printInfo("  Area Symbols: %s\n", hdr.AreaSymbols)
	printInfo("  Peripherals: %s\n", hdr.Peripherals)
	printInfo("  Product No: %s\n", hdr.ProductNo)
	printInfo("  Version: %s\n", hdr.Version)
	printInfo("  Release Date: %s\n", hdr.ReleaseDate)
	printInfo("  Boot File: %s\n", hdr.BootFilename)
	printInfo("  Company: %s\n", hdr.Company)
	printInfo("  Title: %s\n", hdr.Title)
	printInfo("  WinCE: %t\n", hdr.WinCE)

	return nil
}
