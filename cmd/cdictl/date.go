package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/cdikit/internal/stamp"
)

var dateShort bool

// now is replaced in tests.
var now = time.Now

func init() {
	rootCmd.AddCommand(newDateCmd())
}

func newDateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "date",
		Short: "Print the build stamp used for image names",
		Long: `The date command prints the local time as YYYYMMDD-HHMMSS, or
YYYYMMDD with --short, without a trailing newline so it can be used in
shell substitutions.

Example:
  cdictl date
  mv image.cdi "mygame-$(cdictl date --short).cdi"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDate()
		},
	}
	cmd.Flags().BoolVar(&dateShort, "short", false, "Print the date only")
	return cmd
}

func runDate() error {
	t := now()
	s := stamp.Stamp(t)
	if dateShort {
		s = stamp.BuildDate(t)
	}
	if jsonOut {
		return printJSON(map[string]string{"stamp": s})
	}
	printInfo("%s", s)
	return nil
}
