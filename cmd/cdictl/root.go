package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/cdikit/internal/logger"
	"github.com/joshuapare/cdikit/internal/settings"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	debug      bool
	configPath string
	logLevel   string
	logFile    string

	// cfg holds settings.ini values, env overrides and defaults.
	cfg = settings.New()
)

var rootCmd = &cobra.Command{
	Use:   "cdictl",
	Short: "Patch and build Dreamcast self-boot images",
	Long: `cdictl patches Dreamcast boot binaries (hack4), converts WinCE
binaries, injects IP.BIN logos and drives the self-boot CDI build pipeline.`,
	Version:           "0.1.0",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Dump resolved options before running")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Settings file (default ./settings.ini if present)")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file")
}

// setup initializes logging and loads the settings file before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	if err := logger.Init(loggerOptions()); err != nil {
		return err
	}
	return loadSettings(cfg)
}

func loggerOptions() logger.Options {
	opts := logger.Options{Enabled: !quiet, Level: "warn", File: logFile}
	if verbose {
		opts.Level = "debug"
	}
	if logLevel != "" {
		opts.Enabled = true
		opts.Level = logLevel
	}
	return opts
}

// loadSettings reads --config, or settings.ini from the working directory
// when it exists. An explicit path must exist.
func loadSettings(v *viper.Viper) error {
	path := configPath
	if path == "" {
		if _, err := os.Stat(settings.DefaultFile); err != nil {
			return nil
		}
		path = settings.DefaultFile
	} else if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("settings file %s: %w", path, err)
	}
	_, err := settings.Load(v, path)
	return err
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
