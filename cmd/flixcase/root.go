package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "flixcase",
	Short: "Portable movie and TV library",
	Long: `flixcase - portable movie and TV library

Imports movies and whole TV seasons into a self-contained library folder,
optionally re-encoding them with ffmpeg, and remembers where you stopped
watching each title.

Without a config file the library lives next to the executable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("flixcase {{.Version}}\n")
}
