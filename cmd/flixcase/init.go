package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/config"
)

func init() {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file, library folder and catalog",
		Long: `Writes a config file (default: the user config directory), then
creates the library folder and an empty catalog.

With --library the config points at that folder; otherwise the commented
default config is written and the library root comes from FLIXCASE_LIBRARY
or ./library next to the config file.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	initCmd.Flags().String("path", "", "Config file to write (default: "+config.DefaultPath()+")")
	initCmd.Flags().String("library", "", "Library folder")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	root, _ := cmd.Flags().GetString("library")
	if path == "" {
		path = configPath
	}
	if path == "" {
		path = config.DefaultPath()
	}

	if err := writeInitialConfig(path, root); err != nil {
		return err
	}
	configPath = path

	return withApp(cmd, func(a *app) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]string{
				"config":  path,
				"library": a.lib.Root(),
				"catalog": a.cfg.DatabasePath(),
			})
		}
		fmt.Fprintf(out, "Config:  %s\n", path)
		fmt.Fprintf(out, "Library: %s\n", a.lib.Root())
		fmt.Fprintf(out, "Catalog: %s\n", a.cfg.DatabasePath())
		return nil
	})
}

func writeInitialConfig(path, root string) error {
	if root == "" {
		return config.WriteDefault(path)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	cfg := config.Default()
	cfg.Library.Root = abs
	return cfg.Write(path)
}
