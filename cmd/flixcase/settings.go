package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
		Long: `Settings are free-form key/value pairs kept in the catalog, such as
the player theme. Without a subcommand all settings are listed.`,
		Args: cobra.NoArgs,
		RunE: runSettingsList,
	}

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE:  runSettingsGet,
	}
	getCmd.Flags().String("default", "", "Value printed when the key is unset")

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runSettingsSet,
	}

	settingsCmd.AddCommand(getCmd, setCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		settings, err := a.store.Settings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, settings)
		}
		if len(settings) == 0 {
			fmt.Fprintln(out, "No settings stored.")
			return nil
		}
		for _, k := range slices.Sorted(maps.Keys(settings)) {
			fmt.Fprintf(out, "%s = %s\n", k, settings[k])
		}
		return nil
	})
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	def, _ := cmd.Flags().GetString("default")
	return withApp(cmd, func(a *app) error {
		v, err := a.store.GetSetting(args[0], def)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"key": args[0], "value": v})
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], strings.Join(args[1:], " ")
	return withApp(cmd, func(a *app) error {
		if err := a.store.SetSetting(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		return nil
	})
}
