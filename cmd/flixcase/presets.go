package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/config"
	"github.com/vmunix/flixcase/internal/transcode"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "presets",
		Short: "List encoding presets",
		Args:  cobra.NoArgs,
		RunE:  runPresets,
	})
}

func runPresets(cmd *cobra.Command, args []string) error {
	presets := transcode.Presets()
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, presets)
	}

	def := config.DefaultPreset
	if cfg, _, err := loadConfig(); err == nil {
		def = cfg.Encoder.DefaultPreset
	}
	fmt.Fprintln(out, renderPresets(presets, def))
	return nil
}

func renderPresets(presets []transcode.Preset, defaultKey string) string {
	rows := make([][]string, len(presets))
	for i, p := range presets {
		key := p.Key
		if key == defaultKey {
			key += " *"
		}
		rows[i] = []string{key, p.Name, p.VideoCodec, p.QualityLabel(), p.AudioCodec, p.Description}
	}
	return renderTable(
		[]string{"Key", "Name", "Video", "Quality", "Audio", "Description"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
