package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show library location, counts and free space",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
	statusCmd.Flags().Bool("probe-hw", false, "Detect the hardware encoder (runs test encodes)")
	rootCmd.AddCommand(statusCmd)
}

type statusReport struct {
	Config     string `json:"config"`
	Library    string `json:"library"`
	Catalog    string `json:"catalog"`
	Movies     int    `json:"movies"`
	Shows      int    `json:"shows"`
	FreeBytes  uint64 `json:"free_bytes"`
	TotalBytes uint64 `json:"total_bytes"`
	FFmpeg     string `json:"ffmpeg"`
	FFprobe    string `json:"ffprobe"`
	HWAccel    string `json:"hwaccel"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	probe, _ := cmd.Flags().GetBool("probe-hw")
	return withApp(cmd, func(a *app) error {
		movies, err := a.store.CountMovies()
		if err != nil {
			return err
		}
		shows, err := a.store.CountShows()
		if err != nil {
			return err
		}
		space, err := a.lib.FreeSpace()
		if err != nil {
			a.logger.Warn("free space unavailable", "error", err)
		}

		tc := a.tr.Config()
		r := statusReport{
			Config:     a.configPath,
			Library:    a.lib.Root(),
			Catalog:    a.cfg.DatabasePath(),
			Movies:     movies,
			Shows:      shows,
			FreeBytes:  space.Free,
			TotalBytes: space.Total,
			FFmpeg:     tc.FFmpeg,
			FFprobe:    tc.FFprobe,
			HWAccel:    string(tc.HWAccel),
		}
		if probe {
			r.HWAccel = string(a.tr.HardwareAccel(cmd.Context()))
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, r)
		}
		printStatus(cmd, r)
		return nil
	})
}

func printStatus(cmd *cobra.Command, r statusReport) {
	out := cmd.OutOrStdout()
	cfg := r.Config
	if cfg == "" {
		cfg = "(portable, none found)"
	}
	fmt.Fprintf(out, "Config:   %s\n", cfg)
	fmt.Fprintf(out, "Library:  %s\n", r.Library)
	fmt.Fprintf(out, "Catalog:  %s\n", r.Catalog)
	fmt.Fprintf(out, "Movies:   %d\n", r.Movies)
	fmt.Fprintf(out, "Shows:    %d\n", r.Shows)
	if r.TotalBytes > 0 {
		fmt.Fprintf(out, "Free:     %s of %s\n", formatBytes(r.FreeBytes), formatBytes(r.TotalBytes))
	}
	fmt.Fprintf(out, "FFmpeg:   %s\n", r.FFmpeg)
	fmt.Fprintf(out, "FFprobe:  %s\n", r.FFprobe)
	fmt.Fprintf(out, "HW accel: %s\n", r.HWAccel)
}
