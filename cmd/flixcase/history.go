package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/events"
)

func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent import events",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().IntP("limit", "n", 20, "Number of events")
	historyCmd.Flags().String("operation", "", "Show every event of one import")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	operation, _ := cmd.Flags().GetString("operation")

	return withApp(cmd, func(a *app) error {
		var (
			raw []events.RawEvent
			err error
		)
		if operation != "" {
			raw, err = a.evlog.ForOperation(cmd.Context(), operation)
		} else {
			raw, err = a.evlog.Recent(cmd.Context(), limit)
		}
		if err != nil {
			return err
		}

		registry := events.DefaultRegistry()
		out := cmd.OutOrStdout()
		if jsonOutput {
			type eventJSON struct {
				ID      int64  `json:"id"`
				Type    string `json:"type"`
				Entity  string `json:"entity_type"`
				Summary string `json:"summary"`
				Time    string `json:"occurred_at"`
			}
			items := make([]eventJSON, len(raw))
			for i, e := range raw {
				items[i] = eventJSON{
					ID:      e.ID,
					Type:    e.EventType,
					Entity:  e.EntityType,
					Summary: registry.Describe(e),
					Time:    e.OccurredAt.UTC().Format(time.RFC3339),
				}
			}
			return printJSON(out, items)
		}
		if len(raw) == 0 {
			fmt.Fprintln(out, "No import history.")
			return nil
		}
		fmt.Fprintln(out, renderHistory(registry, raw))
		return nil
	})
}

func renderHistory(registry *events.Registry, raw []events.RawEvent) string {
	rows := make([][]string, len(raw))
	for i, e := range raw {
		rows[i] = []string{
			itoa(e.ID),
			e.OccurredAt.Local().Format("2006-01-02 15:04:05"),
			e.EventType,
			registry.Describe(e),
		}
	}
	return renderTable(
		[]string{"ID", "Time", "Event", "Summary"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}
