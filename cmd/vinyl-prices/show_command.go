package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/handiism/vinyl-prices/internal/model"
	"github.com/handiism/vinyl-prices/internal/pricing"
	"github.com/handiism/vinyl-prices/internal/store"
	"github.com/spf13/cobra"
)

func newShowCommand(root *rootOptions) *cobra.Command {
	var onlyErrors bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the price store as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := root.loadSettings()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			prices, err := store.Load(settings.OutputPath)
			if err != nil {
				return err
			}
			if prices.Len() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries in %s\n", settings.OutputPath)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderStore(prices, onlyErrors))
			return nil
		},
	}
	cmd.Flags().BoolVar(&onlyErrors, "errors", false, "Only show entries without prices")
	return cmd
}

func renderStore(prices *model.Store, onlyErrors bool) string {
	headers := []string{"Record", "Status", "Release", "Prices", "Last checked"}
	var rows [][]string

	for _, key := range prices.Keys() {
		entry, ok := prices.Get(key)
		if !ok {
			rows = append(rows, []string{key, "unreadable", "", "", ""})
			continue
		}
		if onlyErrors && !entry.IsError() {
			continue
		}

		status := "ok"
		if entry.IsError() {
			status = string(entry.Error)
		}
		rows = append(rows, []string{
			key,
			status,
			string(entry.ReleaseID),
			formatSummary(pricing.Summarize(entry.Parsed, entry.Raw)),
			formatChecked(entry.LastChecked),
		})
	}

	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft})
}

func formatSummary(summary map[string]string) string {
	labels := pricing.SortedConditions(summary)
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s: %s", label, summary[label]))
	}
	return strings.Join(parts, "\n")
}

func formatChecked(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
