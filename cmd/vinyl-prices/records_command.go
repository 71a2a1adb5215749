package main

import (
	"fmt"

	"github.com/handiism/vinyl-prices/internal/updater"
	"github.com/spf13/cobra"
)

func newRecordsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List the records an update would look up, without network access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := root.loadSettings()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows, err := updater.New(settings, nil).LoadRows(cmd.Context())
			if err != nil {
				return err
			}

			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				key := row.Record.Key()
				if !row.Record.Valid() {
					key = "(skipped)"
				}
				table = append(table, []string{row.Source, row.Record.Artist, row.Record.Title, row.Record.Year, key})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Source", "Artist", "Title", "Year", "Key"},
				table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}
