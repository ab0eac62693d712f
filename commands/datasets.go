package commands

import (
	pt "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "Lists stored datasets with their row counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			keys, err := a.repo.Keys(ctx)
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(pt.Row{"Dataset", "Rows", "Columns"})
			for _, k := range keys {
				ds, err := a.repo.Get(ctx, k)
				if err != nil {
					t.AppendRow(pt.Row{k, "-", err.Error()})
					continue
				}
				t.AppendRow(pt.Row{k, ds.Len(), len(ds.Columns)})
			}
			t.Render()
			return nil
		},
	}
}
