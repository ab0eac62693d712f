package commands

import (
	"errors"

	pt "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nbacorpus/identity"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Looks up player ids by name.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(pt.Row{"Query", "ID", "Player"})
			for _, name := range args {
				e, err := a.resolver.Resolve(cmd.Context(), identity.Query{Name: name})
				switch {
				case errors.Is(err, identity.ErrNotFound):
					t.AppendRow(pt.Row{name, "-", "not found"})
				case err != nil:
					return err
				default:
					t.AppendRow(pt.Row{name, e.ID, e.DisplayName})
				}
			}
			t.Render()
			return nil
		},
	}
}
