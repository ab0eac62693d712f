package commands

import (
	"fmt"
	"os"
	"path/filepath"

	pt "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nbacorpus/corpus"
	"nbacorpus/utils"
)

const corpusFile = "training_corpus.csv"

func newCorpusCmd(a *app) *cobra.Command {
	var (
		seasons []string
		noCache bool
		out     string
	)
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Assembles the multi-season training corpus and writes it as CSV.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, err := a.roster()
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(a.cfg.DataDir, corpusFile)
			}

			obs, stop := a.observer(cmd, "training corpus")
			defer stop()
			asm := corpus.NewAssembler(a.builder(obs), a.repo,
				corpus.WithSeasons(a.seasons),
				corpus.WithObserver(obs),
				corpus.WithLogger(a.log.Named("assembler")),
				corpus.WithMetrics(a.metrics),
			)
			c, err := asm.Assemble(cmd.Context(), corpus.AssembleOptions{
				Seasons:  seasons,
				UseCache: !noCache,
				Roster:   players,
			})
			if err != nil {
				return err
			}

			if err := writeCSV(out, c); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			t := newTable(w)
			t.AppendHeader(pt.Row{"Season", "Status"})
			for _, s := range c.Seasons {
				t.AppendRow(pt.Row{s, "included"})
			}
			for _, s := range c.Skipped {
				t.AppendRow(pt.Row{s.Season, "skipped: " + s.Reason})
			}
			t.Render()
			fmt.Fprintf(w, "%d rows written to %s\n", c.Table.Len(), out)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&seasons, "seasons", nil, "seasons to include (default current and previous)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "rebuild seasons even when a stored dataset exists")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default <data-dir>/"+corpusFile+")")
	return cmd
}

func writeCSV(path string, c *corpus.Corpus) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return utils.ErrorWithTrace(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return utils.ErrorWithTrace(err)
	}
	if err := c.Table.WriteCSV(f); err != nil {
		f.Close()
		return utils.ErrorWithTrace(err)
	}
	return utils.ErrorWithTrace(f.Close())
}
