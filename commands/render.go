package commands

import (
	"io"

	pt "github.com/jedib0t/go-pretty/v6/table"

	"nbacorpus/table"
)

func newTable(w io.Writer) pt.Writer {
	t := pt.NewWriter()
	t.SetStyle(pt.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// previewColumns are shown when present; other columns are left out of
// the terminal preview.
var previewColumns = []string{"GAME_DATE", "MATCHUP", "WL", "MIN", "PTS", "REB", "AST", "PLAYER_NAME", "TEAM_ABBREVIATION"}

// renderPreview prints up to limit rows of t. With no known column present
// every column is printed.
func renderPreview(w io.Writer, t *table.Table, limit int) {
	var idx []int
	header := pt.Row{}
	for _, c := range previewColumns {
		if i := t.Index(c); i >= 0 {
			idx = append(idx, i)
			header = append(header, c)
		}
	}
	if len(idx) == 0 {
		for i, c := range t.Columns {
			idx = append(idx, i)
			header = append(header, c)
		}
	}

	out := newTable(w)
	out.AppendHeader(header)
	for n, row := range t.Rows {
		if limit > 0 && n >= limit {
			break
		}
		r := make(pt.Row, len(idx))
		for j, i := range idx {
			if i < len(row) {
				r[j] = row[i]
			}
		}
		out.AppendRow(r)
	}
	if limit > 0 && t.Len() > limit {
		out.SetCaption("%d of %d rows", limit, t.Len())
	}
	out.Render()
}
