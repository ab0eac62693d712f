// Package table holds tabular game-log data as string cells, the way it is
// persisted to CSV.
package table

import (
	"encoding/csv"
	"io"
	"slices"
)

type Table struct {
	Columns []string
	Rows    [][]string
}

func New(columns ...string) *Table {
	return &Table{Columns: columns, Rows: [][]string{}}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool { return t.Len() == 0 }

// Append adds a row as-is. Rows are not checked against the column count.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Index returns the position of the named column or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Columns, name)
}

// Column returns every value of the named column. Short rows yield "".
func (t *Table) Column(name string) []string {
	i := t.Index(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// SetColumn sets name to value on every row, adding the column when absent.
func (t *Table) SetColumn(name, value string) {
	i := t.Index(name)
	if i < 0 {
		t.Columns = append(t.Columns, name)
		i = len(t.Columns) - 1
	}
	for r, row := range t.Rows {
		for len(row) <= i {
			row = append(row, "")
		}
		row[i] = value
		t.Rows[r] = row
	}
}

func (t *Table) Clone() *Table {
	c := &Table{
		Columns: slices.Clone(t.Columns),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = slices.Clone(row)
	}
	return c
}

// Concat stacks tables row-wise. When every table shares the same columns
// the rows are copied untouched. Otherwise the result carries the union of
// columns in first-seen order and cells are placed by column name, leaving
// "" where a table lacks a column.
func Concat(tables ...*Table) *Table {
	var parts []*Table
	for _, t := range tables {
		if t != nil {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return New()
	}

	same := true
	for _, t := range parts[1:] {
		if !slices.Equal(t.Columns, parts[0].Columns) {
			same = false
			break
		}
	}

	if same {
		out := &Table{Columns: slices.Clone(parts[0].Columns), Rows: [][]string{}}
		for _, t := range parts {
			for _, row := range t.Rows {
				out.Rows = append(out.Rows, slices.Clone(row))
			}
		}
		return out
	}

	out := New()
	pos := map[string]int{}
	for _, t := range parts {
		for _, c := range t.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, t := range parts {
		for _, row := range t.Rows {
			merged := make([]string, len(out.Columns))
			for i, c := range t.Columns {
				if i < len(row) {
					merged[pos[c]] = row[i]
				}
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

// WriteCSV writes a header line followed by every row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadCSV parses what WriteCSV produces. Ragged rows are kept as they are.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return New(), nil
	}
	t := New(records[0]...)
	if len(records) > 1 {
		t.Rows = records[1:]
	}
	return t, nil
}
