package source

import (
	"fmt"
	"strings"
)

// Table is a raw tabular source: a header plus string-typed rows. Rows
// appended from different files are remapped by column name, so exports
// whose column order drifts between files still line up.
type Table struct {
	Name   string
	header []string
	index  map[string]int // trimmed column name → position
	rows   [][]string
}

// NewTable creates an empty table with the given header. Column names are
// trimmed; the first occurrence of a duplicated name wins.
func NewTable(name string, header []string) *Table {
	t := &Table{Name: name, header: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(h)
		t.header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// Header returns the column names in table order.
func (t *Table) Header() []string { return t.header }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Append adds rows whose columns follow fileHeader, remapping them into the
// table's column order. Columns unknown to the table are dropped; table
// columns absent from the file come through empty.
func (t *Table) Append(fileHeader []string, rows [][]string) {
	mapping := make([]int, len(fileHeader)) // file position → table position, -1 = drop
	for i, h := range fileHeader {
		if pos, ok := t.index[strings.TrimSpace(h)]; ok {
			mapping[i] = pos
		} else {
			mapping[i] = -1
		}
	}
	for _, row := range rows {
		out := make([]string, len(t.header))
		for i, v := range row {
			if i < len(mapping) && mapping[i] >= 0 {
				out[mapping[i]] = v
			}
		}
		t.rows = append(t.rows, out)
	}
}

// AppendRow adds one row already in table column order.
func (t *Table) AppendRow(row []string) {
	out := make([]string, len(t.header))
	copy(out, row)
	t.rows = append(t.rows, out)
}

// Require verifies that every named column exists, returning a descriptive
// error naming the table and the first missing column otherwise.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.index[c]; !ok {
			return fmt.Errorf("source %s: missing expected column %q", t.Name, c)
		}
	}
	return nil
}

// Field returns the value at row i, column col; "" when the column is
// unknown or the row is ragged.
func (t *Table) Field(i int, col string) string {
	pos, ok := t.index[col]
	if !ok || i >= len(t.rows) || pos >= len(t.rows[i]) {
		return ""
	}
	return t.rows[i][pos]
}
