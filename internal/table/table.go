// Package table provides the minimal named-column string table the pipeline
// core operates on. Raw CSV inputs have no contractually fixed column names
// or casing, so the table keeps cells untyped; coercion happens downstream
// in the cleaning stage. All operations return a new table and never mutate
// their receiver.
package table

import "strings"

// Table is an immutable named-column table of string cells. Column names may
// repeat (CSV headers can); lookups resolve to the first occurrence.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a table from a header and rows. Short rows are padded with
// empty cells so every row has one cell per column.
func New(columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)

	padded := make([][]string, len(rows))
	for i, r := range rows {
		row := make([]string, len(cols))
		copy(row, r)
		padded[i] = row
	}

	return &Table{
		columns: cols,
		index:   buildIndex(cols),
		rows:    padded,
	}
}

func buildIndex(columns []string) map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, exists := idx[c]; !exists {
			idx[c] = i
		}
	}
	return idx
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the cell at (row, column). The second return is false when
// the column does not exist.
func (t *Table) Cell(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	return t.rows[row][i], true
}

// Row returns a copy of the cells of one row.
func (t *Table) Row(row int) []string {
	r := make([]string, len(t.rows[row]))
	copy(r, t.rows[row])
	return r
}

// Rename returns a table with column names replaced per the mapping.
// Only the first occurrence of each source name is renamed.
func (t *Table) Rename(mapping map[string]string) *Table {
	cols := t.Columns()
	renamed := make(map[string]bool, len(mapping))
	for i, c := range cols {
		if to, ok := mapping[c]; ok && !renamed[c] {
			cols[i] = to
			renamed[c] = true
		}
	}
	return &Table{columns: cols, index: buildIndex(cols), rows: t.rows}
}

// NormalizeColumns returns a table with every column name lower-cased and
// stripped of surrounding whitespace. Idempotent.
func (t *Table) NormalizeColumns() *Table {
	cols := t.Columns()
	for i, c := range cols {
		cols[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return &Table{columns: cols, index: buildIndex(cols), rows: t.rows}
}

// DropColumn returns a table without the named column (every occurrence).
// Returns the receiver unchanged when the column does not exist.
func (t *Table) DropColumn(name string) *Table {
	if !t.HasColumn(name) {
		return t
	}

	keep := make([]int, 0, len(t.columns))
	cols := make([]string, 0, len(t.columns))
	for i, c := range t.columns {
		if c == name {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, c)
	}

	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		row := make([]string, len(keep))
		for j, k := range keep {
			row[j] = r[k]
		}
		rows[i] = row
	}

	return &Table{columns: cols, index: buildIndex(cols), rows: rows}
}

// Filter returns a table containing only the rows for which keep returns
// true. Row order is preserved.
func (t *Table) Filter(keep func(row int) bool) *Table {
	rows := make([][]string, 0, len(t.rows))
	for i := range t.rows {
		if keep(i) {
			rows = append(rows, t.rows[i])
		}
	}
	return &Table{columns: t.columns, index: t.index, rows: rows}
}

// WithColumnValues returns a table where the named column's cells are
// replaced by values (one per row). The column is appended when absent.
func (t *Table) WithColumnValues(name string, values []string) *Table {
	if i, ok := t.index[name]; ok {
		rows := make([][]string, len(t.rows))
		for r := range t.rows {
			row := make([]string, len(t.rows[r]))
			copy(row, t.rows[r])
			row[i] = values[r]
			rows[r] = row
		}
		return &Table{columns: t.columns, index: t.index, rows: rows}
	}

	cols := append(t.Columns(), name)
	rows := make([][]string, len(t.rows))
	for r := range t.rows {
		rows[r] = append(t.Row(r), values[r])
	}
	return &Table{columns: cols, index: buildIndex(cols), rows: rows}
}
