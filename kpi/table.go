package kpi

// Table is an ordered sequence of rows under named columns. Rows are
// positional; a row shorter than the column list is treated as padded
// with empty cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

func NewTable(columns []string) *Table {
	return &Table{Columns: columns, Rows: make([][]Cell, 0)}
}

func (t *Table) AddRow(row []Cell) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns -1 when the column is not present.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// cellAt returns the cell for a row/column pair, an empty cell when the
// row is too short.
func (t *Table) cellAt(row []Cell, colIdx int) Cell {
	if colIdx < 0 || colIdx >= len(row) {
		return Empty()
	}
	return row[colIdx]
}
