// Package spreadsheet reads uploaded workbooks into kpi tables. The
// first row of a sheet names its columns; every later row is classified
// cell by cell into the loosely-typed kpi.Cell union.
package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"business-advisor/kpi"
)

// ListSheets returns the workbook's sheet names in workbook order.
func ListSheets(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ReadSheet loads one sheet as a kpi.Table. A sheet with no rows yields
// an empty table with no columns.
func ReadSheet(data []byte, name string) (*kpi.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return kpi.NewTable(nil), nil
	}

	table := kpi.NewTable(rows[0])
	for _, raw := range rows[1:] {
		row := make([]kpi.Cell, len(table.Columns))
		for i := range table.Columns {
			if i < len(raw) {
				row[i] = classifyCell(raw[i])
			} else {
				row[i] = kpi.Empty()
			}
		}
		table.AddRow(row)
	}
	return table, nil
}

// cellDateLayouts covers the display formats workbook dates typically
// come through as.
var cellDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	"2006-01",
}

func classifyCell(raw string) kpi.Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return kpi.Empty()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return kpi.Number(f)
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return kpi.Date(t)
		}
	}
	return kpi.Text(s)
}
