package spreadsheet_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"business-advisor/kpi"
	"business-advisor/spreadsheet"
)

// testWorkbook builds an in-memory workbook with a Sales and an
// Expenses sheet.
func testWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	setRow := func(sheet string, row int, cells []interface{}) {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			t.Fatalf("could not write row: %v", err)
		}
	}

	if _, err := f.NewSheet("Sales"); err != nil {
		t.Fatalf("could not create sheet: %v", err)
	}
	setRow("Sales", 1, []interface{}{"Date", "Customer", "Total_Revenue"})
	setRow("Sales", 2, []interface{}{"2025-01-15", "Acme", 1000})
	setRow("Sales", 3, []interface{}{"2025-02-10", "Globex", "not-a-number"})
	setRow("Sales", 4, []interface{}{"", "Initech"}) // ragged row

	if _, err := f.NewSheet("Expenses"); err != nil {
		t.Fatalf("could not create sheet: %v", err)
	}
	setRow("Expenses", 1, []interface{}{"Category", "Amount"})
	setRow("Expenses", 2, []interface{}{"Rent", 500.5})

	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("could not serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func TestListSheets(t *testing.T) {
	data := testWorkbook(t)

	sheets, err := spreadsheet.ListSheets(data)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Sales", "Expenses"}, sheets)
}

func TestListSheetsRejectsGarbage(t *testing.T) {
	_, err := spreadsheet.ListSheets([]byte("this is not a workbook"))
	assert.Error(t, err)
}

func TestReadSheetClassifiesCells(t *testing.T) {
	data := testWorkbook(t)

	table, err := spreadsheet.ReadSheet(data, "Sales")

	assert.NoError(t, err)
	assert.Equal(t, []string{"Date", "Customer", "Total_Revenue"}, table.Columns)
	assert.Len(t, table.Rows, 3)

	// dates arrive as date cells
	_, ok := table.Rows[0][0].CoerceDate()
	assert.True(t, ok)
	// numbers arrive as number cells
	v, ok := table.Rows[0][2].CoerceNumeric()
	assert.True(t, ok)
	assert.Equal(t, 1000.0, v)
	// junk stays text
	assert.Equal(t, kpi.KindText, table.Rows[1][2].Kind)
	// ragged rows pad with empty cells
	assert.Equal(t, kpi.KindEmpty, table.Rows[2][0].Kind)
	assert.Equal(t, kpi.KindEmpty, table.Rows[2][2].Kind)
}

func TestReadSheetFeedsTheProfiler(t *testing.T) {
	data := testWorkbook(t)

	sales, err := spreadsheet.ReadSheet(data, "Sales")
	assert.NoError(t, err)
	expenses, err := spreadsheet.ReadSheet(data, "Expenses")
	assert.NoError(t, err)

	p := kpi.BuildProfile(sales, expenses)

	if assert.NotNil(t, p.TotalRevenue) {
		assert.Equal(t, 1000.0, *p.TotalRevenue)
	}
	if assert.NotNil(t, p.TotalExpenses) {
		assert.Equal(t, 500.5, *p.TotalExpenses)
	}
}

func TestReadSheetUnknownSheet(t *testing.T) {
	data := testWorkbook(t)

	_, err := spreadsheet.ReadSheet(data, "Nope")
	assert.Error(t, err)
}
