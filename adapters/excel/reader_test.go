package excel

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	csvData := "city,population,capital\nParis,2100000,true\nLyon,513000,false\n"
	reader := NewDataReader("cities.csv")

	ds, err := reader.Read(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(ds.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(ds.Sheets))
	}
	sheet := ds.Sheets[0]
	if sheet.Name != "cities" {
		t.Fatalf("sheet name = %q, want %q", sheet.Name, "cities")
	}
	if !reflect.DeepEqual(sheet.Columns, []string{"city", "population", "capital"}) {
		t.Fatalf("columns = %v", sheet.Columns)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0]["city"] != "Paris" {
		t.Fatalf("city = %v", sheet.Rows[0]["city"])
	}
	if sheet.Rows[0]["population"] != float64(2100000) {
		t.Fatalf("population not coerced to number: %#v", sheet.Rows[0]["population"])
	}
	if sheet.Rows[1]["capital"] != false {
		t.Fatalf("capital not coerced to bool: %#v", sheet.Rows[1]["capital"])
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	csvData := "a,b,c\n1,2\n4,5,6,7\n"
	ds, err := NewDataReader("ragged.csv").Read(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	rows := ds.Sheets[0].Rows
	if _, ok := rows[0]["c"]; ok {
		t.Fatalf("short row should not carry column c")
	}
	if rows[1]["c"] != float64(6) {
		t.Fatalf("long row truncated wrong: %#v", rows[1])
	}
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	if _, err := NewDataReader("empty.csv").Read(strings.NewReader("a,b,c\n")); err == nil {
		t.Fatalf("expected error for header-only csv")
	}
}

func TestReadExcel_AllSheetsInWorkbookOrder(t *testing.T) {
	f := excelize.NewFile()
	// Default sheet becomes "Orders"; a second sheet follows it.
	if err := f.SetSheetName("Sheet1", "Orders"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, cells := range [][]any{
		{"item", "qty"},
		{"laptop", 2},
		{"mouse", 10},
	} {
		for j, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Orders", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	if _, err := f.NewSheet("Returns"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	for i, cells := range [][]any{
		{"item", "reason"},
		{"mouse", "defective"},
	} {
		for j, v := range cells {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Returns", cell, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	ds, err := NewDataReader("orders.xlsx").Read(&buf)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if len(ds.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(ds.Sheets))
	}
	if ds.Sheets[0].Name != "Orders" || ds.Sheets[1].Name != "Returns" {
		t.Fatalf("sheet order = %s, %s", ds.Sheets[0].Name, ds.Sheets[1].Name)
	}
	if ds.Sheets[0].Rows[0]["qty"] != float64(2) {
		t.Fatalf("qty not coerced: %#v", ds.Sheets[0].Rows[0]["qty"])
	}
	if ds.Sheets[1].Rows[0]["reason"] != "defective" {
		t.Fatalf("reason = %#v", ds.Sheets[1].Rows[0]["reason"])
	}
}

func TestReadExcel_SkipsSheetsWithoutDataRows(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "only-a-header"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	if err := f.SetCellValue("Data", "A1", "v"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Data", "A2", "42"); err != nil {
		t.Fatalf("set cell: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	ds, err := NewDataReader("partial.xlsx").Read(&buf)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if len(ds.Sheets) != 1 || ds.Sheets[0].Name != "Data" {
		t.Fatalf("expected only the Data sheet, got %+v", ds.Summarize())
	}
}
