package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Row represents a single spreadsheet row as column name -> scalar value.
// Values are restricted to string, float64, bool, or nil. Rows may be sparse:
// a row is not required to carry every column of its sheet.
type Row map[string]any

// Sheet represents one named sheet of a dataset. Columns records the
// first-seen column order and is the only ordering authority for row
// serialization; Rows preserve source order.
type Sheet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Dataset is the in-memory tabular dataset a session chats about. Sheets are
// kept as an ordered slice rather than a map so every consumer iterates them
// in the same order.
type Dataset struct {
	Sheets []Sheet `json:"sheets"`
}

// AddSheet appends a sheet, replacing any existing sheet with the same name.
func (d *Dataset) AddSheet(s Sheet) {
	for i := range d.Sheets {
		if d.Sheets[i].Name == s.Name {
			d.Sheets[i] = s
			return
		}
	}
	d.Sheets = append(d.Sheets, s)
}

// Sheet returns the named sheet, or nil when absent.
func (d *Dataset) Sheet(name string) *Sheet {
	for i := range d.Sheets {
		if d.Sheets[i].Name == name {
			return &d.Sheets[i]
		}
	}
	return nil
}

// RowCount returns the total number of rows across all sheets.
func (d *Dataset) RowCount() int {
	total := 0
	for i := range d.Sheets {
		total += len(d.Sheets[i].Rows)
	}
	return total
}

// IsEmpty reports whether the dataset has no sheets at all.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.Sheets) == 0
}

// FormatValue renders a scalar cell value for snippets and row serialization.
// Floats drop trailing zeros, nil renders empty.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// FlattenRow joins a row's "col: value" pairs with ", ", following the
// sheet's column order and skipping columns the row does not carry. Original
// value case is preserved; callers that need case-insensitive matching
// lowercase the result themselves.
func FlattenRow(columns []string, row Row) string {
	var b strings.Builder
	first := true
	for _, col := range columns {
		v, ok := row[col]
		if !ok {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(col)
		b.WriteString(": ")
		b.WriteString(FormatValue(v))
		first = false
	}
	return b.String()
}

// Summary describes a dataset for API responses.
type Summary struct {
	SheetCount int            `json:"sheet_count"`
	RowCount   int            `json:"row_count"`
	Sheets     []SheetSummary `json:"sheets"`
}

// SheetSummary describes one sheet for API responses.
type SheetSummary struct {
	Name     string   `json:"name"`
	Columns  []string `json:"columns"`
	RowCount int      `json:"row_count"`
}

// Summarize builds the API-facing summary of a dataset.
func (d *Dataset) Summarize() Summary {
	s := Summary{SheetCount: len(d.Sheets), RowCount: d.RowCount()}
	for i := range d.Sheets {
		sh := &d.Sheets[i]
		s.Sheets = append(s.Sheets, SheetSummary{
			Name:     sh.Name,
			Columns:  append([]string(nil), sh.Columns...),
			RowCount: len(sh.Rows),
		})
	}
	return s
}
