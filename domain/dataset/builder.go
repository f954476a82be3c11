package dataset

import (
	"sort"
	"strconv"
	"strings"
)

// CoerceScalar converts a raw spreadsheet cell into a typed scalar. Numbers
// become float64, true/false become bool, empty cells become nil, everything
// else stays a string.
func CoerceScalar(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	return trimmed
}

// FromMap builds a Dataset from a sheet-name -> rows mapping, the shape a
// JSON upload body carries. Sheet names are sorted so identical input maps
// always produce an identical sheet order, and each sheet's column order is
// the first-seen order across its rows.
func FromMap(sheets map[string][]Row) *Dataset {
	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	ds := &Dataset{}
	for _, name := range names {
		rows := sheets[name]
		sheet := Sheet{Name: name}
		seen := make(map[string]bool)
		for _, row := range rows {
			// Within one row, collect new columns in sorted order; JSON
			// objects carry no order of their own.
			var fresh []string
			for col := range row {
				if !seen[col] {
					fresh = append(fresh, col)
				}
			}
			sort.Strings(fresh)
			for _, col := range fresh {
				seen[col] = true
				sheet.Columns = append(sheet.Columns, col)
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		ds.AddSheet(sheet)
	}
	return ds
}
