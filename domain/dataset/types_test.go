package dataset

import (
	"reflect"
	"testing"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Paris", "Paris"},
		{true, "true"},
		{false, "false"},
		{float64(3), "3"},
		{float64(3.50), "3.5"},
		{42, "42"},
	}
	for _, c := range cases {
		if got := FormatValue(c.in); got != c.want {
			t.Fatalf("FormatValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFlattenRow_FollowsColumnOrder(t *testing.T) {
	columns := []string{"city", "note", "pop"}
	row := Row{"note": "nice weather", "city": "Paris", "pop": float64(2100000)}
	got := FlattenRow(columns, row)
	want := "city: Paris, note: nice weather, pop: 2100000"
	if got != want {
		t.Fatalf("FlattenRow = %q, want %q", got, want)
	}
}

func TestFlattenRow_SparseRow(t *testing.T) {
	got := FlattenRow([]string{"a", "b", "c"}, Row{"c": "last"})
	if got != "c: last" {
		t.Fatalf("FlattenRow = %q, want %q", got, "c: last")
	}
}

func TestCoerceScalar(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"  ", nil},
		{"42", float64(42)},
		{"3.14", 3.14},
		{"true", true},
		{"FALSE", false},
		{"Paris", "Paris"},
		{" padded ", "padded"},
	}
	for _, c := range cases {
		if got := CoerceScalar(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("CoerceScalar(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestFromMap_StableSheetOrder(t *testing.T) {
	sheets := map[string][]Row{
		"Zeta":  {{"z": "1"}},
		"Alpha": {{"a": "1"}},
		"Mid":   {{"m": "1"}},
	}
	ds := FromMap(sheets)
	var names []string
	for _, s := range ds.Sheets {
		names = append(names, s.Name)
	}
	want := []string{"Alpha", "Mid", "Zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("sheet order = %v, want %v", names, want)
	}
}

func TestFromMap_CollectsColumnsFirstSeen(t *testing.T) {
	ds := FromMap(map[string][]Row{
		"S": {
			{"b": "1", "a": "2"},
			{"c": "3", "a": "4"},
		},
	})
	sheet := ds.Sheet("S")
	if sheet == nil {
		t.Fatalf("sheet S missing")
	}
	// Columns within one row sort alphabetically; later rows append new ones.
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(sheet.Columns, want) {
		t.Fatalf("columns = %v, want %v", sheet.Columns, want)
	}
}

func TestAddSheet_ReplacesByName(t *testing.T) {
	ds := &Dataset{}
	ds.AddSheet(Sheet{Name: "S", Rows: []Row{{"a": "1"}}})
	ds.AddSheet(Sheet{Name: "S", Rows: []Row{{"a": "1"}, {"a": "2"}}})
	if len(ds.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(ds.Sheets))
	}
	if got := len(ds.Sheets[0].Rows); got != 2 {
		t.Fatalf("expected replacement sheet with 2 rows, got %d", got)
	}
}

func TestSummarize(t *testing.T) {
	ds := FromMap(map[string][]Row{
		"A": {{"x": "1"}, {"x": "2"}},
		"B": {{"y": "3"}},
	})
	s := ds.Summarize()
	if s.SheetCount != 2 || s.RowCount != 3 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Sheets[0].Name != "A" || s.Sheets[0].RowCount != 2 {
		t.Fatalf("sheet summary = %+v", s.Sheets[0])
	}
}
