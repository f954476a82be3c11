package relevance

import (
	"fmt"
	"reflect"
	"testing"

	"tablechat/domain/dataset"
)

func singleSheetDataset() *dataset.Dataset {
	return &dataset.Dataset{Sheets: []dataset.Sheet{
		{
			Name:    "Sheet1",
			Columns: []string{"city", "note"},
			Rows:    []dataset.Row{{"city": "Paris", "note": "nice weather"}},
		},
	}}
}

func TestKeywords_FiltersStopWordsAndShortTokens(t *testing.T) {
	got := Keywords("weather in Paris")
	want := []string{"weather", "paris"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
}

func TestKeywords_EmptyQuery(t *testing.T) {
	if kw := Keywords(""); len(kw) != 0 {
		t.Fatalf("expected no keywords for empty query, got %v", kw)
	}
	// Punctuation-only and stop-word-only queries degrade the same way.
	if kw := Keywords("?!, ..."); len(kw) != 0 {
		t.Fatalf("expected no keywords for punctuation query, got %v", kw)
	}
	if kw := Keywords("what is the"); len(kw) != 0 {
		t.Fatalf("expected no keywords for stop-word query, got %v", kw)
	}
}

func TestSelectContext_SingleMatch(t *testing.T) {
	ds := singleSheetDataset()
	got := SelectContext("weather in Paris", ds)
	want := []string{`[From sheet "Sheet1", row 1]: city: Paris, note: nice weather`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SelectContext = %v, want %v", got, want)
	}
}

func TestSelectContext_NoMatchFallsBackToSample(t *testing.T) {
	ds := singleSheetDataset()
	got := SelectContext("xyz", ds)
	want := []string{`[Sample from sheet "Sheet1"]: city: Paris, note: nice weather`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SelectContext = %v, want %v", got, want)
	}
}

func TestSelectContext_EmptyDataset(t *testing.T) {
	for _, query := range []string{"", "xyz", "weather in Paris"} {
		if got := SelectContext(query, &dataset.Dataset{}); len(got) != 0 {
			t.Fatalf("query %q: expected empty result for empty dataset, got %v", query, got)
		}
	}
}

func TestSelectContext_EmptyKeywordsEqualsSampleSet(t *testing.T) {
	ds := &dataset.Dataset{Sheets: []dataset.Sheet{
		{Name: "A", Columns: []string{"x"}, Rows: []dataset.Row{{"x": "one"}, {"x": "two"}}},
		{Name: "Empty", Columns: []string{"x"}},
		{Name: "B", Columns: []string{"y"}, Rows: []dataset.Row{{"y": "three"}}},
	}}
	got := SelectContext("", ds)
	want := []string{
		`[Sample from sheet "A"]: x: one`,
		`[Sample from sheet "B"]: y: three`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SelectContext = %v, want %v", got, want)
	}
}

func TestSelectContext_TruncatesToTwentyInSheetThenRowOrder(t *testing.T) {
	// 25 matching rows spread across two sheets.
	ds := &dataset.Dataset{}
	sheetA := dataset.Sheet{Name: "A", Columns: []string{"item"}}
	for i := 0; i < 15; i++ {
		sheetA.Rows = append(sheetA.Rows, dataset.Row{"item": fmt.Sprintf("widget %d", i)})
	}
	sheetB := dataset.Sheet{Name: "B", Columns: []string{"item"}}
	for i := 0; i < 10; i++ {
		sheetB.Rows = append(sheetB.Rows, dataset.Row{"item": fmt.Sprintf("widget %d", i)})
	}
	ds.AddSheet(sheetA)
	ds.AddSheet(sheetB)

	got := SelectContext("widget", ds)
	if len(got) != MaxContextSnippets {
		t.Fatalf("expected %d snippets, got %d", MaxContextSnippets, len(got))
	}
	// First 15 come from sheet A rows 1..15, remaining 5 from sheet B rows 1..5.
	if got[0] != `[From sheet "A", row 1]: item: widget 0` {
		t.Fatalf("unexpected first snippet: %s", got[0])
	}
	if got[14] != `[From sheet "A", row 15]: item: widget 14` {
		t.Fatalf("unexpected 15th snippet: %s", got[14])
	}
	if got[15] != `[From sheet "B", row 1]: item: widget 0` {
		t.Fatalf("unexpected 16th snippet: %s", got[15])
	}
	if got[19] != `[From sheet "B", row 5]: item: widget 4` {
		t.Fatalf("unexpected last snippet: %s", got[19])
	}
}

func TestSelectContext_SubstringMatchInsideLargerWord(t *testing.T) {
	ds := &dataset.Dataset{Sheets: []dataset.Sheet{
		{Name: "S", Columns: []string{"n"}, Rows: []dataset.Row{{"n": "thunderstorm"}}},
	}}
	got := SelectContext("storm", ds)
	if len(got) != 1 || got[0] != `[From sheet "S", row 1]: n: thunderstorm` {
		t.Fatalf("expected substring match inside larger word, got %v", got)
	}
}

func TestSelectContext_CaseInsensitiveMatchPreservesOriginalCase(t *testing.T) {
	ds := &dataset.Dataset{Sheets: []dataset.Sheet{
		{Name: "S", Columns: []string{"City"}, Rows: []dataset.Row{{"City": "PARIS"}}},
	}}
	got := SelectContext("paris", ds)
	if len(got) != 1 || got[0] != `[From sheet "S", row 1]: City: PARIS` {
		t.Fatalf("expected original case in snippet, got %v", got)
	}
}

func TestSelectContext_DeterministicAndNonMutating(t *testing.T) {
	ds := &dataset.Dataset{Sheets: []dataset.Sheet{
		{Name: "A", Columns: []string{"a", "b"}, Rows: []dataset.Row{
			{"a": "alpha", "b": float64(1)},
			{"a": "beta"},
		}},
		{Name: "B", Columns: []string{"c"}, Rows: []dataset.Row{{"c": true}}},
	}}
	before := fmt.Sprintf("%#v", ds)

	first := SelectContext("alpha beta", ds)
	second := SelectContext("alpha beta", ds)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated calls differ: %v vs %v", first, second)
	}
	if after := fmt.Sprintf("%#v", ds); after != before {
		t.Fatalf("dataset mutated by SelectContext")
	}
}

func TestSelectContext_SparseRowSkipsMissingColumns(t *testing.T) {
	ds := &dataset.Dataset{Sheets: []dataset.Sheet{
		{Name: "S", Columns: []string{"a", "b", "c"}, Rows: []dataset.Row{{"a": "left", "c": "right"}}},
	}}
	got := SelectContext("left", ds)
	if len(got) != 1 || got[0] != `[From sheet "S", row 1]: a: left, c: right` {
		t.Fatalf("unexpected sparse-row snippet: %v", got)
	}
}

func TestSelectContext_ResultLengthBound(t *testing.T) {
	// Capped at 20 unless only the fallback path fires; the fallback emits
	// one snippet per non-empty sheet and ignores the cap.
	ds := &dataset.Dataset{}
	for i := 0; i < 25; i++ {
		ds.AddSheet(dataset.Sheet{
			Name:    fmt.Sprintf("S%02d", i),
			Columns: []string{"v"},
			Rows:    []dataset.Row{{"v": fmt.Sprintf("value %d", i)}},
		})
	}
	if got := SelectContext("value", ds); len(got) != MaxContextSnippets {
		t.Fatalf("matched path: expected cap %d, got %d", MaxContextSnippets, len(got))
	}
	if got := SelectContext("zzz", ds); len(got) != 25 {
		t.Fatalf("fallback path: expected 25 samples, got %d", len(got))
	}
}
