package relevance

import (
	"reflect"
	"testing"
)

func TestSearchKeywords_BuildsDedupedNGrams(t *testing.T) {
	got := SearchKeywords("quarterly sales revenue growth")
	want := []string{
		"quarterly", "sales", "revenue", "growth",
		"quarterly sales", "sales revenue", "revenue growth",
		"quarterly sales revenue", "sales revenue growth",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SearchKeywords = %v, want %v", got, want)
	}
}

func TestSearchKeywords_DeduplicatesRepeatedTokens(t *testing.T) {
	got := SearchKeywords("sales sales sales")
	want := []string{"sales", "sales sales", "sales sales sales"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SearchKeywords = %v, want %v", got, want)
	}
}

func TestSearchKeywords_StopWordsExcluded(t *testing.T) {
	got := SearchKeywords("what is the weather in Paris")
	want := []string{"weather", "paris", "weather paris"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SearchKeywords = %v, want %v", got, want)
	}
}

func TestSearchKeywords_EmptyQuery(t *testing.T) {
	if got := SearchKeywords(""); len(got) != 0 {
		t.Fatalf("expected no phrases, got %v", got)
	}
}
