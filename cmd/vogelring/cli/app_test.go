package cli

import (
	"reflect"
	"testing"
)

func TestPredicatesFromFlags(t *testing.T) {
	ff := filterFlags{
		equals:   []string{"species=Kolbenente"},
		contains: []string{"place=see"},
		oneOf:    []string{"ring=A1, B2 ,"},
		dates:    []string{"date=2020-01-01..2020-12-31"},
		ranges:   []string{"lat=47.5..48.0"},
	}
	set, err := ff.predicates()
	if err != nil {
		t.Fatalf("predicates: %v", err)
	}
	if len(set) != 5 {
		t.Fatalf("got %d predicates, want 5", len(set))
	}
}

func TestPredicatesRejectsMalformed(t *testing.T) {
	for _, ff := range []filterFlags{
		{equals: []string{"no-separator"}},
		{equals: []string{"=value"}},
		{dates: []string{"date=2020-01-01"}},
	} {
		if _, err := ff.predicates(); err == nil {
			t.Errorf("expected error for %+v", ff)
		}
	}
}

func TestSplitRangeExprOpenBounds(t *testing.T) {
	column, start, end, err := splitRangeExpr("year=2019..")
	if err != nil {
		t.Fatalf("splitRangeExpr: %v", err)
	}
	if column != "year" || start != "2019" || end != "" {
		t.Errorf("got (%q, %q, %q)", column, start, end)
	}
}

func TestParseYears(t *testing.T) {
	years, err := parseYears("2019, 2021,2020")
	if err != nil {
		t.Fatalf("parseYears: %v", err)
	}
	if !reflect.DeepEqual(years, []int{2019, 2021, 2020}) {
		t.Errorf("years = %v", years)
	}
	if _, err := parseYears("abc"); err == nil {
		t.Error("expected error for non-numeric year")
	}
}
