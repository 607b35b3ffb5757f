package model

import (
	"testing"
	"time"
)

func date(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDeriveCalendar(t *testing.T) {
	s := &Sighting{Date: date(2020, 7, 14)}
	s.DeriveCalendar()

	if s.Year == nil || *s.Year != 2020 {
		t.Errorf("expected year 2020, got %v", s.Year)
	}
	if s.Month == nil || *s.Month != 7 {
		t.Errorf("expected month 7, got %v", s.Month)
	}
}

func TestDeriveCalendarKeepsExplicitValues(t *testing.T) {
	y, m := 1999, 3
	s := &Sighting{Date: date(2020, 7, 14), Year: &y, Month: &m}
	s.DeriveCalendar()

	if *s.Year != 1999 || *s.Month != 3 {
		t.Errorf("explicit year/month must win, got %d/%d", *s.Year, *s.Month)
	}
}

func TestTextUnknownColumn(t *testing.T) {
	s := &Sighting{ID: "x"}
	if _, ok := s.Text("no_such_column"); ok {
		t.Error("expected ok=false for unknown column")
	}
}

func TestTextMissingValuesRenderEmpty(t *testing.T) {
	s := &Sighting{}
	for _, col := range []string{"date", "year", "month", "lat", "melded"} {
		text, ok := s.Text(col)
		if !ok || text != "" {
			t.Errorf("column %s: expected empty string, got %q (ok=%v)", col, text, ok)
		}
	}
}

func TestNumberOfParsesStringColumns(t *testing.T) {
	s := &Sighting{Age: "3"}
	v, ok := s.NumberOf("age")
	if !ok || v != 3 {
		t.Errorf("expected 3, got %v (ok=%v)", v, ok)
	}

	s.Age = "unknown"
	if _, ok := s.NumberOf("age"); ok {
		t.Error("unparseable text must report ok=false")
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		field string
		kind  Kind
		ok    bool
	}{
		{"species", KindString, true},
		{"date", KindDate, true},
		{"lat", KindNumber, true},
		{"melded", KindBool, true},
		{"bogus", KindString, false},
	}
	for _, c := range cases {
		k, ok := KindOf(c.field)
		if k != c.kind || ok != c.ok {
			t.Errorf("KindOf(%s) = %v,%v; want %v,%v", c.field, k, ok, c.kind, c.ok)
		}
	}
}

func TestParseBoolVocabulary(t *testing.T) {
	trues := []string{"true", "Wahr", "1", "ja", "YES"}
	falses := []string{"false", "falsch", "0", "nein", "No"}

	for _, v := range trues {
		if b := ParseBool(v); b == nil || !*b {
			t.Errorf("ParseBool(%q) should be true", v)
		}
	}
	for _, v := range falses {
		if b := ParseBool(v); b == nil || *b {
			t.Errorf("ParseBool(%q) should be false", v)
		}
	}
	if ParseBool("maybe") != nil {
		t.Error("unrecognized text should be missing, not a value")
	}
}

func TestParseIncludedFlag(t *testing.T) {
	for _, v := range []string{"1", "true", "True", "TRUE"} {
		if !ParseIncludedFlag(v) {
			t.Errorf("ParseIncludedFlag(%q) should be true", v)
		}
	}
	for _, v := range []string{"", "0", "yes", "tRuE", "2"} {
		if ParseIncludedFlag(v) {
			t.Errorf("ParseIncludedFlag(%q) should be false", v)
		}
	}
}

func TestUniqueNonEmpty(t *testing.T) {
	table := Table{
		{Place: "Lake"},
		{Place: "  "},
		{Place: "Forest"},
		{Place: "Lake"},
	}
	got := table.UniqueNonEmpty("place")
	want := []string{"Forest", "Lake"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	if vals := table.UniqueNonEmpty("bogus"); vals != nil {
		t.Errorf("unknown column should yield nil, got %v", vals)
	}
}

func TestParseDate(t *testing.T) {
	cases := []string{"2020-06-15", "15.06.2020", "2020-06-15 00:00:00"}
	for _, c := range cases {
		d, ok := ParseDate(c)
		if !ok {
			t.Errorf("ParseDate(%q) failed", c)
			continue
		}
		if d.Year() != 2020 || d.Month() != time.June || d.Day() != 15 {
			t.Errorf("ParseDate(%q) = %v", c, d)
		}
	}
	if _, ok := ParseDate("not a date"); ok {
		t.Error("expected failure for junk input")
	}
}
