package csvsource

import (
	"strings"
	"testing"
)

const sampleCSV = `id;species;ring;place;area;date;status;melded;lat;lon;comment
1;Graugans; GA123 ;Lake;North;2020-06-15;breeding;ja;47.5;9.2;first brood
2;Graugans;GA124;Forest;South;2020-10-02;;nein;NaN;9.3;
3;Höckerschwan;;Lake;North;kein Datum;resting;;;;
;;;;;;;;;;
4;Graugans;GA123;Lake;North;;;;;;explicit calendar
`

func TestReadParsesTypedColumns(t *testing.T) {
	result, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 4 {
		t.Fatalf("expected 4 rows, got %d", result.Count)
	}
	if result.Excluded != 1 {
		t.Errorf("expected 1 excluded blank row, got %d", result.Excluded)
	}

	first := result.Table[0]
	if first.Species != "Graugans" || first.Ring != "GA123" {
		t.Errorf("unexpected first row: %+v", first)
	}
	if first.Ring != strings.TrimSpace(first.Ring) {
		t.Error("ring must be trimmed at ingestion")
	}
	if first.Date == nil || first.Date.Year() != 2020 {
		t.Errorf("expected parsed date, got %v", first.Date)
	}
	if first.Melded == nil || !*first.Melded {
		t.Error("melded 'ja' should parse true")
	}
	if first.Lat == nil || *first.Lat != 47.5 {
		t.Errorf("expected lat 47.5, got %v", first.Lat)
	}
}

func TestReadDerivesYearAndMonth(t *testing.T) {
	result, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	first := result.Table[0]
	if first.Year == nil || *first.Year != 2020 {
		t.Errorf("expected derived year 2020, got %v", first.Year)
	}
	if first.Month == nil || *first.Month != 6 {
		t.Errorf("expected derived month 6, got %v", first.Month)
	}
}

func TestReadMalformedValuesBecomeMissing(t *testing.T) {
	result, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	second := result.Table[1]
	if second.Lat != nil {
		t.Errorf("NaN lat should be missing, got %v", *second.Lat)
	}

	third := result.Table[2]
	if third.Date != nil {
		t.Errorf("unparseable date should be missing, got %v", third.Date)
	}
	if third.Year != nil {
		t.Error("no date and no explicit year: year should stay missing")
	}
	if third.Melded != nil {
		t.Error("empty boolean should stay missing")
	}
}

func TestReadStripsNullBytes(t *testing.T) {
	dirty := "id;species\n1;Grau\x00gans\n"
	result, err := Read(strings.NewReader(dirty))
	if err != nil {
		t.Fatal(err)
	}
	if result.Table[0].Species != "Graugans" {
		t.Errorf("null bytes should be stripped, got %q", result.Table[0].Species)
	}
}

func TestReadUnknownColumnsIgnored(t *testing.T) {
	csv := "id;species;mystery\n1;Graugans;42\n"
	result, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 row, got %d", result.Count)
	}
}

func TestReadEmptyFile(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParseRowExplicitYearWinsOverBadDate(t *testing.T) {
	header := []string{"id", "date", "year", "month"}
	s := ParseRow(header, []string{"1", "garbage", "2019", "11"})
	s.DeriveCalendar()

	if s.Year == nil || *s.Year != 2019 {
		t.Errorf("expected explicit year 2019, got %v", s.Year)
	}
	if s.Month == nil || *s.Month != 11 {
		t.Errorf("expected explicit month 11, got %v", s.Month)
	}
}
