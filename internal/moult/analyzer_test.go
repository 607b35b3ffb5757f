package moult

import (
	"errors"
	"testing"

	"github.com/vogelring/vogelring/internal/model"
)

func sighting(ring, species, place string, year, month int) *model.Sighting {
	return &model.Sighting{
		Ring:    ring,
		Species: species,
		Place:   place,
		Year:    &year,
		Month:   &month,
	}
}

func withStatus(s *model.Sighting, status string) *model.Sighting {
	s.Status = status
	return s
}

func params(years ...int) Parameters {
	return Parameters{
		Species:    "Goose",
		Place:      "Lake",
		Years:      years,
		Definition: PeriodDefinition(6, 8),
	}
}

func summaryByCategory(r *Result) map[Category]SummaryRow {
	out := make(map[Category]SummaryRow)
	for _, row := range r.Summary {
		out[row.Category] = row
	}
	return out
}

func expectRow(t *testing.T, rows map[Category]SummaryRow, c Category, count int, percent float64) {
	t.Helper()
	row, ok := rows[c]
	if !ok {
		t.Fatalf("missing summary row %s", c)
	}
	if row.Count != count || row.Percent != percent {
		t.Errorf("%s: expected %d (%.1f%%), got %d (%.1f%%)", c, count, percent, row.Count, row.Percent)
	}
}

func TestAnalyzeScenarioSingleTraveller(t *testing.T) {
	table := model.Table{
		sighting("A1", "Goose", "Lake", 2020, 6),
		sighting("A1", "Goose", "Lake", 2020, 7),
		sighting("A1", "Goose", "Forest", 2020, 10),
	}

	r, err := Analyze(table, params(2020))
	if err != nil {
		t.Fatal(err)
	}

	if r.MoultingRings.Len() != 1 || !r.MoultingRings.Contains("A1") {
		t.Errorf("expected moulting rings {A1}, got %v", r.MoultingRings.Values())
	}
	if len(r.RestOfRange) != 1 || len(r.Elsewhere) != 1 || len(r.AtMoultingPlace) != 0 {
		t.Errorf("expected rest=1 elsewhere=1 atplace=0, got %d/%d/%d",
			len(r.RestOfRange), len(r.Elsewhere), len(r.AtMoultingPlace))
	}

	rows := summaryByCategory(r)
	expectRow(t, rows, CategoryTotal, 1, 100)
	expectRow(t, rows, CategorySeenRestOfRange, 1, 100)
	expectRow(t, rows, CategoryOnlyDuringMoulting, 0, 0)
	expectRow(t, rows, CategorySeenAtPlaceRest, 0, 0)
	expectRow(t, rows, CategoryOnlyAtPlaceRest, 0, 0)
	expectRow(t, rows, CategorySeenElsewhere, 1, 100)
}

func TestAnalyzeOnlySeenDuringMoulting(t *testing.T) {
	table := model.Table{
		sighting("B1", "Goose", "Lake", 2020, 6),
		sighting("B1", "Goose", "Lake", 2020, 8),
	}

	r, err := Analyze(table, params(2020))
	if err != nil {
		t.Fatal(err)
	}

	rows := summaryByCategory(r)
	expectRow(t, rows, CategoryTotal, 1, 100)
	expectRow(t, rows, CategorySeenRestOfRange, 0, 0)
	expectRow(t, rows, CategoryOnlyDuringMoulting, 1, 100)
}

func TestAnalyzeStatusDefinitionKeepsFullRange(t *testing.T) {
	// Three years, status-defined moulting. No month exclusion applies to
	// the rest-of-range subset, so even the defining sightings reappear.
	table := model.Table{
		withStatus(sighting("C1", "Goose", "Lake", 2019, 7), "breeding"),
		withStatus(sighting("C1", "Goose", "Lake", 2020, 7), "resting"),
		withStatus(sighting("C2", "Goose", "Lake", 2021, 2), "breeding"),
		withStatus(sighting("C2", "Goose", "Moor", 2021, 9), "resting"),
		// Outside the year range: never considered.
		withStatus(sighting("C3", "Goose", "Lake", 2018, 7), "breeding"),
	}

	p := Parameters{
		Species:    "Goose",
		Place:      "Lake",
		Years:      []int{2019, 2020, 2021},
		Definition: StatusDefinition("breeding"),
	}

	r, err := Analyze(table, p)
	if err != nil {
		t.Fatal(err)
	}

	if r.MoultingRings.Len() != 2 {
		t.Fatalf("expected rings {C1,C2}, got %v", r.MoultingRings.Values())
	}
	// All four in-range sightings of C1/C2 stay in rest-of-range.
	if len(r.RestOfRange) != 4 {
		t.Errorf("status definition must not carve out a month window, got %d rows", len(r.RestOfRange))
	}
}

func TestAnalyzeStatusAllSentinel(t *testing.T) {
	table := model.Table{
		withStatus(sighting("D1", "Goose", "Lake", 2020, 3), "whatever"),
	}
	p := Parameters{
		Species:    "Goose",
		Place:      "Lake",
		Years:      []int{2020},
		Definition: StatusDefinition(StatusAll),
	}

	r, err := Analyze(table, p)
	if err != nil {
		t.Fatal(err)
	}
	if r.MoultingRings.Len() != 1 {
		t.Errorf("sentinel should match every status, got %v", r.MoultingRings.Values())
	}
}

func TestMonthInWindowWrapAround(t *testing.T) {
	inside := []int{11, 12, 1, 2}
	outside := []int{3, 4, 5, 6, 7, 8, 9, 10}

	for _, m := range inside {
		if !monthInWindow(m, 11, 2) {
			t.Errorf("month %d should be inside the Nov-Feb window", m)
		}
	}
	for _, m := range outside {
		if monthInWindow(m, 11, 2) {
			t.Errorf("month %d should be outside the Nov-Feb window", m)
		}
	}
}

func TestAnalyzeWrapAroundWindow(t *testing.T) {
	table := model.Table{
		sighting("E1", "Goose", "Lake", 2020, 12),
		sighting("E1", "Goose", "Lake", 2020, 1),
		sighting("E1", "Goose", "Forest", 2020, 5),
	}
	p := Parameters{
		Species:    "Goose",
		Place:      "Lake",
		Years:      []int{2020},
		Definition: PeriodDefinition(11, 2),
	}

	r, err := Analyze(table, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Moulting) != 2 {
		t.Errorf("expected 2 sightings inside the wrap-around window, got %d", len(r.Moulting))
	}
	if len(r.RestOfRange) != 1 || r.RestOfRange[0].Place != "Forest" {
		t.Errorf("expected the May sighting in rest-of-range, got %v", r.RestOfRange)
	}
}

func TestAnalyzePartitionIdentities(t *testing.T) {
	table := model.Table{
		sighting("F1", "Goose", "Lake", 2020, 7),
		sighting("F1", "Goose", "Lake", 2020, 3),
		sighting("F1", "Goose", "Moor", 2020, 4),
		sighting("F2", "Goose", "Lake", 2020, 7),
		sighting("F2", "Goose", "Lake", 2020, 10),
		sighting("F3", "Goose", "Lake", 2020, 8),
	}

	r, err := Analyze(table, params(2020))
	if err != nil {
		t.Fatal(err)
	}

	rows := summaryByCategory(r)
	total := rows[CategoryTotal].Count
	seenRest := rows[CategorySeenRestOfRange].Count
	onlyDuring := rows[CategoryOnlyDuringMoulting].Count

	if total != onlyDuring+seenRest {
		t.Errorf("identity broken: total=%d, only_during=%d, seen_rest=%d", total, onlyDuring, seenRest)
	}

	union := ringsOf(r.AtMoultingPlace).Union(ringsOf(r.Elsewhere))
	if seenRest != union.Len() {
		t.Errorf("seen_rest %d != |at ∪ elsewhere| %d", seenRest, union.Len())
	}
}

func TestAnalyzeEmptyResult(t *testing.T) {
	table := model.Table{
		sighting("G1", "Goose", "Lake", 2020, 1), // outside the window
		sighting("", "Goose", "Lake", 2020, 7),   // unringed
		sighting("  ", "Goose", "Lake", 2020, 7), // blank ring
	}

	_, err := Analyze(table, params(2020))
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestAnalyzeInsufficientParameters(t *testing.T) {
	table := model.Table{sighting("H1", "Goose", "Lake", 2020, 7)}

	bad := []Parameters{
		{Place: "Lake", Years: []int{2020}, Definition: PeriodDefinition(6, 8)},
		{Species: "Goose", Years: []int{2020}, Definition: PeriodDefinition(6, 8)},
		{Species: "Goose", Place: "Lake", Definition: PeriodDefinition(6, 8)},
		{Species: "Goose", Place: "Lake", Years: []int{2020}, Definition: PeriodDefinition(0, 8)},
		{Species: "Goose", Place: "Lake", Years: []int{2020}, Definition: PeriodDefinition(6, 13)},
		{Species: "Goose", Place: "Lake", Years: []int{2020}},
	}
	for i, p := range bad {
		if _, err := Analyze(table, p); !errors.Is(err, ErrInsufficientParameters) {
			t.Errorf("case %d: expected ErrInsufficientParameters, got %v", i, err)
		}
	}
}

func TestAnalyzeDropsRecordsWithoutYear(t *testing.T) {
	noYear := &model.Sighting{Ring: "I1", Species: "Goose", Place: "Lake"}
	m := 7
	noYear.Month = &m

	table := model.Table{
		noYear,
		sighting("I2", "Goose", "Lake", 2020, 7),
	}

	r, err := Analyze(table, params(2020))
	if err != nil {
		t.Fatal(err)
	}
	if r.MoultingRings.Contains("I1") {
		t.Error("records without a coercible year must be dropped, not fatal")
	}
	if !r.MoultingRings.Contains("I2") {
		t.Error("expected I2 in the moulting rings")
	}
}

func TestPlaceDistribution(t *testing.T) {
	table := model.Table{
		sighting("A", "Goose", "Moor", 2020, 3),
		sighting("B", "Goose", "Moor", 2020, 4),
		sighting("A", "Goose", "Coast", 2020, 5),
		sighting("A", "Goose", "Coast", 2020, 5),
	}

	dist := PlaceDistribution(table)
	if len(dist) != 2 {
		t.Fatalf("expected 2 places, got %d", len(dist))
	}
	if dist[0].Place != "Moor" || dist[0].Rings != 2 || dist[0].Sightings != 2 {
		t.Errorf("unexpected first bucket: %+v", dist[0])
	}
	if dist[1].Place != "Coast" || dist[1].Rings != 1 || dist[1].Sightings != 2 {
		t.Errorf("unexpected second bucket: %+v", dist[1])
	}
}

func TestMonthlyDistribution(t *testing.T) {
	table := model.Table{
		sighting("A", "Goose", "Moor", 2020, 3),
		sighting("B", "Goose", "Moor", 2020, 3),
		sighting("A", "Goose", "Moor", 2020, 10),
	}

	dist := MonthlyDistribution(table)
	if len(dist) != 12 {
		t.Fatalf("expected 12 months, got %d", len(dist))
	}
	if dist[2].Rings != 2 || dist[2].Sightings != 2 {
		t.Errorf("march: %+v", dist[2])
	}
	if dist[9].Rings != 1 {
		t.Errorf("october: %+v", dist[9])
	}
	if dist[0].Rings != 0 || dist[0].Sightings != 0 {
		t.Errorf("january should be empty: %+v", dist[0])
	}
}
