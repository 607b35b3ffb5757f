package model

import (
	"sort"
	"strings"
	"time"
)

// Table is an ordered collection of sightings. Transforms return new
// tables; the source table loaded at startup is never mutated.
type Table []*Sighting

// Len returns the number of rows.
func (t Table) Len() int { return len(t) }

// UniqueNonEmpty returns the sorted distinct non-empty values of a column.
// Unknown columns yield an empty slice.
func (t Table) UniqueNonEmpty(column string) []string {
	if !IsValidField(column) {
		return nil
	}
	seen := make(map[string]bool)
	var values []string
	for _, s := range t {
		text, _ := s.Text(column)
		text = strings.TrimSpace(text)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		values = append(values, text)
	}
	sort.Strings(values)
	return values
}

// Years returns the sorted distinct years present in the table. Records
// without a usable year are skipped.
func (t Table) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, s := range t {
		y, ok := s.YearValue()
		if !ok || seen[y] {
			continue
		}
		seen[y] = true
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// dateLayouts are the accepted date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
}

// ParseDate parses a date string in any accepted layout.
// ok is false for empty or unparseable input.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, text); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseBool interprets the tolerant boolean vocabulary found in the source
// data. Unknown text yields nil (missing), never an error.
func ParseBool(text string) *bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "wahr", "1", "ja", "yes":
		v := true
		return &v
	case "false", "falsch", "0", "nein", "no":
		v := false
		return &v
	}
	return nil
}

// ParseIncludedFlag decodes a textual row-inclusion flag. Exactly
// "1", "true", "True", and "TRUE" are true; every other value, including
// the empty string, is false.
func ParseIncludedFlag(text string) bool {
	switch text {
	case "1", "true", "True", "TRUE":
		return true
	}
	return false
}
