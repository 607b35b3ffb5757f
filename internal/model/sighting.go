package model

import (
	"strconv"
	"strings"
	"time"
)

// Fields is the ordered list of column names in the sightings table.
// Used for filter validation, column projection, and CSV import.
var Fields = []string{
	"id", "species", "ring", "reading", "place", "area",
	"date", "year", "month", "status", "sex", "age",
	"partner", "habitat", "field_fruit", "comment", "melder", "melded",
	"lat", "lon", "is_exact_location",
	"ringing_date", "ringing_ring_scheme", "ringing_species", "ringing_place",
	"ringing_ringer", "ringing_lat", "ringing_lon",
}

// Kind describes the native type of a column.
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindNumber
	KindBool
)

// fieldKinds maps every known column to its native type.
// Columns not listed here are strings.
var fieldKinds = map[string]Kind{
	"date":              KindDate,
	"ringing_date":      KindDate,
	"year":              KindNumber,
	"month":             KindNumber,
	"lat":               KindNumber,
	"lon":               KindNumber,
	"ringing_lat":       KindNumber,
	"ringing_lon":       KindNumber,
	"melded":            KindBool,
	"is_exact_location": KindBool,
}

// IsValidField reports whether name is a known sightings column.
func IsValidField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// KindOf returns the native type of a column. Unknown columns report
// ok=false so callers can treat them as absent.
func KindOf(name string) (Kind, bool) {
	if !IsValidField(name) {
		return KindString, false
	}
	if k, ok := fieldKinds[name]; ok {
		return k, true
	}
	return KindString, true
}

// Sighting is one observation record of a ringed bird. Nullable numeric,
// date, and boolean attributes use pointers so that missing values stay
// distinguishable from zero values.
type Sighting struct {
	ID      string `json:"id"`
	Species string `json:"species"`
	Ring    string `json:"ring"`
	Reading string `json:"reading"`
	Place   string `json:"place"`
	Area    string `json:"area"`

	Date  *time.Time `json:"date"`
	Year  *int       `json:"year"`
	Month *int       `json:"month"`

	Status     string `json:"status"`
	Sex        string `json:"sex"`
	Age        string `json:"age"`
	Partner    string `json:"partner"`
	Habitat    string `json:"habitat"`
	FieldFruit string `json:"field_fruit"`
	Comment    string `json:"comment"`
	Melder     string `json:"melder"`

	Melded          *bool    `json:"melded"`
	Lat             *float64 `json:"lat"`
	Lon             *float64 `json:"lon"`
	IsExactLocation *bool    `json:"is_exact_location"`

	RingingDate       *time.Time `json:"ringing_date"`
	RingingRingScheme string     `json:"ringing_ring_scheme"`
	RingingSpecies    string     `json:"ringing_species"`
	RingingPlace      string     `json:"ringing_place"`
	RingingRinger     string     `json:"ringing_ringer"`
	RingingLat        *float64   `json:"ringing_lat"`
	RingingLon        *float64   `json:"ringing_lon"`
}

// DeriveCalendar fills year and month from the parsed date when they were
// not supplied explicitly. Explicit values win when the date is missing
// or unparseable.
func (s *Sighting) DeriveCalendar() {
	if s.Date == nil {
		return
	}
	if s.Year == nil {
		y := s.Date.Year()
		s.Year = &y
	}
	if s.Month == nil {
		m := int(s.Date.Month())
		s.Month = &m
	}
}

// Text returns the string form of a column value. Missing typed values
// render as the empty string. ok is false for unknown columns.
func (s *Sighting) Text(field string) (string, bool) {
	switch field {
	case "id":
		return s.ID, true
	case "species":
		return s.Species, true
	case "ring":
		return s.Ring, true
	case "reading":
		return s.Reading, true
	case "place":
		return s.Place, true
	case "area":
		return s.Area, true
	case "date":
		return formatDate(s.Date), true
	case "year":
		return formatInt(s.Year), true
	case "month":
		return formatInt(s.Month), true
	case "status":
		return s.Status, true
	case "sex":
		return s.Sex, true
	case "age":
		return s.Age, true
	case "partner":
		return s.Partner, true
	case "habitat":
		return s.Habitat, true
	case "field_fruit":
		return s.FieldFruit, true
	case "comment":
		return s.Comment, true
	case "melder":
		return s.Melder, true
	case "melded":
		return formatBool(s.Melded), true
	case "lat":
		return formatFloat(s.Lat), true
	case "lon":
		return formatFloat(s.Lon), true
	case "is_exact_location":
		return formatBool(s.IsExactLocation), true
	case "ringing_date":
		return formatDate(s.RingingDate), true
	case "ringing_ring_scheme":
		return s.RingingRingScheme, true
	case "ringing_species":
		return s.RingingSpecies, true
	case "ringing_place":
		return s.RingingPlace, true
	case "ringing_ringer":
		return s.RingingRinger, true
	case "ringing_lat":
		return formatFloat(s.RingingLat), true
	case "ringing_lon":
		return formatFloat(s.RingingLon), true
	default:
		return "", false
	}
}

// DateOf returns the parsed date value of a date-typed column.
// ok is false when the column is not a date column or the value is missing.
func (s *Sighting) DateOf(field string) (time.Time, bool) {
	var v *time.Time
	switch field {
	case "date":
		v = s.Date
	case "ringing_date":
		v = s.RingingDate
	default:
		return time.Time{}, false
	}
	if v == nil {
		return time.Time{}, false
	}
	return *v, true
}

// NumberOf returns the numeric value of a column. Numeric columns report
// their stored value; string columns are parsed per row, and rows whose
// text does not parse report ok=false.
func (s *Sighting) NumberOf(field string) (float64, bool) {
	switch field {
	case "year":
		return floatOfInt(s.Year)
	case "month":
		return floatOfInt(s.Month)
	case "lat":
		return floatOf(s.Lat)
	case "lon":
		return floatOf(s.Lon)
	case "ringing_lat":
		return floatOf(s.RingingLat)
	case "ringing_lon":
		return floatOf(s.RingingLon)
	}
	text, ok := s.Text(field)
	if !ok || text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// YearValue returns the record's year, coerced from the date when needed.
func (s *Sighting) YearValue() (int, bool) {
	if s.Year != nil {
		return *s.Year, true
	}
	if s.Date != nil {
		return s.Date.Year(), true
	}
	return 0, false
}

// MonthValue returns the record's month, coerced from the date when needed.
func (s *Sighting) MonthValue() (int, bool) {
	if s.Month != nil {
		return *s.Month, true
	}
	if s.Date != nil {
		return int(s.Date.Month()), true
	}
	return 0, false
}

// NormalizedRing returns the trimmed ring identifier. Empty rings mean
// the sighting is not tied to an individual.
func (s *Sighting) NormalizedRing() string {
	return strings.TrimSpace(s.Ring)
}

func formatDate(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format("2006-01-02")
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "true"
	}
	return "false"
}

func floatOf(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func floatOfInt(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}
