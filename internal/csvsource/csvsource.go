// Package csvsource loads the sightings table from a semicolon-separated
// CSV export. Every value is read as text first and converted per column;
// malformed values become missing, never errors.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vogelring/vogelring/internal/model"
)

// Values treated as missing during import.
var missingValues = map[string]bool{
	"": true, "NA": true, "NaN": true,
}

// ReadResult contains the outcome of a sightings import.
type ReadResult struct {
	Table    model.Table
	Count    int
	Excluded int
}

// Load reads a sightings CSV file from disk.
func Load(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sightings file: %w", err)
	}
	defer f.Close()

	result, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return result, nil
}

// Read parses sightings from a semicolon-separated CSV stream. The first
// row is the header; unknown columns are ignored. Rows with no values at
// all are counted as excluded.
func Read(r io.Reader) (*ReadResult, error) {
	reader := csv.NewReader(newNullStripper(r))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable field counts

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty sightings file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	result := &ReadResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", result.Count+result.Excluded+1, err)
		}

		if isBlank(record) {
			result.Excluded++
			continue
		}

		s := ParseRow(header, record)
		s.DeriveCalendar()
		result.Table = append(result.Table, s)
		result.Count++
	}

	return result, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseRow converts one CSV record into a sighting, matching values to
// columns by header name. Ring identifiers are normalized here, exactly
// once, so downstream set arithmetic never re-trims.
func ParseRow(header, record []string) *model.Sighting {
	s := &model.Sighting{}
	for i, name := range header {
		if i >= len(record) {
			break
		}
		setField(s, name, record[i])
	}
	return s
}

func setField(s *model.Sighting, name, raw string) {
	value := strings.TrimSpace(raw)
	if missingValues[value] {
		return
	}

	switch name {
	case "id":
		s.ID = value
	case "species":
		s.Species = value
	case "ring":
		s.Ring = value
	case "reading":
		s.Reading = value
	case "place":
		s.Place = value
	case "area":
		s.Area = value
	case "date":
		if d, ok := model.ParseDate(value); ok {
			s.Date = &d
		}
	case "year":
		s.Year = parseIntValue(value)
	case "month":
		s.Month = parseIntValue(value)
	case "status":
		s.Status = value
	case "sex":
		s.Sex = value
	case "age":
		s.Age = value
	case "partner":
		s.Partner = value
	case "habitat":
		s.Habitat = value
	case "field_fruit":
		s.FieldFruit = value
	case "comment":
		s.Comment = value
	case "melder":
		s.Melder = value
	case "melded":
		s.Melded = model.ParseBool(value)
	case "lat":
		s.Lat = parseFloatValue(value)
	case "lon":
		s.Lon = parseFloatValue(value)
	case "is_exact_location":
		s.IsExactLocation = model.ParseBool(value)
	case "ringing_date":
		if d, ok := model.ParseDate(value); ok {
			s.RingingDate = &d
		}
	case "ringing_ring_scheme":
		s.RingingRingScheme = value
	case "ringing_species":
		s.RingingSpecies = value
	case "ringing_place":
		s.RingingPlace = value
	case "ringing_ringer":
		s.RingingRinger = value
	case "ringing_lat":
		s.RingingLat = parseFloatValue(value)
	case "ringing_lon":
		s.RingingLon = parseFloatValue(value)
	}
}

// parseIntValue accepts plain integers and float renderings like "2020.0"
// that spreadsheet exports produce.
func parseIntValue(value string) *int {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	v := int(f)
	return &v
}

func parseFloatValue(value string) *float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

// nullStripper wraps a reader and strips null bytes from the stream
// before they reach the CSV parser.
type nullStripper struct {
	r io.Reader
}

func newNullStripper(r io.Reader) io.Reader {
	return &nullStripper{r: r}
}

func (ns *nullStripper) Read(p []byte) (int, error) {
	n, err := ns.r.Read(p)
	if n > 0 {
		cleaned := strings.ReplaceAll(string(p[:n]), "\x00", "")
		copy(p, cleaned)
		n = len(cleaned)
	}
	return n, err
}
