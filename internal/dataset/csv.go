package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vogelring/vogelring/internal/csvsource"
	"github.com/vogelring/vogelring/internal/model"
)

// WriteCSV exports a snapshot as semicolon-separated CSV with a leading
// "included" column, the legacy dataset exchange format. Every row is
// written regardless of its inclusion flag so the export round-trips
// without changing row counts.
func WriteCSV(w io.Writer, snap Snapshot) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	header := append([]string{"included"}, model.Fields...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range snap.Rows {
		if row.Included {
			record[0] = "1"
		} else {
			record[0] = "0"
		}
		for i, field := range model.Fields {
			record[i+1], _ = row.Text(field)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV imports a legacy snapshot export. The inclusion flag is decoded
// with the strict textual rule: "1", "true", "True", and "TRUE" are
// included, everything else is not.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty snapshot file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) == 0 || header[0] != "included" {
		return nil, fmt.Errorf("not a snapshot export: first column must be 'included'")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}
		if len(record) == 0 {
			continue
		}

		s := csvsource.ParseRow(header[1:], record[1:])
		s.DeriveCalendar()
		rows = append(rows, Row{
			Sighting: s,
			Included: model.ParseIncludedFlag(record[0]),
		})
	}

	return rows, nil
}
