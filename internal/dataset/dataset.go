// Package dataset implements named, filtered snapshots of the sightings
// table with per-row inclusion overrides. Exclusion only flags rows, it
// never removes them: a materialized snapshot always has exactly the rows
// the dataset's filters select.
package dataset

import (
	"time"

	"github.com/vogelring/vogelring/internal/filter"
	"github.com/vogelring/vogelring/internal/model"
	"github.com/vogelring/vogelring/internal/ringset"
)

// DefaultIDField is the record-identifier column used when a dataset
// does not name one.
const DefaultIDField = "id"

// Dataset is a named snapshot configuration. ExcludedIDs may reference
// ids no longer reachable by the current filters; stale entries are
// tolerated and never pruned implicitly.
type Dataset struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Columns     []string    `json:"columns"`
	Filters     filter.Set  `json:"filters"`
	ExcludedIDs ringset.Set `json:"excluded_ids"`
	IDField     string      `json:"id_field"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (d *Dataset) idField() string {
	if d.IDField == "" {
		return DefaultIDField
	}
	return d.IDField
}

// CanToggle reports whether inclusion toggling is available. It is not
// when the id field is unknown to the schema; materialization then marks
// every row included.
func (d *Dataset) CanToggle() bool {
	return model.IsValidField(d.idField())
}

func (d *Dataset) excluded() ringset.Set {
	if d.ExcludedIDs == nil {
		d.ExcludedIDs = ringset.New()
	}
	return d.ExcludedIDs
}

// Toggle flips the inclusion of a single record id.
func (d *Dataset) Toggle(id string) {
	set := d.excluded()
	if !set.Remove(id) {
		set.Add(id)
	}
}

// SelectAll clears all exclusions.
func (d *Dataset) SelectAll() {
	d.ExcludedIDs = ringset.New()
}

// SelectNone excludes every id currently selected by the filters. The
// caller supplies the ids of the currently filtered rows.
func (d *Dataset) SelectNone(currentIDs []string) {
	d.ExcludedIDs = ringset.New(currentIDs...)
}

// Prune drops excluded ids that are no longer reachable by the current
// filters and returns how many were removed. It runs only when explicitly
// invoked; Save never prunes.
func (d *Dataset) Prune(currentIDs []string) int {
	current := ringset.New(currentIDs...)
	kept := d.excluded().Intersect(current)
	removed := d.excluded().Len() - kept.Len()
	d.ExcludedIDs = kept
	return removed
}

// Duplicate returns a copy of the dataset under a new name, with fresh
// (zero) timestamps. Saving the copy is a separate explicit step.
func (d *Dataset) Duplicate(newName string, newDescription *string) *Dataset {
	copied := &Dataset{
		Name:        newName,
		Description: d.Description,
		Columns:     append([]string(nil), d.Columns...),
		Filters:     append(filter.Set(nil), d.Filters...),
		ExcludedIDs: d.excluded().Clone(),
		IDField:     d.IDField,
	}
	if newDescription != nil {
		copied.Description = *newDescription
	}
	return copied
}

// Row is one materialized record with its inclusion flag.
type Row struct {
	*model.Sighting
	Included bool
}

// Snapshot is a materialized dataset: the filtered rows annotated with
// inclusion, plus the validated column projection.
type Snapshot struct {
	Columns []string
	Rows    []Row
}

// Materialize applies the dataset's filters to the source table and
// annotates every resulting row with its inclusion flag. When the id
// field is unknown all rows report included=true.
func Materialize(d *Dataset, source model.Table) Snapshot {
	filtered := d.Filters.Apply(source)
	canToggle := d.CanToggle()
	idField := d.idField()

	rows := make([]Row, len(filtered))
	for i, s := range filtered {
		included := true
		if canToggle {
			id, _ := s.Text(idField)
			included = !d.excluded().Contains(id)
		}
		rows[i] = Row{Sighting: s, Included: included}
	}

	columns := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		if model.IsValidField(c) {
			columns = append(columns, c)
		}
	}

	return Snapshot{Columns: columns, Rows: rows}
}

// IncludedOnly returns the included rows as a plain table, in order.
func (snap Snapshot) IncludedOnly() model.Table {
	out := make(model.Table, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		if r.Included {
			out = append(out, r.Sighting)
		}
	}
	return out
}

// RowIDs returns the id-field values of all snapshot rows, in order.
// Used to feed SelectNone and Prune.
func (snap Snapshot) RowIDs(idField string) []string {
	if idField == "" {
		idField = DefaultIDField
	}
	out := make([]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		if id, ok := r.Text(idField); ok {
			out = append(out, id)
		}
	}
	return out
}
