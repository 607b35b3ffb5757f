// Package view implements named filter+column templates. A view carries
// no inclusion state; resolving one is a pure projection over the source
// table.
package view

import (
	"github.com/vogelring/vogelring/internal/filter"
	"github.com/vogelring/vogelring/internal/model"
)

// View is a reusable {columns, filters} template. Columns are a
// display-only projection in the given order.
type View struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Columns     []string   `json:"columns"`
	Filters     filter.Set `json:"filters"`
}

// Resolution is the result of applying a view to a source table.
type Resolution struct {
	Columns []string
	Rows    model.Table
}

// Resolve applies the view's filters to the source and projects to the
// view's columns. Columns not present in the source are dropped silently.
func Resolve(v *View, source model.Table) Resolution {
	rows := v.Filters.Apply(source)

	columns := make([]string, 0, len(v.Columns))
	for _, c := range v.Columns {
		if model.IsValidField(c) {
			columns = append(columns, c)
		}
	}

	return Resolution{Columns: columns, Rows: rows}
}
