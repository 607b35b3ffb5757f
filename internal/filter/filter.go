// Package filter implements typed predicates over an in-memory sightings
// table. A predicate is a tagged union (kind + payload) with one
// evaluation path per kind. Data-quality problems degrade silently:
// unknown columns make a predicate a no-op and rows whose values cannot
// be parsed simply do not match.
package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vogelring/vogelring/internal/model"
)

type predicateKind int

const (
	predNone predicateKind = iota
	predEquals
	predMultiIn
	predContains
	predDateRange
	predNumberRange
)

var kindNames = map[predicateKind]string{
	predNone:        "none",
	predEquals:      "equals",
	predMultiIn:     "multi",
	predContains:    "contains",
	predDateRange:   "date_range",
	predNumberRange: "number_range",
}

var kindsByName = map[string]predicateKind{
	"equals":       predEquals,
	"multi":        predMultiIn,
	"contains":     predContains,
	"date_range":   predDateRange,
	"number_range": predNumberRange,
}

// Predicate is a single filter condition against one column.
// Bounds and comparison values are kept as strings; typed parsing happens
// at evaluation time so that a bad value never poisons a saved document.
type Predicate struct {
	kind   predicateKind
	column string
	value  string
	values []string
	start  string
	end    string
	min    string
	max    string
}

// Equals matches rows whose column value equals the given value under the
// column's native typing.
func Equals(column, value string) *Predicate {
	return &Predicate{kind: predEquals, column: column, value: value}
}

// MultiIn matches rows whose column value is one of the given values.
// An empty value set matches nothing.
func MultiIn(column string, values []string) *Predicate {
	return &Predicate{kind: predMultiIn, column: column, values: values}
}

// Contains matches rows whose column value contains the given substring,
// case-insensitively. An empty search value matches everything.
func Contains(column, value string) *Predicate {
	return &Predicate{kind: predContains, column: column, value: value}
}

// DateRange matches rows whose column value falls between start and end,
// inclusive. Either bound may be empty to leave that side unconstrained.
func DateRange(column, start, end string) *Predicate {
	return &Predicate{kind: predDateRange, column: column, start: start, end: end}
}

// NumberRange matches rows whose numeric column value falls between min
// and max, inclusive. Either bound may be empty.
func NumberRange(column, min, max string) *Predicate {
	return &Predicate{kind: predNumberRange, column: column, min: min, max: max}
}

// Column returns the column the predicate targets.
func (p *Predicate) Column() string { return p.column }

// String renders the predicate for display.
func (p *Predicate) String() string {
	switch p.kind {
	case predEquals:
		return fmt.Sprintf("%s = %q", p.column, p.value)
	case predMultiIn:
		return fmt.Sprintf("%s in [%s]", p.column, strings.Join(p.values, ", "))
	case predContains:
		return fmt.Sprintf("%s contains %q", p.column, p.value)
	case predDateRange:
		return fmt.Sprintf("%s between %s and %s", p.column, orAny(p.start), orAny(p.end))
	case predNumberRange:
		return fmt.Sprintf("%s between %s and %s", p.column, orAny(p.min), orAny(p.max))
	default:
		return "(no-op)"
	}
}

func orAny(bound string) string {
	if bound == "" {
		return "*"
	}
	return bound
}

// Evaluate applies one predicate to a table and returns the matching
// subset. Row order and identity are preserved. A nil predicate, a
// predicate of unknown kind, or a predicate referencing an unknown column
// returns the table unchanged.
func Evaluate(p *Predicate, t model.Table) model.Table {
	if p == nil || p.kind == predNone || !model.IsValidField(p.column) {
		return t
	}

	switch p.kind {
	case predEquals:
		return filterRows(t, p.equalsMatch())
	case predMultiIn:
		if len(p.values) == 0 {
			return model.Table{}
		}
		return filterRows(t, p.multiInMatch)
	case predContains:
		if p.value == "" {
			return t
		}
		return filterRows(t, p.containsMatch)
	case predDateRange:
		return p.evaluateDateRange(t)
	case predNumberRange:
		return p.evaluateNumberRange(t)
	default:
		return t
	}
}

func filterRows(t model.Table, match func(*model.Sighting) bool) model.Table {
	out := make(model.Table, 0, len(t))
	for _, s := range t {
		if match(s) {
			out = append(out, s)
		}
	}
	return out
}

// equalsMatch builds the row matcher for strict equality under the
// column's native type. An unparseable comparison value matches no rows.
func (p *Predicate) equalsMatch() func(*model.Sighting) bool {
	kind, _ := model.KindOf(p.column)

	switch kind {
	case model.KindDate:
		want, ok := model.ParseDate(p.value)
		if !ok {
			return matchNothing
		}
		return func(s *model.Sighting) bool {
			d, ok := s.DateOf(p.column)
			return ok && sameDay(d, want)
		}
	case model.KindNumber:
		want, err := strconv.ParseFloat(strings.TrimSpace(p.value), 64)
		if err != nil {
			return matchNothing
		}
		return func(s *model.Sighting) bool {
			v, ok := s.NumberOf(p.column)
			return ok && v == want
		}
	case model.KindBool:
		want := model.ParseBool(p.value)
		if want == nil {
			return matchNothing
		}
		return func(s *model.Sighting) bool {
			text, _ := s.Text(p.column)
			got := model.ParseBool(text)
			return got != nil && *got == *want
		}
	default:
		return func(s *model.Sighting) bool {
			text, _ := s.Text(p.column)
			return text == p.value
		}
	}
}

func matchNothing(*model.Sighting) bool { return false }

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func (p *Predicate) multiInMatch(s *model.Sighting) bool {
	text, _ := s.Text(p.column)
	for _, v := range p.values {
		if text == v {
			return true
		}
	}
	return false
}

func (p *Predicate) containsMatch(s *model.Sighting) bool {
	text, _ := s.Text(p.column)
	return strings.Contains(strings.ToLower(text), strings.ToLower(p.value))
}

// evaluateDateRange filters rows by an inclusive date window. Unparseable
// bounds are ignored; when no usable bound remains the predicate is a
// no-op. Rows whose value cannot be parsed as a date do not match.
func (p *Predicate) evaluateDateRange(t model.Table) model.Table {
	start, hasStart := model.ParseDate(p.start)
	end, hasEnd := model.ParseDate(p.end)
	if !hasStart && !hasEnd {
		return t
	}

	return filterRows(t, func(s *model.Sighting) bool {
		d, ok := rowDate(s, p.column)
		if !ok {
			return false
		}
		if hasStart && d.Before(start) {
			return false
		}
		if hasEnd && d.After(end.Add(24*time.Hour-time.Nanosecond)) {
			return false
		}
		return true
	})
}

func rowDate(s *model.Sighting, column string) (time.Time, bool) {
	if d, ok := s.DateOf(column); ok {
		return d, true
	}
	text, ok := s.Text(column)
	if !ok {
		return time.Time{}, false
	}
	return model.ParseDate(text)
}

// evaluateNumberRange filters rows by an inclusive numeric window, with
// the same bound-degradation rules as evaluateDateRange.
func (p *Predicate) evaluateNumberRange(t model.Table) model.Table {
	min, hasMin := parseBound(p.min)
	max, hasMax := parseBound(p.max)
	if !hasMin && !hasMax {
		return t
	}

	return filterRows(t, func(s *model.Sighting) bool {
		v, ok := s.NumberOf(p.column)
		if !ok {
			return false
		}
		if hasMin && v < min {
			return false
		}
		if hasMax && v > max {
			return false
		}
		return true
	})
}

func parseBound(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Set is an ordered list of predicates applied conjunctively.
type Set []*Predicate

// Apply folds the predicates over the table left to right, each step
// narrowing the previous result. Applying the same set to its own output
// yields the same output.
func (fs Set) Apply(t model.Table) model.Table {
	for _, p := range fs {
		t = Evaluate(p, t)
	}
	return t
}

// predicateDoc is the JSON document form of a predicate, matching the
// saved filter configuration layout.
type predicateDoc struct {
	Type   string   `json:"type"`
	Column string   `json:"column"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
	Start  string   `json:"start,omitempty"`
	End    string   `json:"end,omitempty"`
	Min    string   `json:"min,omitempty"`
	Max    string   `json:"max,omitempty"`
}

// MarshalJSON encodes the predicate in document form.
func (p *Predicate) MarshalJSON() ([]byte, error) {
	return json.Marshal(predicateDoc{
		Type:   kindNames[p.kind],
		Column: p.column,
		Value:  p.value,
		Values: p.values,
		Start:  p.start,
		End:    p.end,
		Min:    p.min,
		Max:    p.max,
	})
}

// UnmarshalJSON decodes the document form. An unrecognized type degrades
// to a no-op predicate so that old documents keep loading.
func (p *Predicate) UnmarshalJSON(data []byte) error {
	var doc predicateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.kind = kindsByName[doc.Type]
	p.column = doc.Column
	p.value = doc.Value
	p.values = doc.Values
	p.start = doc.Start
	p.end = doc.End
	p.min = doc.Min
	p.max = doc.Max
	return nil
}
