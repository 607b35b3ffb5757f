package filter

import "errors"

// ErrIncompleteFilter is returned when a builder is finalized before both
// a column and a condition have been chosen.
var ErrIncompleteFilter = errors.New("filter builder: column and condition required")

// Builder is the staging state for constructing a predicate step by step.
// It is a plain value: every step returns a new Builder, so callers pass
// it through their own flow without shared mutable state.
type Builder struct {
	kind   predicateKind
	column string
	value  string
	values []string
	start  string
	end    string
	min    string
	max    string
}

// NewBuilder returns an empty builder.
func NewBuilder() Builder {
	return Builder{}
}

// Column selects the column the predicate will target.
func (b Builder) Column(name string) Builder {
	b.column = name
	return b
}

// Equals stages a strict-equality condition.
func (b Builder) Equals(value string) Builder {
	b.kind = predEquals
	b.value = value
	return b
}

// OneOf stages a multi-value membership condition.
func (b Builder) OneOf(values ...string) Builder {
	b.kind = predMultiIn
	b.values = values
	return b
}

// Contains stages a case-insensitive substring condition.
func (b Builder) Contains(value string) Builder {
	b.kind = predContains
	b.value = value
	return b
}

// Between stages an inclusive date window. Empty bounds are open.
func (b Builder) Between(start, end string) Builder {
	b.kind = predDateRange
	b.start = start
	b.end = end
	return b
}

// InRange stages an inclusive numeric window. Empty bounds are open.
func (b Builder) InRange(min, max string) Builder {
	b.kind = predNumberRange
	b.min = min
	b.max = max
	return b
}

// Build finalizes the staged predicate.
func (b Builder) Build() (*Predicate, error) {
	if b.column == "" || b.kind == predNone {
		return nil, ErrIncompleteFilter
	}
	return &Predicate{
		kind:   b.kind,
		column: b.column,
		value:  b.value,
		values: b.values,
		start:  b.start,
		end:    b.end,
		min:    b.min,
		max:    b.max,
	}, nil
}
