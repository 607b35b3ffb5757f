// Package ringset provides a set type for ring identifiers. Identifiers
// are normalized exactly once on insert: surrounding whitespace is
// trimmed and empty identifiers are dropped, so set arithmetic downstream
// never has to re-normalize.
package ringset

import (
	"encoding/json"
	"sort"
	"strings"
)

// Set is a collection of distinct, normalized identifiers.
type Set map[string]struct{}

// New builds a set from the given identifiers.
func New(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an identifier after normalization. Empty identifiers are
// ignored. Reports whether the set changed.
func (s Set) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes an identifier. Reports whether it was present.
func (s Set) Remove(id string) bool {
	id = strings.TrimSpace(id)
	if _, ok := s[id]; !ok {
		return false
	}
	delete(s, id)
	return true
}

// Contains reports whether the identifier is in the set.
func (s Set) Contains(id string) bool {
	_, ok := s[strings.TrimSpace(id)]
	return ok
}

// Len returns the number of identifiers.
func (s Set) Len() int { return len(s) }

// Union returns a new set with the identifiers of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Difference returns a new set with the identifiers of s not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Intersect returns a new set with the identifiers present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for id := range s {
		if _, ok := other[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same identifiers.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// Values returns the identifiers in sorted order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array, normalizing each identifier.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = New(ids...)
	return nil
}
