package pipeline

import (
	"encoding/json"
	"sort"
)

// BlankLabel names the empty category in flags, query strings and display.
const BlankLabel = "(blank)"

// StringSet is an unordered set of category values. A nil or empty set
// matches nothing.
type StringSet map[string]struct{}

// NewStringSet builds a set from values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Add inserts v.
func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

// Remove deletes v.
func (s StringSet) Remove(v string) {
	delete(s, v)
}

// Toggle flips membership of v and reports whether v is now present.
func (s StringSet) Toggle(v string) bool {
	if s.Has(v) {
		delete(s, v)
		return false
	}
	s[v] = struct{}{}
	return true
}

// Len returns the number of values.
func (s StringSet) Len() int {
	return len(s)
}

// Sorted returns the values in ascending order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy. Cloning nil yields an empty, non-nil set.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// ParseSetValues builds a set from user-supplied values. Empty strings are
// ignored, so a lone empty value selects nothing; BlankLabel selects the
// empty category.
func ParseSetValues(values []string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		switch v {
		case "":
			continue
		case BlankLabel:
			s[""] = struct{}{}
		default:
			s[v] = struct{}{}
		}
	}
	return s
}
