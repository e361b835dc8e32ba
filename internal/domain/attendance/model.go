package attendance

import (
	"sort"

	"canteen/internal/domain/dates"
)

// Set is an unordered set of attendance days. Only valid Monday-Friday
// DateKeys are ever admitted; weekend and malformed keys are rejected at
// insertion so the weekday invariant cannot be violated after the fact.
type Set map[dates.DateKey]struct{}

// NewSet builds a Set from the given days, skipping any that are not
// weekdays.
func NewSet(days ...dates.DateKey) Set {
	s := make(Set, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

// Add inserts d into the set.
// PRE: none
// POST: returns true if d was admitted (valid weekday), false otherwise
func (s Set) Add(d dates.DateKey) bool {
	if !d.Valid() || !d.IsWeekday() {
		return false
	}
	s[d] = struct{}{}
	return true
}

// Remove deletes d from the set if present.
func (s Set) Remove(d dates.DateKey) {
	delete(s, d)
}

// Toggle flips membership of d.
// PRE: none
// POST: returns true if d is in the set afterwards
func (s Set) Toggle(d dates.DateKey) bool {
	if s.Has(d) {
		s.Remove(d)
		return false
	}
	return s.Add(d)
}

// Has reports whether d is in the set.
func (s Set) Has(d dates.DateKey) bool {
	_, ok := s[d]
	return ok
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

// Days returns the members sorted ascending.
func (s Set) Days() []dates.DateKey {
	days := make([]dates.DateKey, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Equal reports whether both sets hold exactly the same days.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for d := range s {
		if !other.Has(d) {
			return false
		}
	}
	return true
}
