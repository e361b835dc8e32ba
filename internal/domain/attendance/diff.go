package attendance

import "canteen/internal/domain/dates"

// Changes is the reconciliation between a pending and a persisted set.
// ToAdd and ToRemove are disjoint and sorted ascending so wire payloads are
// deterministic.
type Changes struct {
	ToAdd    []dates.DateKey
	ToRemove []dates.DateKey
}

// Empty reports whether there is nothing to submit. An empty diff is a
// no-op for the caller: no network calls, no saved signal.
func (c Changes) Empty() bool {
	return len(c.ToAdd) == 0 && len(c.ToRemove) == 0
}

// Diff reconciles locally selected days against the last known-saved days.
// PRE: both sets satisfy the weekday invariant
// POST: ToAdd = pending \ persisted, ToRemove = persisted \ pending;
// persisted + ToAdd - ToRemove == pending
func Diff(pending, persisted Set) Changes {
	var c Changes
	for _, d := range pending.Days() {
		if !persisted.Has(d) {
			c.ToAdd = append(c.ToAdd, d)
		}
	}
	for _, d := range persisted.Days() {
		if !pending.Has(d) {
			c.ToRemove = append(c.ToRemove, d)
		}
	}
	return c
}
