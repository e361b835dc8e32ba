package policy

import "canteen/internal/domain/dates"

// EditWindowDays is the trailing number of days a past date's rating stays
// editable.
const EditWindowDays = 5

// Call-site lock-ahead offsets. There is deliberately no shared default:
// each screen picks its own.
const (
	BookingLockAheadDays = 0
	ChefLockAheadDays    = 1
)

// Locked reports whether a date's attendance or menu entry may no longer be
// changed: true iff date < today + lockAheadDays.
// PRE: date and today are valid DateKeys
// POST: pure, no side effects
func Locked(date, today dates.DateKey, lockAheadDays int) bool {
	return date.Before(today.AddDays(lockAheadDays))
}

// RatingVisible reports whether the rating control is shown at all: only for
// days that are not in the future and are currently selected. Future dates
// never show ratings regardless of selection.
func RatingVisible(date, today dates.DateKey, selected bool) bool {
	return !date.After(today) && selected
}

// RatingEditable reports whether a shown rating may still be changed:
// date is not after today and within the trailing edit window. Independent
// of Locked; a day can be attendance-locked yet rating-editable.
func RatingEditable(date, today dates.DateKey, editWindowDays int) bool {
	return !date.After(today) && !date.Before(today.AddDays(-editWindowDays))
}
