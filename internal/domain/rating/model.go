package rating

import "errors"

// Rating value bounds.
const (
	MinValue = 1
	MaxValue = 5
)

// Domain errors
var (
	ErrMissingTarget = errors.New("rating must reference a dish-on-date")
	ErrOutOfRange    = errors.New("rating value must be between 1 and 5")
)

// Rating is the current user's own rating of one dish-on-date. At most one
// exists per DateHasDishID; the backend owns the aggregate average and count.
type Rating struct {
	DateHasDishID int64
	Value         int
}

// Validate checks if the Rating has valid data.
// PRE: Rating struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Rating) Validate() error {
	if r.DateHasDishID <= 0 {
		return ErrMissingTarget
	}
	if r.Value < MinValue || r.Value > MaxValue {
		return ErrOutOfRange
	}
	return nil
}
