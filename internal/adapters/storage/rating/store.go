package rating

import "context"

// Store caches the current user's own rating per dish-on-date. The backend
// owns the aggregate; this cache only decides between first-time (POST) and
// re-rating (PUT) submissions and remembers the old value.
type Store interface {
	Get(ctx context.Context, dateHasDishID int64) (value int, ok bool, err error)
	Put(ctx context.Context, dateHasDishID int64, value int) error
	Delete(ctx context.Context, dateHasDishID int64) error
}
