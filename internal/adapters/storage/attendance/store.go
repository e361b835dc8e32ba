package attendance

import (
	"context"

	"canteen/internal/domain/dates"
)

// Store persists the last successfully saved attendance days. It is the
// durable mirror of the in-memory persisted set: read once at startup,
// rewritten whole after every save.
type Store interface {
	Load(ctx context.Context) ([]dates.DateKey, error)
	Replace(ctx context.Context, days []dates.DateKey) error
}
