package rating

import (
	"context"
	"database/sql"
	"errors"

	"canteen/internal/adapters/storage"
)

// SQLiteStore implements Store on the rating_cache table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new rating cache Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the cached own-rating for a dish-on-date.
// PRE: dateHasDishID > 0
// POST: ok is false when no rating is cached
func (s *SQLiteStore) Get(ctx context.Context, dateHasDishID int64) (int, bool, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT rating FROM rating_cache WHERE date_has_dish_id = ?", dateHasDishID)

	var value int
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// Put upserts the cached rating.
// PRE: value is 1..5 (validated by the caller)
// POST: the cache holds value for this dish-on-date
func (s *SQLiteStore) Put(ctx context.Context, dateHasDishID int64, value int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO rating_cache (date_has_dish_id, rating) VALUES (?, ?) ON CONFLICT(date_has_dish_id) DO UPDATE SET rating=excluded.rating",
		dateHasDishID, value)
	return err
}

// Delete clears the cached rating if present.
func (s *SQLiteStore) Delete(ctx context.Context, dateHasDishID int64) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM rating_cache WHERE date_has_dish_id = ?", dateHasDishID)
	return err
}
