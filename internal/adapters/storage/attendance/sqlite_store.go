package attendance

import (
	"context"

	"canteen/internal/adapters/storage"
	"canteen/internal/domain/dates"
)

// SQLiteStore implements Store on the saved_day table.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load retrieves all saved days, sorted ascending.
// PRE: schema initialized
// POST: returns the persisted set, empty slice if none
func (s *SQLiteStore) Load(ctx context.Context) ([]dates.DateKey, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT date FROM saved_day ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []dates.DateKey
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		day, err := dates.Parse(raw)
		if err != nil {
			// A corrupt row must not break startup; skip it.
			continue
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// Replace overwrites the saved set with exactly the given days.
// PRE: days carries only valid weekday DateKeys
// POST: the table holds days and nothing else
func (s *SQLiteStore) Replace(ctx context.Context, days []dates.DateKey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM saved_day"); err != nil {
		return err
	}
	for _, d := range days {
		if _, err := tx.ExecContext(ctx, "INSERT INTO saved_day (date) VALUES (?)", d.String()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
