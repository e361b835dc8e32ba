package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"canteen/internal/domain/dates"
	"canteen/internal/domain/policy"
)

// ErrNoTargets is returned when there are no dish-on-date IDs to remove.
var ErrNoTargets = errors.New("no dish-on-date ids to remove")

// DishRemovalAPI defines the backend call that detaches dishes from dates.
type DishRemovalAPI interface {
	DeleteDishFromDate(ctx context.Context, ids []int64) error
}

// DeleteDishFromDateInput identifies the pairings to remove. Date is the day
// all the pairings belong to; the lock check runs against it.
type DeleteDishFromDateInput struct {
	DateHasDishIDs []int64
	Date           dates.DateKey
	Today          dates.DateKey
}

// DeleteDishFromDateDeps holds dependencies for DeleteDishFromDate.
type DeleteDishFromDateDeps struct {
	API DishRemovalAPI
}

// ExecuteDeleteDishFromDate removes dish-on-date pairings from an editable
// day's menu.
// PRE: all IDs belong to input.Date
// POST: the backend no longer serves the pairings, or no call was made
func ExecuteDeleteDishFromDate(ctx context.Context, input DeleteDishFromDateInput, deps DeleteDishFromDateDeps) error {
	if len(input.DateHasDishIDs) == 0 {
		return ErrNoTargets
	}
	if policy.Locked(input.Date, input.Today, policy.ChefLockAheadDays) {
		return fmt.Errorf("%w: %s", ErrDateLocked, input.Date)
	}

	if err := deps.API.DeleteDishFromDate(ctx, input.DateHasDishIDs); err != nil {
		return err
	}
	slog.Info("dishes_removed", "date", input.Date, "count", len(input.DateHasDishIDs))
	return nil
}
