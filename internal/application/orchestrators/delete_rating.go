package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"canteen/internal/adapters/api"
	storeRating "canteen/internal/adapters/storage/rating"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/policy"
	"canteen/internal/domain/rating"
)

// ErrNoOwnRating is returned when there is no locally known rating to retract.
var ErrNoOwnRating = errors.New("no own rating recorded for this dish")

// RatingDeleteAPI defines the backend call needed to retract a rating.
type RatingDeleteAPI interface {
	DeleteRating(ctx context.Context, r rating.Rating) (api.RatingAggregate, error)
}

// DeleteRatingInput identifies the dish occurrence to retract the rating from.
type DeleteRatingInput struct {
	DateHasDishID int64
	Date          dates.DateKey
	Today         dates.DateKey
}

// DeleteRatingDeps holds dependencies for DeleteRating.
type DeleteRatingDeps struct {
	API   RatingDeleteAPI
	Cache storeRating.Store
}

// DeleteRatingResult reports the backend aggregate after the retraction.
type DeleteRatingResult struct {
	Aggregate api.RatingAggregate
	Removed   int
}

// ExecuteDeleteRating retracts a previously submitted rating. The call
// requires the old value, which is read from the local cache; without a
// cached value the retraction is refused.
// POST: on success the cache no longer holds a rating for the occurrence
func ExecuteDeleteRating(ctx context.Context, input DeleteRatingInput, deps DeleteRatingDeps) (DeleteRatingResult, error) {
	if !policy.RatingEditable(input.Date, input.Today, policy.EditWindowDays) {
		return DeleteRatingResult{}, ErrRatingLocked
	}

	value, exists, err := deps.Cache.Get(ctx, input.DateHasDishID)
	if err != nil {
		return DeleteRatingResult{}, err
	}
	if !exists {
		return DeleteRatingResult{}, ErrNoOwnRating
	}

	aggregate, err := deps.API.DeleteRating(ctx, rating.Rating{DateHasDishID: input.DateHasDishID, Value: value})
	if err != nil {
		return DeleteRatingResult{}, err
	}

	if err := deps.Cache.Delete(ctx, input.DateHasDishID); err != nil {
		return DeleteRatingResult{}, err
	}

	slog.Info("rating_deleted", "date_has_dish_id", input.DateHasDishID, "value", value)
	return DeleteRatingResult{Aggregate: aggregate, Removed: value}, nil
}
