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

// ErrRatingLocked is returned when the dish date is outside the edit window.
var ErrRatingLocked = errors.New("rating window closed for this date")

// RatingAPI defines the backend calls needed to submit or revise a rating.
type RatingAPI interface {
	SubmitRating(ctx context.Context, r rating.Rating) (api.RatingAggregate, error)
	UpdateRating(ctx context.Context, dateHasDishID int64, oldValue, newValue int) (api.RatingAggregate, error)
}

// RateDishInput identifies the dish occurrence, the date it was served,
// and the new rating value.
type RateDishInput struct {
	DateHasDishID int64
	Date          dates.DateKey
	Value         int
	Today         dates.DateKey
}

// RateDishDeps holds dependencies for RateDish.
type RateDishDeps struct {
	API   RatingAPI
	Cache storeRating.Store
}

// RateDishResult reports the backend aggregate after the submission and
// whether this was a first rating or a revision.
type RateDishResult struct {
	Aggregate api.RatingAggregate
	Revised   bool
}

// ExecuteRateDish submits a rating for a served dish. A first rating is
// created; if the local cache already holds a rating for the occurrence,
// the existing one is revised instead. The cache is only updated after
// the backend confirms.
// PRE: input.Value is within the rating scale
// POST: on success the cache holds input.Value for the occurrence
func ExecuteRateDish(ctx context.Context, input RateDishInput, deps RateDishDeps) (RateDishResult, error) {
	r := rating.Rating{DateHasDishID: input.DateHasDishID, Value: input.Value}
	if err := r.Validate(); err != nil {
		return RateDishResult{}, err
	}
	if !policy.RatingEditable(input.Date, input.Today, policy.EditWindowDays) {
		return RateDishResult{}, ErrRatingLocked
	}

	previous, exists, err := deps.Cache.Get(ctx, input.DateHasDishID)
	if err != nil {
		return RateDishResult{}, err
	}

	var aggregate api.RatingAggregate
	if exists {
		if previous == input.Value {
			slog.Debug("rating_unchanged", "date_has_dish_id", input.DateHasDishID)
			return RateDishResult{Revised: true}, nil
		}
		aggregate, err = deps.API.UpdateRating(ctx, input.DateHasDishID, previous, input.Value)
	} else {
		aggregate, err = deps.API.SubmitRating(ctx, r)
	}
	if err != nil {
		return RateDishResult{}, err
	}

	if err := deps.Cache.Put(ctx, input.DateHasDishID, input.Value); err != nil {
		return RateDishResult{}, err
	}

	slog.Info("dish_rated",
		"date_has_dish_id", input.DateHasDishID,
		"value", input.Value,
		"revised", exists,
	)
	return RateDishResult{Aggregate: aggregate, Revised: exists}, nil
}
