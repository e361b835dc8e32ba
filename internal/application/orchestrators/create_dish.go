package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/policy"
)

// Chef menu errors.
var (
	ErrNoTargetDates = errors.New("at least one target date is required")
	ErrDateLocked    = errors.New("date is locked for menu changes")
	ErrWeekendDate   = errors.New("menu changes are limited to weekdays")
)

var validate = validator.New()

// ChefAPI defines the backend calls behind the menu editor.
type ChefAPI interface {
	CreateDish(ctx context.Context, d dish.Dish, days []dates.DateKey) error
	AttachDish(ctx context.Context, existingDishID int64, days []dates.DateKey) error
}

// CreateDishInput describes a brand-new dish to add to one or more days.
// When ExistingDishID is set the descriptive fields are ignored and the
// existing dish is attached instead.
type CreateDishInput struct {
	ExistingDishID int64
	Name           string `validate:"required,max=200"`
	Description    string `validate:"max=2000"`
	Category       string `validate:"required"`
	Calories       int    `validate:"min=0"`
	LightHealthy   bool
	SugarFree      bool
	Dates          []dates.DateKey
	Today          dates.DateKey
}

// CreateDishDeps holds dependencies for CreateDish.
type CreateDishDeps struct {
	API ChefAPI
}

// CreateDishResult reports what was submitted.
type CreateDishResult struct {
	Attached bool
	Dates    []dates.DateKey
}

// ExecuteCreateDish places a dish on the menu for the given dates, either by
// creating a new dish or attaching an existing one. Every target date must
// be an editable weekday.
// PRE: input.Dates is non-empty
// POST: the backend has the dish on all given dates, or no call was made
func ExecuteCreateDish(ctx context.Context, input CreateDishInput, deps CreateDishDeps) (CreateDishResult, error) {
	if len(input.Dates) == 0 {
		return CreateDishResult{}, ErrNoTargetDates
	}
	for _, day := range input.Dates {
		if !day.IsWeekday() {
			return CreateDishResult{}, fmt.Errorf("%w: %s", ErrWeekendDate, day)
		}
		if policy.Locked(day, input.Today, policy.ChefLockAheadDays) {
			return CreateDishResult{}, fmt.Errorf("%w: %s", ErrDateLocked, day)
		}
	}

	if input.ExistingDishID > 0 {
		if err := deps.API.AttachDish(ctx, input.ExistingDishID, input.Dates); err != nil {
			return CreateDishResult{}, err
		}
		slog.Info("dish_attached", "dish_id", input.ExistingDishID, "dates", len(input.Dates))
		return CreateDishResult{Attached: true, Dates: input.Dates}, nil
	}

	if err := validate.Struct(input); err != nil {
		return CreateDishResult{}, fmt.Errorf("invalid dish input: %w", err)
	}
	d := dish.Dish{
		Name:         input.Name,
		Description:  input.Description,
		Category:     dish.Category(input.Category),
		Calories:     input.Calories,
		LightHealthy: input.LightHealthy,
		SugarFree:    input.SugarFree,
	}
	if err := d.Validate(); err != nil {
		return CreateDishResult{}, err
	}

	if err := deps.API.CreateDish(ctx, d, input.Dates); err != nil {
		return CreateDishResult{}, err
	}
	slog.Info("dish_created", "name", d.Name, "category", d.Category, "dates", len(input.Dates))
	return CreateDishResult{Dates: input.Dates}, nil
}
