package projections

import (
	"context"

	"canteen/internal/adapters/api"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/policy"
)

// ChefDayAPI defines the backend call behind the chef day read model.
type ChefDayAPI interface {
	FetchChefDay(ctx context.Context, day dates.DateKey) (api.DayMenu, error)
}

// ChefCategory is one category section of the chef editor, present even
// when empty so the editor can offer an add affordance per course.
type ChefCategory struct {
	Category dish.Category
	Dishes   []dish.DishOnDate
}

// ChefDay is the chef editor read model for one day.
type ChefDay struct {
	Date       dates.DateKey
	Locked     bool
	Attendance *int
	Categories []ChefCategory
}

// ChefDayInput selects the day and supplies the viewer's clock.
type ChefDayInput struct {
	Date  dates.DateKey
	Today dates.DateKey
}

// ChefDayDeps holds dependencies for QueryChefDay.
type ChefDayDeps struct {
	API ChefDayAPI
}

// QueryChefDay builds the chef editor view of one day: every course
// category in display order (empty ones included), the day's booked
// attendance count, and whether the day may still be edited.
// POST: Categories always has one entry per known category, in order
func QueryChefDay(ctx context.Context, input ChefDayInput, deps ChefDayDeps) (ChefDay, error) {
	day, err := deps.API.FetchChefDay(ctx, input.Date)
	if err != nil {
		return ChefDay{}, err
	}

	byCategory := make(map[dish.Category][]dish.DishOnDate, len(dish.CategoryOrder))
	for _, rec := range day.Dishes {
		byCategory[rec.Dish.Category] = append(byCategory[rec.Dish.Category], rec)
	}

	result := ChefDay{
		Date:       input.Date,
		Locked:     policy.Locked(input.Date, input.Today, policy.ChefLockAheadDays),
		Attendance: day.Attendance,
		Categories: make([]ChefCategory, 0, len(dish.CategoryOrder)),
	}
	for _, category := range dish.CategoryOrder {
		result.Categories = append(result.Categories, ChefCategory{
			Category: category,
			Dishes:   byCategory[category],
		})
	}
	return result, nil
}
