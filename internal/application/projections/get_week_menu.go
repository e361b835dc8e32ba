package projections

import (
	"context"

	storeAttendance "canteen/internal/adapters/storage/attendance"
	storeRating "canteen/internal/adapters/storage/rating"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/menu"
	"canteen/internal/domain/policy"
)

// WeekAPI defines the backend call behind the week menu read model.
type WeekAPI interface {
	FetchWeek(ctx context.Context, anchor dates.DateKey) ([]dish.DishOnDate, error)
}

// DishView is one dish cell decorated with the viewer's rating affordances.
type DishView struct {
	dish.DishOnDate
	RatingVisible  bool
	RatingEditable bool
	OwnRating      *int
}

// CategoryView groups one day's dishes under a single course category.
type CategoryView struct {
	Category dish.Category
	Dishes   []DishView
}

// DayView is one weekday column of the week menu.
type DayView struct {
	Date       dates.DateKey
	Name       string
	Locked     bool
	Selected   bool
	Categories []CategoryView
}

// WeekMenu is the full decorated read model for one week.
type WeekMenu struct {
	Window dates.Window
	Days   []DayView
}

// WeekMenuInput selects the week and supplies the viewer's clock and
// lock-ahead offset.
type WeekMenuInput struct {
	Anchor        dates.DateKey
	Today         dates.DateKey
	LockAheadDays int
}

// WeekMenuDeps holds dependencies for QueryWeekMenu.
type WeekMenuDeps struct {
	API       WeekAPI
	Selection storeAttendance.Store
	Ratings   storeRating.Store
}

// QueryWeekMenu builds the decorated week read model: dishes grouped by day
// and category in display order, each day flagged with its lock and
// selection state, each dish with its rating affordances.
// PRE: input.Anchor and input.Today are valid DateKeys
// POST: Days always has five entries, Monday through Friday
func QueryWeekMenu(ctx context.Context, input WeekMenuInput, deps WeekMenuDeps) (WeekMenu, error) {
	window := dates.WeekWindow(input.Anchor)

	records, err := deps.API.FetchWeek(ctx, input.Anchor)
	if err != nil {
		return WeekMenu{}, err
	}
	idx := menu.Index(records)

	persisted, err := deps.Selection.Load(ctx)
	if err != nil {
		return WeekMenu{}, err
	}
	selected := make(map[dates.DateKey]bool, len(persisted))
	for _, day := range persisted {
		selected[day] = true
	}

	result := WeekMenu{Window: window, Days: make([]DayView, 0, dates.WeekLength)}
	for i, date := range window.Days() {
		view := DayView{
			Date:     date,
			Name:     dates.DayNames[i],
			Locked:   policy.Locked(date, input.Today, input.LockAheadDays),
			Selected: selected[date],
		}
		byCategory := idx.Day(view.Name)
		for _, category := range dish.CategoryOrder {
			records := byCategory[category]
			if len(records) == 0 {
				continue
			}
			cv := CategoryView{Category: category, Dishes: make([]DishView, 0, len(records))}
			for _, rec := range records {
				dv := DishView{
					DishOnDate:     rec,
					RatingVisible:  policy.RatingVisible(date, input.Today, view.Selected),
					RatingEditable: policy.RatingEditable(date, input.Today, policy.EditWindowDays),
				}
				if dv.RatingVisible {
					if value, ok, err := deps.Ratings.Get(ctx, rec.DateHasDishID); err != nil {
						return WeekMenu{}, err
					} else if ok {
						own := value
						dv.OwnRating = &own
					}
				}
				cv.Dishes = append(cv.Dishes, dv)
			}
			view.Categories = append(view.Categories, cv)
		}
		result.Days = append(result.Days, view)
	}
	return result, nil
}
