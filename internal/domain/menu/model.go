package menu

import (
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
)

// WeekIndex maps weekday name ("Monday".."Friday") to category to the dishes
// offered, preserving the input order within each group.
type WeekIndex map[string]map[dish.Category][]dish.DishOnDate

// Index groups a flat list of dish-on-date records by weekday name and then
// by category. All five weekday keys are always present, possibly empty.
// Records dated on a Saturday or Sunday are silently dropped; a correctly
// scoped fetch never produces them.
// PRE: none
// POST: deterministic grouping, insertion order kept within each category
func Index(records []dish.DishOnDate) WeekIndex {
	idx := make(WeekIndex, dates.WeekLength)
	for _, day := range dates.DayNames {
		idx[day] = make(map[dish.Category][]dish.DishOnDate)
	}
	for _, rec := range records {
		byCategory, ok := idx[rec.Date.DayName()]
		if !ok {
			continue
		}
		byCategory[rec.Dish.Category] = append(byCategory[rec.Dish.Category], rec)
	}
	return idx
}

// Day returns the category grouping for one weekday name. Unknown names
// yield an empty grouping.
func (w WeekIndex) Day(name string) map[dish.Category][]dish.DishOnDate {
	if byCategory, ok := w[name]; ok {
		return byCategory
	}
	return map[dish.Category][]dish.DishOnDate{}
}
