package orchestrators

import (
	"context"
	"strings"

	"canteen/internal/domain/dish"
)

// DishSearchAPI defines the backend autocomplete call.
type DishSearchAPI interface {
	SearchDishes(ctx context.Context, query string, category dish.Category) ([]dish.Dish, error)
}

// SearchDishesInput carries the search text and an optional category filter.
type SearchDishesInput struct {
	Query    string
	Category dish.Category
}

// SearchDishesDeps holds dependencies for SearchDishes.
type SearchDishesDeps struct {
	API DishSearchAPI
}

// SearchDishesResult carries the matching dishes, never nil.
type SearchDishesResult struct {
	Dishes []dish.Dish
}

// ExecuteSearchDishes looks up existing dishes by name fragment. A blank
// query short-circuits to an empty result without a backend call.
func ExecuteSearchDishes(ctx context.Context, input SearchDishesInput, deps SearchDishesDeps) (SearchDishesResult, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return SearchDishesResult{Dishes: []dish.Dish{}}, nil
	}

	dishes, err := deps.API.SearchDishes(ctx, query, input.Category)
	if err != nil {
		return SearchDishesResult{}, err
	}
	if dishes == nil {
		dishes = []dish.Dish{}
	}
	return SearchDishesResult{Dishes: dishes}, nil
}
