package dish

import (
	"errors"
	"strings"

	"canteen/internal/domain/dates"
)

// Category is a dish course category. The values are the backend wire names.
type Category string

const (
	CategorySoup       Category = "Soup"
	CategoryMainCourse Category = "Main Course"
	CategorySide       Category = "Side"
	CategoryDessert    Category = "Dessert"
	CategoryWater      Category = "Water"
)

// CategoryOrder lists the categories in menu display order.
var CategoryOrder = []Category{
	CategorySoup,
	CategoryMainCourse,
	CategorySide,
	CategoryDessert,
	CategoryWater,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range CategoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Max length constants.
const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// Domain errors
var (
	ErrEmptyName       = errors.New("dish name cannot be empty")
	ErrNameTooLong     = errors.New("dish name cannot exceed 200 characters")
	ErrUnknownCategory = errors.New("dish category is not a known course")
	ErrNegativeCal     = errors.New("dish calories cannot be negative")
	ErrDescTooLong     = errors.New("dish description cannot exceed 2000 characters")
)

// Dish is one dish as served by the backend. Immutable once fetched.
// Field tags carry the backend wire names.
type Dish struct {
	ID           int64    `json:"dish_id"`
	Name         string   `json:"dish_name"`
	Description  string   `json:"dish_description"`
	Category     Category `json:"dish_type"`
	Calories     int      `json:"dish_calories"`
	LightHealthy bool     `json:"light_healthy"`
	SugarFree    bool     `json:"sugar_free"`
}

// Validate checks the dish's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (d *Dish) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !d.Category.Valid() {
		return ErrUnknownCategory
	}
	if d.Calories < 0 {
		return ErrNegativeCal
	}
	if len(d.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	return nil
}

// DishOnDate is one dish offered on one specific date. DateHasDishID is the
// unique identity used for rating and deletion; (date, dish) pairs are never
// used because a dish may repeat across dates.
type DishOnDate struct {
	DateHasDishID int64         `json:"date_has_dish_id"`
	Date          dates.DateKey `json:"date"`
	Dish          Dish          `json:"dish"`
	AverageRating *float64      `json:"average_rating"`
	RatingCount   int           `json:"rating_count"`
}
