package orchestrators_test

import (
	"context"

	"canteen/internal/adapters/api"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/rating"
)

// fakeBackend implements every backend-facing orchestrator interface and
// records the calls it receives.
type fakeBackend struct {
	addedDays    [][]dates.DateKey
	removedDays  [][]dates.DateKey
	addErr       error
	removeErr    error

	submitted  []rating.Rating
	updated    []struct{ ID int64; Old, New int }
	deleted    []rating.Rating
	aggregate  api.RatingAggregate
	ratingErr  error

	createdDishes  []dish.Dish
	attachedIDs    []int64
	createDates    [][]dates.DateKey
	removedIDs     [][]int64
	chefErr        error

	searchQueries []string
	searchResults []dish.Dish
	searchErr     error
}

func (f *fakeBackend) AddAttendance(_ context.Context, days []dates.DateKey) error {
	f.addedDays = append(f.addedDays, days)
	return f.addErr
}

func (f *fakeBackend) RemoveAttendance(_ context.Context, days []dates.DateKey) error {
	f.removedDays = append(f.removedDays, days)
	return f.removeErr
}

func (f *fakeBackend) SubmitRating(_ context.Context, r rating.Rating) (api.RatingAggregate, error) {
	f.submitted = append(f.submitted, r)
	return f.aggregate, f.ratingErr
}

func (f *fakeBackend) UpdateRating(_ context.Context, id int64, oldValue, newValue int) (api.RatingAggregate, error) {
	f.updated = append(f.updated, struct{ ID int64; Old, New int }{id, oldValue, newValue})
	return f.aggregate, f.ratingErr
}

func (f *fakeBackend) DeleteRating(_ context.Context, r rating.Rating) (api.RatingAggregate, error) {
	f.deleted = append(f.deleted, r)
	return f.aggregate, f.ratingErr
}

func (f *fakeBackend) CreateDish(_ context.Context, d dish.Dish, days []dates.DateKey) error {
	f.createdDishes = append(f.createdDishes, d)
	f.createDates = append(f.createDates, days)
	return f.chefErr
}

func (f *fakeBackend) AttachDish(_ context.Context, id int64, days []dates.DateKey) error {
	f.attachedIDs = append(f.attachedIDs, id)
	f.createDates = append(f.createDates, days)
	return f.chefErr
}

func (f *fakeBackend) DeleteDishFromDate(_ context.Context, ids []int64) error {
	f.removedIDs = append(f.removedIDs, ids)
	return f.chefErr
}

func (f *fakeBackend) SearchDishes(_ context.Context, query string, _ dish.Category) ([]dish.Dish, error) {
	f.searchQueries = append(f.searchQueries, query)
	return f.searchResults, f.searchErr
}

// memoryDayStore is an in-memory attendance.Store.
type memoryDayStore struct {
	days       []dates.DateKey
	replaceErr error
	replaced   int
}

func (s *memoryDayStore) Load(context.Context) ([]dates.DateKey, error) {
	return s.days, nil
}

func (s *memoryDayStore) Replace(_ context.Context, days []dates.DateKey) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.days = days
	s.replaced++
	return nil
}

// memoryRatingStore is an in-memory rating.Store.
type memoryRatingStore struct {
	values map[int64]int
	getErr error
}

func newMemoryRatingStore() *memoryRatingStore {
	return &memoryRatingStore{values: map[int64]int{}}
}

func (s *memoryRatingStore) Get(_ context.Context, id int64) (int, bool, error) {
	if s.getErr != nil {
		return 0, false, s.getErr
	}
	v, ok := s.values[id]
	return v, ok, nil
}

func (s *memoryRatingStore) Put(_ context.Context, id int64, value int) error {
	s.values[id] = value
	return nil
}

func (s *memoryRatingStore) Delete(_ context.Context, id int64) error {
	delete(s.values, id)
	return nil
}
