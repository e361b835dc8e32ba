package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"canteen/internal/adapters/api/perf"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/rating"
)

// DefaultTimeout bounds every backend call; a hung request must not hang its
// UI affordance forever.
const DefaultTimeout = 10 * time.Second

// Failure taxonomy. Transport errors and non-2xx statuses wrap
// ErrRequestFailed; undecodable bodies wrap ErrMalformedResponse.
var (
	ErrRequestFailed     = errors.New("backend request failed")
	ErrMalformedResponse = errors.New("malformed backend response")
)

// DayMenu is the chef day-dishes payload: the day's catalog plus how many
// visitors have booked the day (null before anyone has).
type DayMenu struct {
	Dishes     []dish.DishOnDate `json:"dishes"`
	Attendance *int              `json:"attendance"`
}

// RatingAggregate is the backend's aggregate after any rating mutation.
type RatingAggregate struct {
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int      `json:"rating_count"`
}

// Client is a typed client for the cafeteria backend REST surface. Exact
// path casing and trailing slashes are preserved for compatibility.
type Client struct {
	baseURL   string // always with trailing slash
	http      *http.Client
	collector *perf.Collector
}

// NewClient creates a backend client rooted at baseURL.
// PRE: baseURL is an absolute URL; timeout > 0 (zero falls back to DefaultTimeout)
// POST: returns a ready-to-use client; collector may be nil
func NewClient(baseURL string, timeout time.Duration, collector *perf.Collector) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: timeout},
		collector: collector,
	}
}

// FetchWeek retrieves the available dishes for the week containing anchor.
// PRE: anchor is a valid DateKey
// POST: returns the flat catalog; grouping is the caller's concern
func (c *Client) FetchWeek(ctx context.Context, anchor dates.DateKey) ([]dish.DishOnDate, error) {
	var out struct {
		Dishes []dish.DishOnDate `json:"dishes"`
	}
	path := "booking/week?date=" + url.QueryEscape(anchor.String())
	if err := c.do(ctx, http.MethodGet, path, "booking/week", nil, &out); err != nil {
		return nil, err
	}
	return out.Dishes, nil
}

// AddAttendance submits exactly the given days as new attendance.
// PRE: days is non-empty and carries only weekday DateKeys
// POST: backend has recorded the days, or an error is returned
func (c *Client) AddAttendance(ctx context.Context, days []dates.DateKey) error {
	return c.do(ctx, http.MethodPost, "booking/add-attendance/", "booking/add-attendance", days, nil)
}

// RemoveAttendance withdraws exactly the given days.
// PRE: days is non-empty
func (c *Client) RemoveAttendance(ctx context.Context, days []dates.DateKey) error {
	return c.do(ctx, http.MethodDelete, "booking/remove-attendance/", "booking/remove-attendance", days, nil)
}

// SubmitRating records a first-time rating for a dish-on-date.
// PRE: r validates
// POST: returns the updated aggregate
func (c *Client) SubmitRating(ctx context.Context, r rating.Rating) (RatingAggregate, error) {
	body := struct {
		DateHasDishID int64 `json:"date_has_dish_id"`
		Rating        int   `json:"rating"`
	}{r.DateHasDishID, r.Value}
	var out RatingAggregate
	err := c.do(ctx, http.MethodPost, "booking/rate/", "booking/rate", body, &out)
	return out, err
}

// UpdateRating replaces an existing rating with a new value.
// PRE: oldValue is the previously submitted value for this dish-on-date
// POST: returns the updated aggregate
func (c *Client) UpdateRating(ctx context.Context, dateHasDishID int64, oldValue, newValue int) (RatingAggregate, error) {
	body := struct {
		DateHasDishID int64 `json:"date_has_dish_id"`
		OldRating     int   `json:"old_rating"`
		NewRating     int   `json:"new_rating"`
	}{dateHasDishID, oldValue, newValue}
	var out RatingAggregate
	err := c.do(ctx, http.MethodPut, "booking/rate/", "booking/rate", body, &out)
	return out, err
}

// DeleteRating withdraws the user's rating for a dish-on-date.
// PRE: r carries the previously submitted value
// POST: returns the aggregate without the withdrawn rating
func (c *Client) DeleteRating(ctx context.Context, r rating.Rating) (RatingAggregate, error) {
	body := struct {
		DateHasDishID int64 `json:"date_has_dish_id"`
		Rating        int   `json:"rating"`
	}{r.DateHasDishID, r.Value}
	var out RatingAggregate
	err := c.do(ctx, http.MethodDelete, "booking/rate/", "booking/rate", body, &out)
	return out, err
}

// FetchChefDay retrieves one day's dishes and attendance count for the chef
// screen.
func (c *Client) FetchChefDay(ctx context.Context, day dates.DateKey) (DayMenu, error) {
	var out DayMenu
	path := "chef-management/day-dishes/" + day.String() + "/"
	err := c.do(ctx, http.MethodGet, path, "chef-management/day-dishes", nil, &out)
	return out, err
}

// CreateDish creates a brand-new dish and attaches it to the given dates.
// PRE: d validates; days is non-empty
func (c *Client) CreateDish(ctx context.Context, d dish.Dish, days []dates.DateKey) error {
	body := struct {
		Dish  dish.Dish       `json:"dish"`
		Dates []dates.DateKey `json:"dates"`
	}{d, days}
	return c.do(ctx, http.MethodPost, "chef-management/create/", "chef-management/create", body, nil)
}

// AttachDish attaches an existing dish to the given dates.
// PRE: existingDishID > 0; days is non-empty
func (c *Client) AttachDish(ctx context.Context, existingDishID int64, days []dates.DateKey) error {
	body := struct {
		ExistingDishID int64           `json:"existing_dish_id"`
		Dates          []dates.DateKey `json:"dates"`
	}{existingDishID, days}
	return c.do(ctx, http.MethodPost, "chef-management/create/", "chef-management/create", body, nil)
}

// DeleteDishFromDate removes dish-on-date pairings by their unique IDs.
// PRE: ids is non-empty
func (c *Client) DeleteDishFromDate(ctx context.Context, ids []int64) error {
	body := struct {
		DateHasDishIDs []int64 `json:"date_has_dish_ids"`
	}{ids}
	return c.do(ctx, http.MethodDelete, "chef-management/delete-dish-from-date/", "chef-management/delete-dish-from-date", body, nil)
}

// SearchDishes queries the dish autocomplete endpoint. Category narrows the
// search when non-empty.
func (c *Client) SearchDishes(ctx context.Context, query string, category dish.Category) ([]dish.Dish, error) {
	var out struct {
		Results []dish.Dish `json:"results"`
	}
	path := "chef-management/search-dishes/?q=" + url.QueryEscape(query) +
		"&category=" + url.QueryEscape(string(category))
	if err := c.do(ctx, http.MethodGet, path, "chef-management/search-dishes", nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// do issues one backend call: encodes body (if any), sends, checks status,
// decodes into out (if non-nil), and records timing under op.
func (c *Client) do(ctx context.Context, method, path, op string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.record(op, 0, true, start)
		slog.Error("api_call_failed", "op", op, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrRequestFailed, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(op, resp.StatusCode, true, start)
		slog.Error("api_call_failed", "op", op, "request_id", requestID, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s returned %d", ErrRequestFailed, op, resp.StatusCode)
	}

	c.record(op, resp.StatusCode, false, start)
	slog.Debug("api_call", "op", op, "request_id", requestID, "status", resp.StatusCode)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, op, err)
	}
	return nil
}

func (c *Client) record(op string, status int, failed bool, start time.Time) {
	if c.collector == nil {
		return
	}
	c.collector.Record(perf.Entry{
		Kind:       perf.KindBackendCall,
		Op:         op,
		StatusCode: status,
		Failed:     failed,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Timestamp:  start,
	})
}
