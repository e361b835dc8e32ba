package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"canteen/internal/adapters/api"
	"canteen/internal/adapters/api/perf"
	"canteen/internal/domain/dates"
	"canteen/internal/domain/dish"
	"canteen/internal/domain/rating"
)

// capture records the last request the fake backend saw.
type capture struct {
	method string
	uri    string
	body   string
}

func newServer(t *testing.T, status int, response string, cap *capture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		cap.method = r.Method
		cap.uri = r.URL.RequestURI()
		cap.body = string(raw)
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestClient_FetchWeek tests path shape and catalog decoding.
func TestClient_FetchWeek(t *testing.T) {
	var cap capture
	srv := newServer(t, http.StatusOK, `{"dishes":[
		{"date_has_dish_id":1,"date":"2025-06-02","dish":{"dish_id":7,"dish_name":"Tomato Soup","dish_type":"Soup","dish_calories":120},"average_rating":4.0,"rating_count":3}
	]}`, &cap)

	client := api.NewClient(srv.URL, time.Second, nil)
	dishes, err := client.FetchWeek(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("FetchWeek: %v", err)
	}

	if cap.method != http.MethodGet || cap.uri != "/booking/week?date=2025-06-02" {
		t.Errorf("request = %s %s, want GET /booking/week?date=2025-06-02", cap.method, cap.uri)
	}
	if len(dishes) != 1 || dishes[0].DateHasDishID != 1 || dishes[0].Dish.Category != dish.CategorySoup {
		t.Errorf("dishes = %+v", dishes)
	}
}

// TestClient_Attendance tests that add/remove carry exactly the given days.
func TestClient_Attendance(t *testing.T) {
	days := []dates.DateKey{"2025-06-03", "2025-06-04"}

	t.Run("add", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, `{}`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		if err := client.AddAttendance(context.Background(), days); err != nil {
			t.Fatalf("AddAttendance: %v", err)
		}
		if cap.method != http.MethodPost || cap.uri != "/booking/add-attendance/" {
			t.Errorf("request = %s %s, want POST /booking/add-attendance/", cap.method, cap.uri)
		}
		if cap.body != `["2025-06-03","2025-06-04"]` {
			t.Errorf("body = %s", cap.body)
		}
	})

	t.Run("remove", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, `{}`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		if err := client.RemoveAttendance(context.Background(), days); err != nil {
			t.Fatalf("RemoveAttendance: %v", err)
		}
		if cap.method != http.MethodDelete || cap.uri != "/booking/remove-attendance/" {
			t.Errorf("request = %s %s, want DELETE /booking/remove-attendance/", cap.method, cap.uri)
		}
		if cap.body != `["2025-06-03","2025-06-04"]` {
			t.Errorf("body = %s", cap.body)
		}
	})
}

// TestClient_Ratings tests the three rating verbs and their payloads.
func TestClient_Ratings(t *testing.T) {
	aggregate := `{"average_rating":4.2,"rating_count":5}`

	t.Run("submit", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, aggregate, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		got, err := client.SubmitRating(context.Background(), rating.Rating{DateHasDishID: 42, Value: 4})
		if err != nil {
			t.Fatalf("SubmitRating: %v", err)
		}
		if cap.method != http.MethodPost || cap.uri != "/booking/rate/" {
			t.Errorf("request = %s %s, want POST /booking/rate/", cap.method, cap.uri)
		}
		if cap.body != `{"date_has_dish_id":42,"rating":4}` {
			t.Errorf("body = %s", cap.body)
		}
		if got.AverageRating == nil || *got.AverageRating != 4.2 || got.RatingCount != 5 {
			t.Errorf("aggregate = %+v", got)
		}
	})

	t.Run("update", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, aggregate, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		if _, err := client.UpdateRating(context.Background(), 42, 3, 5); err != nil {
			t.Fatalf("UpdateRating: %v", err)
		}
		if cap.method != http.MethodPut {
			t.Errorf("method = %s, want PUT", cap.method)
		}
		if cap.body != `{"date_has_dish_id":42,"old_rating":3,"new_rating":5}` {
			t.Errorf("body = %s", cap.body)
		}
	})

	t.Run("delete", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, `{"average_rating":null,"rating_count":0}`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		got, err := client.DeleteRating(context.Background(), rating.Rating{DateHasDishID: 42, Value: 4})
		if err != nil {
			t.Fatalf("DeleteRating: %v", err)
		}
		if cap.method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", cap.method)
		}
		if cap.body != `{"date_has_dish_id":42,"rating":4}` {
			t.Errorf("body = %s", cap.body)
		}
		if got.AverageRating != nil {
			t.Errorf("average after delete = %v, want nil", *got.AverageRating)
		}
	})
}

// TestClient_ChefDay tests the day-dishes path and attendance decoding.
func TestClient_ChefDay(t *testing.T) {
	var cap capture
	srv := newServer(t, http.StatusOK, `{"dishes":[],"attendance":17}`, &cap)
	client := api.NewClient(srv.URL, time.Second, nil)

	day, err := client.FetchChefDay(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("FetchChefDay: %v", err)
	}
	if cap.uri != "/chef-management/day-dishes/2025-06-02/" {
		t.Errorf("uri = %s, want /chef-management/day-dishes/2025-06-02/", cap.uri)
	}
	if day.Attendance == nil || *day.Attendance != 17 {
		t.Errorf("attendance = %v, want 17", day.Attendance)
	}

	// Attendance may be null before anyone books.
	srv2cap := capture{}
	srv2 := newServer(t, http.StatusOK, `{"dishes":[],"attendance":null}`, &srv2cap)
	client2 := api.NewClient(srv2.URL, time.Second, nil)
	day2, err := client2.FetchChefDay(context.Background(), "2025-06-02")
	if err != nil {
		t.Fatalf("FetchChefDay with null attendance: %v", err)
	}
	if day2.Attendance != nil {
		t.Errorf("attendance = %v, want nil", *day2.Attendance)
	}
}

// TestClient_ChefCreateAndDelete tests both create payload shapes and the
// delete payload.
func TestClient_ChefCreateAndDelete(t *testing.T) {
	t.Run("create new dish", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusCreated, `{}`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		d := dish.Dish{Name: "Minestrone", Category: dish.CategorySoup, Calories: 150}
		if err := client.CreateDish(context.Background(), d, []dates.DateKey{"2025-06-09"}); err != nil {
			t.Fatalf("CreateDish: %v", err)
		}
		if cap.method != http.MethodPost || cap.uri != "/chef-management/create/" {
			t.Errorf("request = %s %s, want POST /chef-management/create/", cap.method, cap.uri)
		}

		var payload struct {
			Dish  map[string]any `json:"dish"`
			Dates []string       `json:"dates"`
		}
		if err := json.Unmarshal([]byte(cap.body), &payload); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if payload.Dish["dish_name"] != "Minestrone" || payload.Dish["dish_type"] != "Soup" {
			t.Errorf("dish payload = %v", payload.Dish)
		}
		if len(payload.Dates) != 1 || payload.Dates[0] != "2025-06-09" {
			t.Errorf("dates = %v", payload.Dates)
		}
	})

	t.Run("attach existing dish", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusCreated, `{}`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		if err := client.AttachDish(context.Background(), 7, []dates.DateKey{"2025-06-09"}); err != nil {
			t.Fatalf("AttachDish: %v", err)
		}
		if cap.body != `{"existing_dish_id":7,"dates":["2025-06-09"]}` {
			t.Errorf("body = %s", cap.body)
		}
	})

	t.Run("delete dish from date", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, `{}`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		if err := client.DeleteDishFromDate(context.Background(), []int64{42}); err != nil {
			t.Fatalf("DeleteDishFromDate: %v", err)
		}
		if cap.method != http.MethodDelete || cap.uri != "/chef-management/delete-dish-from-date/" {
			t.Errorf("request = %s %s", cap.method, cap.uri)
		}
		if cap.body != `{"date_has_dish_ids":[42]}` {
			t.Errorf("body = %s", cap.body)
		}
	})
}

// TestClient_SearchDishes tests the autocomplete query string.
func TestClient_SearchDishes(t *testing.T) {
	var cap capture
	srv := newServer(t, http.StatusOK, `{"results":[{"dish_id":7,"dish_name":"Tomato Soup","dish_type":"Soup","dish_calories":120}]}`, &cap)
	client := api.NewClient(srv.URL, time.Second, nil)

	results, err := client.SearchDishes(context.Background(), "tom soup", dish.CategorySoup)
	if err != nil {
		t.Fatalf("SearchDishes: %v", err)
	}
	if cap.uri != "/chef-management/search-dishes/?q=tom+soup&category=Soup" {
		t.Errorf("uri = %s", cap.uri)
	}
	if len(results) != 1 || results[0].ID != 7 {
		t.Errorf("results = %+v", results)
	}
}

// TestClient_ErrorTaxonomy tests the two failure classes.
func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Run("non-2xx wraps ErrRequestFailed", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusInternalServerError, `boom`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		_, err := client.FetchWeek(context.Background(), "2025-06-02")
		if !errors.Is(err, api.ErrRequestFailed) {
			t.Errorf("error = %v, want ErrRequestFailed", err)
		}
	})

	t.Run("unreachable backend wraps ErrRequestFailed", func(t *testing.T) {
		client := api.NewClient("http://127.0.0.1:1", 100*time.Millisecond, nil)
		err := client.AddAttendance(context.Background(), []dates.DateKey{"2025-06-02"})
		if !errors.Is(err, api.ErrRequestFailed) {
			t.Errorf("error = %v, want ErrRequestFailed", err)
		}
	})

	t.Run("bad json wraps ErrMalformedResponse", func(t *testing.T) {
		var cap capture
		srv := newServer(t, http.StatusOK, `{"dishes": [`, &cap)
		client := api.NewClient(srv.URL, time.Second, nil)

		_, err := client.FetchWeek(context.Background(), "2025-06-02")
		if !errors.Is(err, api.ErrMalformedResponse) {
			t.Errorf("error = %v, want ErrMalformedResponse", err)
		}
	})
}

// TestClient_RecordsTimings tests collector wiring on success and failure.
func TestClient_RecordsTimings(t *testing.T) {
	collector := perf.NewCollector(8)
	var cap capture
	srv := newServer(t, http.StatusOK, `{"dishes":[]}`, &cap)
	client := api.NewClient(srv.URL, time.Second, collector)

	if _, err := client.FetchWeek(context.Background(), "2025-06-02"); err != nil {
		t.Fatalf("FetchWeek: %v", err)
	}

	snap := collector.Snapshot(time.Time{}, 10)
	if len(snap.BackendCalls) != 1 || snap.BackendCalls[0].Op != "booking/week" {
		t.Fatalf("BackendCalls = %+v", snap.BackendCalls)
	}
	if snap.BackendCalls[0].Failures != 0 {
		t.Errorf("Failures = %d, want 0", snap.BackendCalls[0].Failures)
	}
}
