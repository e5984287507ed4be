package mapstate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"matjip-map/internal/models"

	"github.com/goccy/go-json"
)

func TestClientBuildsQueryString(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/restaurants" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.ListResponse[models.Restaurant]{
			Items: []models.Restaurant{{ID: "r1"}},
			Total: 1,
			Page:  1,
			Limit: 10,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	res, err := c.FetchRestaurants(context.Background(), Query{
		Keyword:  "골뱅이",
		Category: "한식",
		Programs: []string{"p1", "p2"},
		Page:     1,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := gotQuery["programs"]; len(got) != 1 || got[0] != "p1,p2" {
		t.Errorf("Expected programs encoded as CSV, got %v", got)
	}
	if got := gotQuery["keyword"]; len(got) != 1 || got[0] != "골뱅이" {
		t.Errorf("Expected keyword param, got %v", got)
	}
	if res.Total != 1 || len(res.Items) != 1 {
		t.Errorf("Unexpected response: %+v", res)
	}
}

func TestClientOmitsEmptyFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has("keyword") || q.Has("category") || q.Has("programs") {
			t.Errorf("Expected empty filters omitted, got %v", q)
		}
		_ = json.NewEncoder(w).Encode(models.ListResponse[models.Restaurant]{Items: []models.Restaurant{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.FetchRestaurants(context.Background(), Query{Page: 1, Limit: 20}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"failed to fetch restaurants"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.FetchRestaurants(context.Background(), Query{Page: 1, Limit: 20}); err == nil {
		t.Fatal("Expected error for non-200 status")
	}
}
