package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"matjip-map/internal/models"
	"matjip-map/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type fakeRestaurantService struct {
	lastParams models.RestaurantListParams
	listResult *models.ListResponse[models.Restaurant]
	listErr    error
	detail     *models.RestaurantDetail
	detailErr  error
}

func (f *fakeRestaurantService) List(ctx context.Context, p models.RestaurantListParams) (*models.ListResponse[models.Restaurant], error) {
	f.lastParams = p
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeRestaurantService) GetByID(ctx context.Context, id string) (*models.RestaurantDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func newTestRouter(svc RestaurantService) http.Handler {
	h := NewRestaurantHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/restaurants", h.ListRestaurants)
	r.Get("/restaurants/{id}", h.GetRestaurantByID)
	return r
}

func TestListRestaurantsEnvelope(t *testing.T) {
	svc := &fakeRestaurantService{
		listResult: &models.ListResponse[models.Restaurant]{
			Items: []models.Restaurant{{ID: "r1", Name: "을지로 골뱅이", Category: "한식"}},
			Total: 1,
			Page:  1,
			Limit: 20,
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/restaurants?keyword=골뱅이", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if svc.lastParams.Keyword != "골뱅이" {
		t.Errorf("Expected keyword forwarded, got %q", svc.lastParams.Keyword)
	}

	var body models.ListResponse[models.Restaurant]
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON body: %v", err)
	}
	if body.Total != 1 || len(body.Items) != 1 || body.Items[0].ID != "r1" {
		t.Errorf("Unexpected envelope: %+v", body)
	}
}

func TestListRestaurantsInvalidNumericsFallBack(t *testing.T) {
	svc := &fakeRestaurantService{
		listResult: &models.ListResponse[models.Restaurant]{Items: []models.Restaurant{}},
	}

	req := httptest.NewRequest(http.MethodGet, "/restaurants?page=abc&limit=zz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for malformed numerics, got %d", rec.Code)
	}
	if svc.lastParams.Page != services.DefaultPage || svc.lastParams.Limit != services.DefaultLimit {
		t.Errorf("Expected defaults, got page=%d limit=%d", svc.lastParams.Page, svc.lastParams.Limit)
	}
}

func TestListRestaurantsProgramsForwarded(t *testing.T) {
	svc := &fakeRestaurantService{
		listResult: &models.ListResponse[models.Restaurant]{Items: []models.Restaurant{}},
	}

	req := httptest.NewRequest(http.MethodGet, "/restaurants?programs=p1,p2&page=1&limit=10", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if !reflect.DeepEqual(svc.lastParams.Programs, []string{"p1", "p2"}) {
		t.Errorf("Expected programs [p1 p2], got %v", svc.lastParams.Programs)
	}
	if svc.lastParams.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", svc.lastParams.Limit)
	}
}

func TestListRestaurantsStoreFailure(t *testing.T) {
	svc := &fakeRestaurantService{listErr: errors.New("connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected structured error body: %v", err)
	}
	if body.Error == "" {
		t.Error("Expected non-empty error message")
	}
}

func TestGetRestaurantByIDNotFound(t *testing.T) {
	svc := &fakeRestaurantService{detailErr: services.ErrNotFound}

	req := httptest.NewRequest(http.MethodGet, "/restaurants/nope", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	var body models.APIResponse[models.RestaurantDetail]
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON body: %v", err)
	}
	if body.Data != nil {
		t.Error("Expected null data for not found")
	}
	if body.Error == nil || *body.Error != "restaurant not found" {
		t.Errorf("Expected error message %q, got %v", "restaurant not found", body.Error)
	}
}

func TestGetRestaurantByIDSuccess(t *testing.T) {
	svc := &fakeRestaurantService{
		detail: &models.RestaurantDetail{
			Restaurant:  models.Restaurant{ID: "r1", Name: "을지로 골뱅이"},
			Menus:       []models.Menu{},
			Appearances: []models.Appearance{},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/restaurants/r1", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body models.APIResponse[models.RestaurantDetail]
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON body: %v", err)
	}
	if body.Data == nil || body.Data.ID != "r1" {
		t.Errorf("Unexpected detail payload: %+v", body)
	}
	if body.Error != nil {
		t.Errorf("Expected null error, got %v", *body.Error)
	}
}

func TestGetRestaurantByIDStoreFailure(t *testing.T) {
	svc := &fakeRestaurantService{detailErr: errors.New("timeout")}

	req := httptest.NewRequest(http.MethodGet, "/restaurants/r1", nil)
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
}
