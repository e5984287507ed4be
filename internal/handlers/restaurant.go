package handlers

import (
	"context"
	"errors"
	"net/http"

	"matjip-map/internal/models"
	"matjip-map/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// RestaurantService is the slice of the service layer the handlers need;
// tests substitute a fake.
type RestaurantService interface {
	List(ctx context.Context, p models.RestaurantListParams) (*models.ListResponse[models.Restaurant], error)
	GetByID(ctx context.Context, id string) (*models.RestaurantDetail, error)
}

type RestaurantHandler struct {
	service RestaurantService
	logr    *zap.Logger
}

func NewRestaurantHandler(svc RestaurantService, logr *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{service: svc, logr: logr}
}

// ListRestaurants handles GET /restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	params := services.ParseRestaurantListQuery(r.URL.Query())

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logr.Error("failed to list restaurants", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch restaurants"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetRestaurantByID handles GET /restaurants/{id}
func (h *RestaurantHandler) GetRestaurantByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			msg := services.ErrNotFound.Error()
			writeJSON(w, http.StatusNotFound, models.APIResponse[models.RestaurantDetail]{Error: &msg})
			return
		}
		h.logr.Error("failed to fetch restaurant", zap.String("id", id), zap.Error(err))
		msg := "failed to fetch restaurant"
		writeJSON(w, http.StatusInternalServerError, models.APIResponse[models.RestaurantDetail]{Error: &msg})
		return
	}

	writeJSON(w, http.StatusOK, models.APIResponse[models.RestaurantDetail]{Data: detail})
}

// writeJSON writes a JSON response (shared by all handlers)
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}
