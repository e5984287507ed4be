package handlers

import (
	"context"
	"net/http"
	"strings"

	"matjip-map/internal/models"

	"go.uber.org/zap"
)

type SourceService interface {
	ListSources(ctx context.Context, keyword string) ([]models.SourceView, error)
	ListPrograms(ctx context.Context) (*models.CatalogResponse[models.Program], error)
}

type SourceHandler struct {
	service SourceService
	logr    *zap.Logger
}

func NewSourceHandler(svc SourceService, logr *zap.Logger) *SourceHandler {
	return &SourceHandler{service: svc, logr: logr}
}

// ListSources handles GET /sources
func (h *SourceHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))

	sources, err := h.service.ListSources(r.Context(), keyword)
	if err != nil {
		h.logr.Error("failed to list sources", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch sources"})
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

// ListPrograms handles GET /programs
func (h *SourceHandler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.service.ListPrograms(r.Context())
	if err != nil {
		h.logr.Error("failed to list programs", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch programs"})
		return
	}
	writeJSON(w, http.StatusOK, programs)
}
