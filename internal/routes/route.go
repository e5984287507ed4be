package routes

import (
	"net/http"
	"time"

	"matjip-map/internal/cache"
	"matjip-map/internal/config"
	"matjip-map/internal/handlers"
	"matjip-map/internal/logger"
	"matjip-map/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/uptrace/bun"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	memo := cache.New()

	restaurantSvc := services.NewRestaurantService(db, memo, cfg.CacheTTL)
	sourceSvc := services.NewSourceService(db)

	restaurantHandler := handlers.NewRestaurantHandler(restaurantSvc, logr.Logger)
	sourceHandler := handlers.NewSourceHandler(sourceSvc, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/restaurants", func(r chi.Router) {
		r.Get("/", restaurantHandler.ListRestaurants)
		r.Get("/{id}", restaurantHandler.GetRestaurantByID)
	})

	r.Get("/sources", sourceHandler.ListSources)
	r.Get("/programs", sourceHandler.ListPrograms)

	return r
}
