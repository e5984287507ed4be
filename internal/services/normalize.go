package services

import (
	"matjip-map/internal/models"

	"github.com/goccy/go-json"
)

// geoPoint matches the ST_AsGeoJSON rendering of a point column.
type geoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// splitGeoJSON extracts latitude and longitude from a GeoJSON point.
// Returns nils when the column is absent or not a coordinate pair.
func splitGeoJSON(raw *string) (lat, lng *float64) {
	if raw == nil {
		return nil, nil
	}
	var pt geoPoint
	if err := json.Unmarshal([]byte(*raw), &pt); err != nil {
		return nil, nil
	}
	if len(pt.Coordinates) < 2 {
		return nil, nil
	}
	// GeoJSON coordinate order is [longitude, latitude]
	lngV := pt.Coordinates[0]
	latV := pt.Coordinates[1]
	return &latV, &lngV
}

// NormalizeRestaurant converts one joined raw row into the flat view
// model. Pure transform: no side effects, stable under repeated calls.
func NormalizeRestaurant(row models.RestaurantRow, recs []models.Recommendation) models.Restaurant {
	category := models.FallbackCategory
	if row.CategoryName != nil && *row.CategoryName != "" {
		category = *row.CategoryName
	}

	lat, lng := splitGeoJSON(row.GeoJSON)

	if recs == nil {
		recs = []models.Recommendation{}
	}

	return models.Restaurant{
		ID:              row.ID,
		Name:            row.Name,
		Category:        category,
		Address:         row.Address,
		RoadAddress:     row.RoadAddress,
		Latitude:        lat,
		Longitude:       lng,
		Phone:           row.Phone,
		BusinessHours:   nil, // no backing column in the current schema
		PriceRange:      row.PriceRange,
		ThumbnailURL:    row.ThumbnailURL,
		Parking:         row.Parking,
		CreatedAt:       row.CreatedAt,
		Recommendations: recs,
	}
}

// NormalizeAppearance expands one recommendation row into an appearance.
// A missing source row degrades to a zero-value program reference.
func NormalizeAppearance(row models.AppearanceRow) models.Appearance {
	var program models.Program
	programID := ""
	if row.SourceID != nil {
		programID = *row.SourceID
		program = models.Program{
			ID:          *row.SourceID,
			Description: row.SourceDescription,
		}
		if row.SourceName != nil {
			program.Name = *row.SourceName
		}
		if row.SourceType != nil {
			program.Type = *row.SourceType
		}
	}

	var airDate *string
	if row.AirDate != nil {
		s := row.AirDate.Format("2006-01-02")
		airDate = &s
	}

	return models.Appearance{
		ID:           row.ID,
		RestaurantID: row.RestaurantID,
		ProgramID:    programID,
		Episode:      row.Episode,
		AirDate:      airDate,
		YoutubeLink:  row.YoutubeLink,
		FeaturedMenu: row.FeaturedMenu,
		Program:      program,
	}
}

// NormalizeRestaurantDetail assembles the full detail view. The base
// recommendations list is derived from the appearances that resolved to a
// source, so list and detail render the same program badges.
func NormalizeRestaurantDetail(row models.RestaurantRow, menus []models.Menu, appRows []models.AppearanceRow) models.RestaurantDetail {
	recs := make([]models.Recommendation, 0, len(appRows))
	appearances := make([]models.Appearance, 0, len(appRows))
	for _, ar := range appRows {
		app := NormalizeAppearance(ar)
		appearances = append(appearances, app)
		if ar.SourceID != nil {
			recs = append(recs, models.Recommendation{
				Source: models.SourceRef{ID: app.Program.ID, Name: app.Program.Name},
			})
		}
	}

	if menus == nil {
		menus = []models.Menu{}
	}

	return models.RestaurantDetail{
		Restaurant:  NormalizeRestaurant(row, recs),
		Menus:       menus,
		Appearances: appearances,
	}
}
