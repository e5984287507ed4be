package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FallbackCategory is the display label used when a restaurant has no
// joined category row.
const FallbackCategory = "기타"

// RestaurantRow is the raw shape scanned from the list/detail queries:
// restaurants joined to categories, with the PostGIS point rendered as
// GeoJSON. It is never serialized to clients; normalization into the
// Restaurant view model happens in the services layer.
type RestaurantRow struct {
	bun.BaseModel `bun:"table:restaurants,alias:rst"`

	ID           string    `bun:"id"`
	Name         string    `bun:"name"`
	Address      string    `bun:"address"`
	RoadAddress  string    `bun:"road_address"`
	Phone        *string   `bun:"phone"`
	PriceRange   *string   `bun:"price_range"`
	ThumbnailURL *string   `bun:"thumbnail_url"`
	Parking      bool      `bun:"parking"`
	IsDelete     bool      `bun:"is_delete"`
	CreatedAt    time.Time `bun:"created_at"`

	// Joined columns
	CategoryName *string `bun:"category_name"`
	GeoJSON      *string `bun:"geojson"`
}

// Restaurant is the flat view model served to clients. Field names match
// the frontend contract; the raw geography column is never exposed, only
// the split latitude/longitude pair.
type Restaurant struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	Address         string           `json:"address"`
	RoadAddress     string           `json:"road_address"`
	Latitude        *float64         `json:"latitude"`
	Longitude       *float64         `json:"longitude"`
	Phone           *string          `json:"phone"`
	BusinessHours   *BusinessHours   `json:"business_hours"`
	PriceRange      *string          `json:"price_range"`
	ThumbnailURL    *string          `json:"thumbnail_url"`
	Parking         bool             `json:"parking"`
	CreatedAt       time.Time        `json:"created_at"`
	Recommendations []Recommendation `json:"recommendations"`
}

// BusinessHours maps a weekday label to its opening hours. No backing
// column exists in the current schema, so the field is always null in
// responses, but the shape is part of the frontend contract.
type BusinessHours map[string]DayHours

type DayHours struct {
	Open       string  `json:"open"`
	Close      string  `json:"close"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
	Closed     bool    `json:"closed,omitempty"`
}

// Recommendation is the per-restaurant program badge attached to list
// results so the client can color markers without a second round trip.
type Recommendation struct {
	Source SourceRef `json:"source"`
}

type SourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RecommendationRow is the raw shape of the batched recommendation lookup
// for a page of restaurants.
type RecommendationRow struct {
	RestaurantID string `bun:"restaurant_id"`
	SourceID     string `bun:"source_id"`
	SourceName   string `bun:"source_name"`
}

// Menu belongs to exactly one restaurant.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:mnu"`

	ID           string  `bun:"id,pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	RestaurantID string  `bun:"restaurant_id" json:"restaurant_id"`
	Name         string  `bun:"name" json:"name"`
	Price        int     `bun:"price" json:"price"`
	IsMain       bool    `bun:"is_main" json:"is_main"`
	ImageURL     *string `bun:"image_url" json:"image_url"`
}

// RestaurantDetail is the full detail view: base fields plus menus and
// broadcast appearances.
type RestaurantDetail struct {
	Restaurant
	Menus       []Menu       `json:"menus"`
	Appearances []Appearance `json:"appearances"`
}

// Appearance is one broadcast appearance of a restaurant, expanded with
// its program. A missing source row degrades to a zero-value program
// reference rather than failing the request.
type Appearance struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	ProgramID    string  `json:"program_id"`
	Episode      *string `json:"episode"`
	AirDate      *string `json:"air_date"`
	YoutubeLink  *string `json:"youtube_link"`
	FeaturedMenu *string `json:"featured_menu"`
	Program      Program `json:"program"`
}

// AppearanceRow is the raw shape of the detail endpoint's recommendation
// join. SourceID and the source columns are nullable because the join to
// sources is outer.
type AppearanceRow struct {
	ID           string     `bun:"id"`
	RestaurantID string     `bun:"restaurant_id"`
	SourceID     *string    `bun:"source_id"`
	Episode      *string    `bun:"episode"`
	AirDate      *time.Time `bun:"air_date"`
	YoutubeLink  *string    `bun:"youtube_link"`
	FeaturedMenu *string    `bun:"featured_menu"`

	SourceName        *string `bun:"source_name"`
	SourceType        *string `bun:"source_type"`
	SourceDescription *string `bun:"source_description"`
}

// RestaurantListParams are the parsed filter criteria for the list query.
type RestaurantListParams struct {
	Keyword  string
	Category string
	Programs []string
	Page     int
	Limit    int
}
