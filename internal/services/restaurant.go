package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matjip-map/internal/cache"
	"matjip-map/internal/models"
	"matjip-map/internal/utils"

	"github.com/uptrace/bun"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20

	// limit=-1 means "everything", capped so a bad client cannot pull
	// an unbounded result set
	MaxListLimit = 10000

	// Invalidation tag shared by all restaurant list cache entries
	ListCacheTag = "restaurants"
)

// ErrNotFound signals a missing or soft-deleted restaurant.
var ErrNotFound = errors.New("restaurant not found")

type RestaurantService struct {
	db    *bun.DB
	cache *cache.Cache
	ttl   time.Duration
}

func NewRestaurantService(db *bun.DB, c *cache.Cache, ttl time.Duration) *RestaurantService {
	return &RestaurantService{db: db, cache: c, ttl: ttl}
}

// ParseRestaurantListQuery extracts and normalizes list filters from the
// URL query. Malformed numeric values fall back to defaults, never an
// error. lat/lng/radius are accepted but not applied to the query yet
// (bounds filtering is a scoped extension point).
func ParseRestaurantListQuery(q url.Values) models.RestaurantListParams {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit == 0 || limit < -1 {
		limit = DefaultLimit
	}
	if limit == -1 {
		limit = MaxListLimit
		page = 1
	}

	return models.RestaurantListParams{
		Keyword:  strings.TrimSpace(q.Get("keyword")),
		Category: strings.TrimSpace(q.Get("category")),
		Programs: utils.ParseQueryList(q, "programs"),
		Page:     page,
		Limit:    limit,
	}
}

// listCacheKey composes the order-sensitive cache key for a filter
// combination: distinct combinations never share a key, identical ones
// always do.
func listCacheKey(p models.RestaurantListParams) string {
	orAll := func(s string) string {
		if s == "" {
			return "all"
		}
		return s
	}
	programs := "all"
	if len(p.Programs) > 0 {
		// Escape ids so one containing the list separator cannot mimic a
		// multi-id set
		ids := make([]string, len(p.Programs))
		for i, id := range p.Programs {
			ids[i] = url.QueryEscape(id)
		}
		programs = strings.Join(ids, ",")
	}
	return cache.Key(
		"restaurants",
		orAll(p.Keyword),
		orAll(p.Category),
		programs,
		strconv.Itoa(p.Page),
		strconv.Itoa(p.Limit),
	)
}

// List returns the filtered, paginated restaurant list, memoized for the
// cache TTL. Store failures during population are propagated and not
// cached.
func (s *RestaurantService) List(ctx context.Context, p models.RestaurantListParams) (*models.ListResponse[models.Restaurant], error) {
	v, err := s.cache.GetOrCompute(ctx, listCacheKey(p), ListCacheTag, s.ttl, func(ctx context.Context) (any, error) {
		return s.list(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ListResponse[models.Restaurant]), nil
}

// InvalidateLists drops every cached list result. Exposed for the day the
// ingestion process grows a change notification.
func (s *RestaurantService) InvalidateLists() int {
	return s.cache.InvalidateTag(ListCacheTag)
}

// buildListQuery applies the filter criteria to the base join. Split out
// of list so the composed SQL can be asserted without a live store.
func (s *RestaurantService) buildListQuery(p models.RestaurantListParams) *bun.SelectQuery {
	q := s.baseQuery()

	if p.Keyword != "" {
		kw := "%" + p.Keyword + "%"
		q = q.Where("(rst.name ILIKE ? OR rst.address ILIKE ?)", kw, kw)
	}
	if p.Category != "" {
		q = q.Where("cat.name = ?", p.Category)
	}
	if len(p.Programs) > 0 {
		// With a program filter the recommendation match is required:
		// restaurants without one for any requested source drop out.
		// Without it the join stays optional and such restaurants are
		// still listed.
		q = q.Where(
			"EXISTS (SELECT 1 FROM restaurant_recommendations AS rr WHERE rr.restaurant_id = rst.id AND rr.source_id IN (?))",
			bun.In(p.Programs),
		)
	}

	return q
}

func (s *RestaurantService) list(ctx context.Context, p models.RestaurantListParams) (*models.ListResponse[models.Restaurant], error) {
	q := s.buildListQuery(p)

	// Exact total before pagination, for page indicators
	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count restaurants: %w", err)
	}

	q = q.OrderExpr("rst.created_at DESC").
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit)

	var rows []models.RestaurantRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	recs, err := s.loadRecommendations(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.Restaurant, 0, len(rows))
	for _, row := range rows {
		items = append(items, NormalizeRestaurant(row, recs[row.ID]))
	}

	return &models.ListResponse[models.Restaurant]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}, nil
}

// GetByID returns the full detail view for one non-deleted restaurant.
func (s *RestaurantService) GetByID(ctx context.Context, id string) (*models.RestaurantDetail, error) {
	row := new(models.RestaurantRow)
	err := s.baseQuery().
		Where("rst.id = ?", id).
		Where("rst.is_delete = ?", false).
		Limit(1).
		Scan(ctx, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}

	var menus []models.Menu
	err = s.db.NewSelect().
		Model(&menus).
		Where("mnu.restaurant_id = ?", id).
		OrderExpr("mnu.is_main DESC, mnu.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}

	var appRows []models.AppearanceRow
	err = s.db.NewSelect().
		TableExpr("restaurant_recommendations AS rr").
		Column("rr.id", "rr.restaurant_id", "rr.source_id", "rr.episode", "rr.air_date", "rr.youtube_link", "rr.featured_menu").
		ColumnExpr("src.name AS source_name").
		ColumnExpr("src.type AS source_type").
		ColumnExpr("src.description AS source_description").
		Join("LEFT JOIN sources AS src ON src.id = rr.source_id").
		Where("rr.restaurant_id = ?", id).
		OrderExpr("rr.air_date DESC NULLS LAST").
		Scan(ctx, &appRows)
	if err != nil {
		return nil, fmt.Errorf("load appearances: %w", err)
	}

	detail := NormalizeRestaurantDetail(*row, menus, appRows)
	return &detail, nil
}

// baseQuery selects restaurants with the joined category display name and
// the geography point rendered as GeoJSON for normalization. The raw
// location column itself is never selected.
func (s *RestaurantService) baseQuery() *bun.SelectQuery {
	return s.db.NewSelect().
		Model((*models.RestaurantRow)(nil)).
		Column("rst.id", "rst.name", "rst.address", "rst.road_address", "rst.phone",
			"rst.price_range", "rst.thumbnail_url", "rst.parking", "rst.is_delete", "rst.created_at").
		ColumnExpr("cat.name AS category_name").
		ColumnExpr("ST_AsGeoJSON(rst.location) AS geojson").
		Join("LEFT JOIN categories AS cat ON cat.id = rst.category_id")
}

// loadRecommendations fetches the source badges for a page of restaurants
// in one batched query.
func (s *RestaurantService) loadRecommendations(ctx context.Context, ids []string) (map[string][]models.Recommendation, error) {
	out := make(map[string][]models.Recommendation, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []models.RecommendationRow
	err := s.db.NewSelect().
		TableExpr("restaurant_recommendations AS rr").
		ColumnExpr("rr.restaurant_id").
		ColumnExpr("src.id AS source_id").
		ColumnExpr("src.name AS source_name").
		Join("JOIN sources AS src ON src.id = rr.source_id").
		Where("rr.restaurant_id IN (?)", bun.In(ids)).
		OrderExpr("src.name ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("load recommendations: %w", err)
	}

	for _, r := range rows {
		out[r.RestaurantID] = append(out[r.RestaurantID], models.Recommendation{
			Source: models.SourceRef{ID: r.SourceID, Name: r.SourceName},
		})
	}
	return out, nil
}
