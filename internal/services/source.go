package services

import (
	"context"
	"fmt"

	"matjip-map/internal/models"

	"github.com/uptrace/bun"
)

type SourceService struct {
	db *bun.DB
}

func NewSourceService(db *bun.DB) *SourceService {
	return &SourceService{db: db}
}

// ListSources returns the sources that recommend at least one restaurant,
// soft-deleted ones excluded, ordered by name.
func (s *SourceService) ListSources(ctx context.Context, keyword string) ([]models.SourceView, error) {
	q := s.db.NewSelect().
		TableExpr("sources AS src").
		ColumnExpr("src.id").
		ColumnExpr("src.name").
		ColumnExpr("src.type").
		Distinct().
		Join("JOIN restaurant_recommendations AS rr ON rr.source_id = src.id").
		Where("src.is_delete = ?", false)

	if keyword != "" {
		q = q.Where("src.name ILIKE ?", "%"+keyword+"%")
	}

	var rows []models.SourceView
	if err := q.OrderExpr("src.name ASC").Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if rows == nil {
		rows = []models.SourceView{}
	}
	return rows, nil
}

// ListPrograms returns the whole program catalog. Unlike /sources this
// reads every row, soft-delete flag included; see the per-endpoint notes
// in DESIGN.md before changing that.
func (s *SourceService) ListPrograms(ctx context.Context) (*models.CatalogResponse[models.Program], error) {
	var rows []models.Source
	err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("src.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}

	items := make([]models.Program, 0, len(rows))
	for _, r := range rows {
		p := models.Program{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
		}
		if r.Type != nil {
			p.Type = *r.Type
		}
		items = append(items, p)
	}

	return &models.CatalogResponse[models.Program]{
		Items: items,
		Total: len(items),
	}, nil
}
