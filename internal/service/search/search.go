package search

import (
	"context"
	"strings"

	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	"github.com/Skotchmaster/foodhub/internal/util"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

// Index is where menu items are made searchable.
type Index interface {
	IndexItem(ctx context.Context, item models.MenuItem) error
	DeleteItem(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error)
}

// DBIndex searches the menu table directly; writes are no-ops because the
// table is already the source of truth.
type DBIndex struct {
	Repo *repo.GormRepo
}

func (DBIndex) IndexItem(context.Context, models.MenuItem) error { return nil }
func (DBIndex) DeleteItem(context.Context, string) error          { return nil }

func (d DBIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error) {
	return d.Repo.SearchMenu(ctx, query, from, size)
}

type Results struct {
	Items []models.MenuItem `json:"data"`
	Meta  util.PageMeta     `json:"meta"`
}

type SearchService struct {
	Index Index
}

func (s *SearchService) Search(ctx context.Context, rawQ string, page, size int) (Results, error) {
	q := strings.TrimSpace(rawQ)
	offset, limit := util.Calculate(page, size)
	if q == "" {
		return Results{Items: []models.MenuItem{}, Meta: util.Meta(page, offset, limit, 0)}, nil
	}

	total, items, err := s.Index.Search(ctx, q, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("menu_search_failed", "query", q, "error", err)
		return Results{}, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return Results{Items: items, Meta: util.Meta(page, offset, limit, total)}, nil
}

var _ Index = DBIndex{}
