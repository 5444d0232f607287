package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"expendinator/internal/cache"
	"expendinator/internal/core"
)

// CategoryService owns category CRUD and keeps a short-lived per-user cache
// of the category list, which the mock OCR generator hits on every request.
type CategoryService struct {
	store CategoryStore
	cache *cache.LRUCache[[]core.Category]
}

func NewCategoryService(store CategoryStore, c *cache.LRUCache[[]core.Category]) *CategoryService {
	return &CategoryService{store: store, cache: c}
}

// Create validates the name and persists the category together with its
// keyword rows in a single transaction.
func (s *CategoryService) Create(ctx context.Context, userID int64, name string, color *int64, keywords []string) (core.Category, error) {
	c := core.Category{
		UserID:   userID,
		Name:     strings.TrimSpace(name),
		Color:    color,
		Keywords: keywords,
	}
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.store.CreateCategory(ctx, &c); err != nil {
		return core.Category{}, err
	}
	s.invalidate(userID)
	slog.InfoContext(ctx, "Category created",
		"component", "category", "operation", "create",
		"user_id", userID, "category_id", c.ID, "keywords", len(c.Keywords))
	return c, nil
}

// List returns the user's categories, served from cache when fresh.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	key := cacheKey(userID)
	if s.cache != nil {
		if cats, ok := s.cache.Get(key); ok {
			return cats, nil
		}
	}
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(key, cats)
	}
	return cats, nil
}

// Delete removes an owned category. Expenses pointing at it lose the
// reference; budgets keep a dangling one and get skipped by the usage
// report.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)
	slog.InfoContext(ctx, "Category deleted",
		"component", "category", "operation", "delete",
		"user_id", userID, "category_id", id)
	return nil
}

func (s *CategoryService) invalidate(userID int64) {
	if s.cache != nil {
		s.cache.Delete(cacheKey(userID))
	}
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
