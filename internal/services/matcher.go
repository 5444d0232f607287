package services

import (
	"context"
	"errors"
	"strings"

	"expendinator/internal/core"
	"expendinator/internal/storage"
)

// CategoryMatcher resolves a loose category reference (a numeric id, a
// free-text name, or neither) to the caller's canonical category.
type CategoryMatcher struct {
	store CategoryStore
}

func NewCategoryMatcher(store CategoryStore) *CategoryMatcher {
	return &CategoryMatcher{store: store}
}

// Resolve looks the reference up by id first; a found id wins outright and
// the name is ignored. An id that matches nothing for this user falls back
// to an exact name match. No match at all is a nil result, not an error:
// the expense just stays uncategorized. Keyword-based fuzzy matching is a
// declared follow-up, not something this does.
func (m *CategoryMatcher) Resolve(ctx context.Context, userID int64, id *int64, name string) (*core.CategoryRef, error) {
	if id != nil {
		cat, err := m.store.CategoryByID(ctx, userID, *id)
		if err == nil {
			ref := cat.Ref()
			return &ref, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	if strings.TrimSpace(name) != "" {
		cat, err := m.store.CategoryByName(ctx, userID, name)
		if err == nil {
			ref := cat.Ref()
			return &ref, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	return nil, nil
}
