package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"expendinator/internal/core"
)

// CreateCategory inserts the category and its keyword rows in one
// transaction. Keywords must never exist without a committed category, so
// any failure rolls the whole thing back.
func (r *Repository) CreateCategory(ctx context.Context, c *core.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin category tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, color) VALUES (?, ?, ?)`,
		c.UserID, c.Name, nullableInt(c.Color))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("category id: %w", err)
	}

	for _, kw := range c.Keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_keywords (category_id, keyword) VALUES (?, ?)`,
			id, kw); err != nil {
			return fmt.Errorf("insert keyword: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category tx: %w", err)
	}
	c.ID = id
	return nil
}

// ListCategories returns the user's categories ordered by name, each with
// its keywords aggregated.
func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.color,
		       COALESCE(GROUP_CONCAT(k.keyword, ','), '') AS keywords
		  FROM categories c
		  LEFT JOIN category_keywords k ON k.category_id = c.id
		 WHERE c.user_id = ?
		 GROUP BY c.id
		 ORDER BY c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var (
			c        core.Category
			color    sql.NullInt64
			keywords string
		)
		if err := rows.Scan(&c.ID, &c.Name, &color, &keywords); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.UserID = userID
		c.Color = fromNullInt(color)
		if keywords != "" {
			c.Keywords = strings.Split(keywords, ",")
		} else {
			c.Keywords = []string{}
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryByID looks a category up by (user, id). A miss is ErrNotFound.
func (r *Repository) CategoryByID(ctx context.Context, userID, id int64) (*core.Category, error) {
	return r.scanCategory(r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM categories WHERE user_id = ? AND id = ?`,
		userID, id), userID)
}

// CategoryByName looks a category up by (user, exact name).
func (r *Repository) CategoryByName(ctx context.Context, userID int64, name string) (*core.Category, error) {
	return r.scanCategory(r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM categories WHERE user_id = ? AND name = ? LIMIT 1`,
		userID, name), userID)
}

func (r *Repository) scanCategory(row *sql.Row, userID int64) (*core.Category, error) {
	var (
		c     core.Category
		color sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Name, &color); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.UserID = userID
	c.Color = fromNullInt(color)
	return &c, nil
}

// DeleteCategory removes the category, its keywords and nulls out the weak
// references from expenses, all in one transaction. Budgets pointing at the
// category are left behind on purpose: the usage report skips orphans.
func (r *Repository) DeleteCategory(ctx context.Context, userID, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM category_keywords WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("delete keywords: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE expenses SET category_id = NULL WHERE category_id = ? AND user_id = ?`,
		id, userID); err != nil {
		return fmt.Errorf("detach expenses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

// SeedDefaultCategories creates the default category set for a fresh user.
// Called once right after registration by the auth service.
func (r *Repository) SeedDefaultCategories(ctx context.Context, userID int64) error {
	for _, seed := range core.DefaultCategories {
		color := seed.Color
		c := core.Category{
			UserID:   userID,
			Name:     seed.Name,
			Color:    &color,
			Keywords: seed.Keywords,
		}
		if err := r.CreateCategory(ctx, &c); err != nil {
			return fmt.Errorf("seed category %q: %w", seed.Name, err)
		}
	}
	slog.InfoContext(ctx, "Seeded default categories",
		"user_id", userID, "count", len(core.DefaultCategories))
	return nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
