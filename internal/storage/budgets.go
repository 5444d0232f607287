package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expendinator/internal/core"
)

const budgetSelect = `
	SELECT b.id, b.category_id, b.limit_cents, b.period, b.start_date, b.end_date,
	       c.id, c.name, c.color
	  FROM budgets b
	  LEFT JOIN categories c ON c.id = b.category_id`

// CreateBudget inserts the budget and reloads it with its category
// snapshot. The category must exist for the user.
func (r *Repository) CreateBudget(ctx context.Context, b *core.Budget) error {
	if _, err := r.CategoryByID(ctx, b.UserID, b.CategoryID); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, limit_cents, period, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.UserID, b.CategoryID, b.Limit.Cents, string(b.Period),
		b.StartDate.String(), b.EndDate.String())
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("budget id: %w", err)
	}

	created, err := r.BudgetByID(ctx, b.UserID, id)
	if err != nil {
		return fmt.Errorf("reload budget: %w", err)
	}
	*b = *created
	return nil
}

// BudgetByID fetches one owned budget. ErrNotFound when it is missing or
// belongs to someone else.
func (r *Repository) BudgetByID(ctx context.Context, userID, id int64) (*core.Budget, error) {
	row := r.db.QueryRowContext(ctx, budgetSelect+` WHERE b.id = ? AND b.user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.UserID = userID
	return b, nil
}

// ListBudgets returns the user's budgets ordered by descending start date
// then ascending category name. The dashboard relies on this being stable.
// Budgets whose category has been deleted come back with a nil Category.
func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		budgetSelect+` WHERE b.user_id = ? ORDER BY b.start_date DESC, c.name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		b.UserID = userID
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

// UpdateBudget rewrites all mutable fields of an owned budget.
func (r *Repository) UpdateBudget(ctx context.Context, b *core.Budget) error {
	if _, err := r.CategoryByID(ctx, b.UserID, b.CategoryID); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		    SET category_id = ?, limit_cents = ?, period = ?, start_date = ?, end_date = ?
		  WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Limit.Cents, string(b.Period),
		b.StartDate.String(), b.EndDate.String(), b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update budget result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	updated, err := r.BudgetByID(ctx, b.UserID, b.ID)
	if err != nil {
		return fmt.Errorf("reload budget: %w", err)
	}
	*b = *updated
	return nil
}

func (r *Repository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (*core.Budget, error) {
	var (
		b        core.Budget
		period   string
		cents    int64
		startStr string
		endStr   string
		catID    sql.NullInt64
		catName  sql.NullString
		catColor sql.NullInt64
	)
	if err := row.Scan(&b.ID, &b.CategoryID, &cents, &period, &startStr, &endStr,
		&catID, &catName, &catColor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan budget: %w", err)
	}
	b.Limit = core.Money{Cents: cents}
	b.Period = core.BudgetPeriod(period)

	start, err := core.ParseDate(startStr)
	if err != nil {
		return nil, fmt.Errorf("stored budget start date %q: %w", startStr, err)
	}
	end, err := core.ParseDate(endStr)
	if err != nil {
		return nil, fmt.Errorf("stored budget end date %q: %w", endStr, err)
	}
	b.StartDate, b.EndDate = start, end

	if catID.Valid {
		b.Category = &core.CategoryRef{
			ID:    catID.Int64,
			Name:  catName.String,
			Color: fromNullInt(catColor),
		}
	}
	return &b, nil
}
