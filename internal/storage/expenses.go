package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expendinator/internal/core"
)

const expenseSelect = `
	SELECT e.id, e.title, e.amount_cents, e.date, e.category_id,
	       c.id, c.name, c.color
	  FROM expenses e
	  LEFT JOIN categories c ON c.id = e.category_id`

// CreateExpense inserts the expense and fills in its id and category
// snapshot.
func (r *Repository) CreateExpense(ctx context.Context, e *core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, title, amount_cents, date, category_id)
		 VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Title, e.Amount.Cents, e.Date.String(), nullableInt(e.CategoryID))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("expense id: %w", err)
	}

	created, err := r.ExpenseByID(ctx, e.UserID, id)
	if err != nil {
		return fmt.Errorf("reload expense: %w", err)
	}
	*e = *created
	return nil
}

// ExpenseByID fetches one expense with its category snapshot.
func (r *Repository) ExpenseByID(ctx context.Context, userID, id int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ? AND e.user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	e.UserID = userID
	return e, nil
}

// ListExpenses returns all of the user's expenses, newest date first.
func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		expenseSelect+` WHERE e.user_id = ? ORDER BY e.date DESC, e.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		e.UserID = userID
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

// UpdateExpense rewrites title, amount, date and category of an owned
// expense and reloads the row. ErrNotFound when the expense is not the
// caller's.
func (r *Repository) UpdateExpense(ctx context.Context, e *core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount_cents = ?, date = ?, category_id = ?
		  WHERE id = ? AND user_id = ?`,
		e.Title, e.Amount.Cents, e.Date.String(), nullableInt(e.CategoryID), e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	updated, err := r.ExpenseByID(ctx, e.UserID, e.ID)
	if err != nil {
		return fmt.Errorf("reload expense: %w", err)
	}
	*e = *updated
	return nil
}

func (r *Repository) DeleteExpense(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SummarizeExpenses aggregates spend per category inside the optional
// inclusive window. Uncategorized expenses collapse into a single
// 'Sin categoría' row. Ordering is by summed amount descending, then by
// category id with the uncategorized bucket last, so output never depends
// on scan order.
func (r *Repository) SummarizeExpenses(ctx context.Context, userID int64, from, to *core.Date) ([]core.CategorySpend, error) {
	query := `
		SELECT e.category_id,
		       COALESCE(c.name, ?) AS category_name,
		       c.color AS category_color,
		       SUM(e.amount_cents) AS amount_cents
		  FROM expenses e
		  LEFT JOIN categories c ON c.id = e.category_id
		 WHERE e.user_id = ?`
	args := []any{core.UncategorizedName, userID}
	if from != nil {
		query += ` AND e.date >= ?`
		args = append(args, from.String())
	}
	if to != nil {
		query += ` AND e.date <= ?`
		args = append(args, to.String())
	}
	query += `
		 GROUP BY e.category_id
		 ORDER BY amount_cents DESC, e.category_id IS NULL ASC, e.category_id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}
	defer rows.Close()

	result := []core.CategorySpend{}
	for rows.Next() {
		var (
			spend      core.CategorySpend
			categoryID sql.NullInt64
			color      sql.NullInt64
			cents      int64
		)
		if err := rows.Scan(&categoryID, &spend.Name, &color, &cents); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		spend.CategoryID = fromNullInt(categoryID)
		spend.Color = fromNullInt(color)
		spend.Amount = core.Money{Cents: cents}
		result = append(result, spend)
	}
	return result, rows.Err()
}

// SumCategoryExpenses totals one category's spend inside the inclusive
// window. An inverted window simply matches nothing and sums to zero.
func (r *Repository) SumCategoryExpenses(ctx context.Context, userID, categoryID int64, w core.Window) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		  FROM expenses
		 WHERE user_id = ? AND category_id = ? AND date >= ? AND date <= ?`,
		userID, categoryID, w.From.String(), w.To.String()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum category expenses: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*core.Expense, error) {
	var (
		e        core.Expense
		dateStr  string
		cents    int64
		expCatID sql.NullInt64
		catID    sql.NullInt64
		catName  sql.NullString
		catColor sql.NullInt64
	)
	if err := row.Scan(&e.ID, &e.Title, &cents, &dateStr, &expCatID, &catID, &catName, &catColor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	e.Amount = core.Money{Cents: cents}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored expense date %q: %w", dateStr, err)
	}
	e.Date = date
	e.CategoryID = fromNullInt(expCatID)
	if catID.Valid {
		e.Category = &core.CategoryRef{
			ID:    catID.Int64,
			Name:  catName.String,
			Color: fromNullInt(catColor),
		}
	}
	return &e, nil
}
