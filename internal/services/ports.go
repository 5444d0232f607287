// Package services orchestrates the domain logic between the HTTP layer,
// the SQLite store and the event publisher.
package services

import (
	"context"

	"expendinator/internal/core"
)

// CategoryStore is the category query/write contract the services need.
// *storage.Repository satisfies it; tests use in-memory fakes.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *core.Category) error
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	CategoryByID(ctx context.Context, userID, id int64) (*core.Category, error)
	CategoryByName(ctx context.Context, userID int64, name string) (*core.Category, error)
	DeleteCategory(ctx context.Context, userID, id int64) error
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e *core.Expense) error
	ExpenseByID(ctx context.Context, userID, id int64) (*core.Expense, error)
	ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error)
	UpdateExpense(ctx context.Context, e *core.Expense) error
	DeleteExpense(ctx context.Context, userID, id int64) error
	SummarizeExpenses(ctx context.Context, userID int64, from, to *core.Date) ([]core.CategorySpend, error)
	SumCategoryExpenses(ctx context.Context, userID, categoryID int64, w core.Window) (core.Money, error)
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, b *core.Budget) error
	BudgetByID(ctx context.Context, userID, id int64) (*core.Budget, error)
	ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b *core.Budget) error
	DeleteBudget(ctx context.Context, userID, id int64) error
}

// EventPublisher hands domain events to the notification collaborator.
// Publishing is best-effort: a broker outage never fails the request.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
	PublishExpenseDeleted(ctx context.Context, userID, expenseID int64) error
}
