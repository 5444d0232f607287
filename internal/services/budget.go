package services

import (
	"context"
	"log/slog"

	"expendinator/internal/core"
)

// BudgetService owns budget CRUD. The store verifies that the referenced
// category exists and belongs to the user on create and update.
type BudgetService struct {
	store BudgetStore
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

func (s *BudgetService) Create(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Budget created",
		"component", "budget", "operation", "create",
		"user_id", b.UserID, "budget_id", b.ID, "category_id", b.CategoryID)
	return nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id int64) (*core.Budget, error) {
	return s.store.BudgetByID(ctx, userID, id)
}

func (s *BudgetService) List(ctx context.Context, userID int64) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx, userID)
}

func (s *BudgetService) Update(ctx context.Context, b *core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return s.store.UpdateBudget(ctx, b)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.DeleteBudget(ctx, userID, id)
}
