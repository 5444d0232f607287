package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"expendinator/internal/core"
)

// spendConcurrency caps the parallel per-budget SUM queries.
const spendConcurrency = 4

// UsageService produces the budget usage report: per budget, the spend
// inside the effective window and the derived percent/remaining/over trio.
type UsageService struct {
	budgets  BudgetStore
	expenses ExpenseStore

	// now is injectable so tests can pin "today" for active-window checks.
	now func() core.Date
}

func NewUsageService(budgets BudgetStore, expenses ExpenseStore) *UsageService {
	return &UsageService{budgets: budgets, expenses: expenses, now: core.Today}
}

// WithNow overrides the clock. Test hook.
func (s *UsageService) WithNow(now func() core.Date) *UsageService {
	s.now = now
	return s
}

// Usage computes the report for every budget of the user, in the store's
// stable order (start date desc, category name asc).
//
// Budgets whose category has been deleted are a data-integrity wart, not a
// request failure: they are logged and skipped. With activeOnly set, budgets
// whose effective window does not contain today are dropped entirely. The
// spend sums are independent of each other, so they run concurrently.
func (s *UsageService) Usage(ctx context.Context, userID int64, activeOnly bool, override core.WindowOverride) ([]core.BudgetUsage, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.now()

	type entry struct {
		budget core.Budget
		window core.Window
	}
	var entries []entry
	for _, b := range budgets {
		if b.Category == nil {
			slog.WarnContext(ctx, "Skipping budget with orphaned category reference",
				"component", "usage", "user_id", userID,
				"budget_id", b.ID, "category_id", b.CategoryID)
			continue
		}
		window, included := core.ResolveWindow(b, override, activeOnly, today)
		if !included {
			continue
		}
		entries = append(entries, entry{budget: b, window: window})
	}

	report := make([]core.BudgetUsage, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spendConcurrency)
	for i, e := range entries {
		g.Go(func() error {
			spent, err := s.expenses.SumCategoryExpenses(gctx, userID, e.budget.CategoryID, e.window)
			if err != nil {
				return err
			}
			report[i] = core.NewBudgetUsage(e.budget, e.window, spent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return report, nil
}
