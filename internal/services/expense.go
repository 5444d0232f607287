package services

import (
	"context"
	"log/slog"

	"expendinator/internal/core"
)

// ExpenseService persists expenses and emits best-effort events for the
// notification collaborator.
type ExpenseService struct {
	store  ExpenseStore
	events EventPublisher
}

func NewExpenseService(store ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// Create validates and persists the expense, then publishes an
// expense.created event. The event is fire-and-forget: the expense is
// already committed when publishing fails.
func (s *ExpenseService) Create(ctx context.Context, e *core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return err
	}
	s.publishCreated(ctx, *e)
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id int64) (*core.Expense, error) {
	return s.store.ExpenseByID(ctx, userID, id)
}

func (s *ExpenseService) List(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID)
}

func (s *ExpenseService) Update(ctx context.Context, e *core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.store.UpdateExpense(ctx, e)
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.PublishExpenseDeleted(ctx, userID, id); err != nil {
			slog.WarnContext(ctx, "Failed to publish expense.deleted event",
				"component", "expense", "user_id", userID, "expense_id", id, "error", err)
		}
	}
	return nil
}

// Summary aggregates the user's spend per category inside the optional
// inclusive window. Zero matching expenses is a valid empty summary.
func (s *ExpenseService) Summary(ctx context.Context, userID int64, from, to *core.Date) (core.Summary, error) {
	rows, err := s.store.SummarizeExpenses(ctx, userID, from, to)
	if err != nil {
		return core.Summary{}, err
	}
	return core.NewSummary(rows), nil
}

func (s *ExpenseService) publishCreated(ctx context.Context, e core.Expense) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseCreated(ctx, e); err != nil {
		slog.WarnContext(ctx, "Failed to publish expense.created event",
			"component", "expense", "user_id", e.UserID, "expense_id", e.ID, "error", err)
	}
}
