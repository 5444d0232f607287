package services

import (
	"context"
	"errors"
	"sync"

	"expendinator/internal/core"
	"expendinator/internal/storage"
)

// fakeCategoryStore keeps categories in a map, enough for matcher and
// category service tests.
type fakeCategoryStore struct {
	nextID     int64
	categories map[int64]core.Category
	failWith   error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{nextID: 1, categories: map[int64]core.Category{}}
}

func (s *fakeCategoryStore) add(userID int64, name string) core.Category {
	c := core.Category{ID: s.nextID, UserID: userID, Name: name, Keywords: []string{}}
	s.categories[c.ID] = c
	s.nextID++
	return c
}

func (s *fakeCategoryStore) CreateCategory(ctx context.Context, c *core.Category) error {
	if s.failWith != nil {
		return s.failWith
	}
	c.ID = s.nextID
	s.categories[c.ID] = *c
	s.nextID++
	return nil
}

func (s *fakeCategoryStore) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []core.Category
	for id := int64(1); id < s.nextID; id++ {
		if c, ok := s.categories[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCategoryStore) CategoryByID(ctx context.Context, userID, id int64) (*core.Category, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (s *fakeCategoryStore) CategoryByName(ctx context.Context, userID int64, name string) (*core.Category, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	for id := int64(1); id < s.nextID; id++ {
		if c, ok := s.categories[id]; ok && c.UserID == userID && c.Name == name {
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeCategoryStore) DeleteCategory(ctx context.Context, userID, id int64) error {
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// fakeExpenseStore records created expenses and serves canned category sums.
type fakeExpenseStore struct {
	mu      sync.Mutex
	nextID  int64
	created []core.Expense
	sums    map[int64]int64 // categoryID -> cents
	sumErr  error
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{nextID: 1, sums: map[int64]int64{}}
}

func (s *fakeExpenseStore) CreateExpense(ctx context.Context, e *core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.created = append(s.created, *e)
	return nil
}

func (s *fakeExpenseStore) ExpenseByID(ctx context.Context, userID, id int64) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.created {
		if e.ID == id && e.UserID == userID {
			out := e
			return &out, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeExpenseStore) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.created {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeExpenseStore) UpdateExpense(ctx context.Context, e *core.Expense) error {
	return errors.New("not implemented in fake")
}

func (s *fakeExpenseStore) DeleteExpense(ctx context.Context, userID, id int64) error {
	return nil
}

func (s *fakeExpenseStore) SummarizeExpenses(ctx context.Context, userID int64, from, to *core.Date) ([]core.CategorySpend, error) {
	return nil, nil
}

func (s *fakeExpenseStore) SumCategoryExpenses(ctx context.Context, userID, categoryID int64, w core.Window) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sumErr != nil {
		return core.Money{}, s.sumErr
	}
	return core.Money{Cents: s.sums[categoryID]}, nil
}

// fakeBudgetStore returns a fixed budget list.
type fakeBudgetStore struct {
	budgets []core.Budget
}

func (s *fakeBudgetStore) CreateBudget(ctx context.Context, b *core.Budget) error { return nil }

func (s *fakeBudgetStore) BudgetByID(ctx context.Context, userID, id int64) (*core.Budget, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeBudgetStore) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	return s.budgets, nil
}

func (s *fakeBudgetStore) UpdateBudget(ctx context.Context, b *core.Budget) error { return nil }

func (s *fakeBudgetStore) DeleteBudget(ctx context.Context, userID, id int64) error { return nil }

// fakePublisher counts events.
type fakePublisher struct {
	mu      sync.Mutex
	created int
	deleted int
	fail    error
}

func (p *fakePublisher) PublishExpenseCreated(ctx context.Context, e core.Expense) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.created++
	return nil
}

func (p *fakePublisher) PublishExpenseDeleted(ctx context.Context, userID, expenseID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.deleted++
	return nil
}
