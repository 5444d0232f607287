package services

import (
	"context"
	"log/slog"
	"strings"

	"expendinator/internal/core"
)

// ReceiptItemInput is one reviewed (possibly user-edited) line posted to the
// OCR confirm endpoint. AmountValid is false when the client sent something
// that is not a finite number; those items get skipped, not rejected.
type ReceiptItemInput struct {
	Title        string
	Amount       float64
	AmountValid  bool
	Date         string
	CategoryID   *int64
	CategoryName string
}

// OcrService backs the mocked OCR flow: generating synthetic receipts for
// the review UI and ingesting the confirmed items as real expenses.
type OcrService struct {
	categories *CategoryService
	expenses   ExpenseStore
	matcher    *CategoryMatcher
	events     EventPublisher
	generator  *core.ReceiptGenerator

	now func() core.Date
}

func NewOcrService(categories *CategoryService, expenses ExpenseStore, matcher *CategoryMatcher, events EventPublisher, generator *core.ReceiptGenerator) *OcrService {
	return &OcrService{
		categories: categories,
		expenses:   expenses,
		matcher:    matcher,
		events:     events,
		generator:  generator,
		now:        core.Today,
	}
}

// WithNow overrides the clock. Test hook.
func (s *OcrService) WithNow(now func() core.Date) *OcrService {
	s.now = now
	return s
}

// MockReceipt builds a synthetic receipt from the user's own categories,
// falling back to the default seed set for users who have none yet.
func (s *OcrService) MockReceipt(ctx context.Context, userID int64) (core.Receipt, error) {
	cats, err := s.categories.List(ctx, userID)
	if err != nil {
		return core.Receipt{}, err
	}

	var templates []core.CategoryTemplate
	if len(cats) > 0 {
		templates = make([]core.CategoryTemplate, len(cats))
		for i, cat := range cats {
			id := cat.ID
			templates[i] = core.CategoryTemplate{
				ID:           &id,
				Name:         cat.Name,
				SampleTitles: core.SampleTitles(cat.Name),
			}
		}
	} else {
		templates = make([]core.CategoryTemplate, len(core.DefaultCategories))
		for i, seed := range core.DefaultCategories {
			templates[i] = core.CategoryTemplate{
				Name:         seed.Name,
				SampleTitles: core.SampleTitles(seed.Name),
			}
		}
	}

	return s.generator.Generate(templates, s.now()), nil
}

// Confirm persists the reviewed items best-effort: items that fail
// validation are skipped silently, items that fail in the store abort the
// request. The returned slice is exactly the subset that was persisted.
func (s *OcrService) Confirm(ctx context.Context, userID int64, items []ReceiptItemInput) ([]core.Expense, error) {
	created := make([]core.Expense, 0, len(items))
	skipped := 0

	for _, it := range items {
		if !it.AmountValid {
			skipped++
			continue
		}

		date := s.now()
		if raw := strings.TrimSpace(it.Date); raw != "" {
			parsed, err := core.NormalizeDateInput(raw)
			if err != nil {
				skipped++
				continue
			}
			date = parsed
		}

		expense := core.Expense{
			UserID: userID,
			Title:  strings.TrimSpace(it.Title),
			Amount: core.MoneyFromFloat(it.Amount),
			Date:   date,
		}
		if err := expense.Validate(); err != nil {
			skipped++
			continue
		}

		// Category resolution failures other than "no match" are storage
		// faults and propagate; an unresolved reference just means the
		// expense lands uncategorized.
		ref, err := s.matcher.Resolve(ctx, userID, it.CategoryID, it.CategoryName)
		if err != nil {
			return nil, err
		}
		if ref != nil {
			id := ref.ID
			expense.CategoryID = &id
		}

		if err := s.expenses.CreateExpense(ctx, &expense); err != nil {
			return nil, err
		}
		if s.events != nil {
			if err := s.events.PublishExpenseCreated(ctx, expense); err != nil {
				slog.WarnContext(ctx, "Failed to publish expense.created event",
					"component", "ocr", "user_id", userID, "expense_id", expense.ID, "error", err)
			}
		}
		created = append(created, expense)
	}

	slog.InfoContext(ctx, "OCR confirm processed",
		"component", "ocr", "operation", "confirm",
		"user_id", userID, "received", len(items), "created", len(created), "skipped", skipped)
	return created, nil
}
