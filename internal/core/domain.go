package core

import (
	"errors"
	"strings"
)

const (
	Monthly BudgetPeriod = "MONTHLY"
	Weekly  BudgetPeriod = "WEEKLY"
	Yearly  BudgetPeriod = "YEARLY"
)

// UncategorizedName is the single synthetic bucket for expenses that carry
// no category reference. All of them collapse into one row.
const UncategorizedName = "Sin categoría"

type (
	// BudgetPeriod is informational only. Spend windows always come from the
	// budget's explicit start/end dates, never from the period.
	BudgetPeriod string

	// CategoryRef is the denormalized category snapshot embedded in expense
	// and budget payloads. Color is a packed 32-bit ARGB value.
	CategoryRef struct {
		ID    int64
		Name  string
		Color *int64
	}

	Category struct {
		ID       int64
		UserID   int64
		Name     string
		Color    *int64
		Keywords []string
	}

	// Expense holds a weak category reference: the category may have been
	// deleted since, in which case Category is nil and the expense counts
	// toward the uncategorized bucket.
	Expense struct {
		ID         int64
		UserID     int64
		Title      string
		Amount     Money
		Date       Date
		CategoryID *int64
		Category   *CategoryRef
	}

	Budget struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Limit      Money
		Period     BudgetPeriod
		StartDate  Date
		EndDate    Date
		Category   *CategoryRef
	}
)

var (
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPeriod   = errors.New("invalid budget period")
	ErrMissingWindow   = errors.New("missing start or end date")
	ErrInvalidLimit    = errors.New("limit amount must be positive")
	ErrMissingCategory = errors.New("missing category reference")
)

// ValidPeriod reports whether p is one of the enumerated budget periods.
func ValidPeriod(p BudgetPeriod) bool {
	switch p {
	case Monthly, Weekly, Yearly:
		return true
	}
	return false
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	if !ValidPeriod(b.Period) {
		return ErrInvalidPeriod
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrMissingWindow
	}
	return nil
}

// Ref returns the category's embeddable snapshot.
func (c Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Color: c.Color}
}
