package core

import "math"

// BudgetUsage is the derived, read-only view of a budget against its spend
// in the effective window. Percent, remaining and over are always computed
// from spent and the limit, never stored independently.
type BudgetUsage struct {
	BudgetID       int64
	Limit          Money
	Period         BudgetPeriod
	StartDate      Date
	EndDate        Date
	EffectiveStart Date
	EffectiveEnd   Date
	Spent          Money
	PercentUsed    float64
	Remaining      Money
	Over           bool
	Category       CategoryRef
}

// NewBudgetUsage derives the usage view for one budget.
//
// percent_used is spent/limit rounded to 4 decimals, and 0 when the limit is
// not positive, so there is no divide-by-zero path. over stays a strict
// comparison, so spending exactly the limit is not over, and a zero-limit
// budget with any spend is.
func NewBudgetUsage(b Budget, w Window, spent Money) BudgetUsage {
	u := BudgetUsage{
		BudgetID:       b.ID,
		Limit:          b.Limit,
		Period:         b.Period,
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		EffectiveStart: w.From,
		EffectiveEnd:   w.To,
		Spent:          spent,
		Over:           spent.Cents > b.Limit.Cents,
	}
	if b.Category != nil {
		u.Category = *b.Category
	}
	if b.Limit.Cents > 0 {
		ratio := float64(spent.Cents) / float64(b.Limit.Cents)
		u.PercentUsed = math.Round(ratio*10000) / 10000
	}
	if remaining := b.Limit.Cents - spent.Cents; remaining > 0 {
		u.Remaining = Money{Cents: remaining}
	}
	return u
}
