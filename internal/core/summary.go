package core

// CategorySpend is one row of a per-category expense aggregation. A nil
// CategoryID marks the uncategorized bucket.
type CategorySpend struct {
	CategoryID *int64
	Name       string
	Color      *int64
	Amount     Money
}

// Summary is the per-window spend overview returned by /expenses/summary.
type Summary struct {
	Total      Money
	ByCategory []CategorySpend
}

// NewSummary totals the aggregated rows. Rows arrive already ordered by
// descending amount from the store.
func NewSummary(rows []CategorySpend) Summary {
	s := Summary{ByCategory: rows}
	for _, r := range rows {
		s.Total = s.Total.Add(r.Amount)
	}
	return s
}
