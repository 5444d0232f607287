package core

// Window is the effective date range used for spend aggregation, after any
// caller-supplied override has been applied to the budget's own dates.
type Window struct {
	From Date
	To   Date
}

// WindowOverride carries optional per-bound replacements from the query
// string. A nil bound inherits the budget's own date for that side.
type WindowOverride struct {
	From *Date
	To   *Date
}

// ResolveWindow substitutes each bound independently: the override's from
// replaces start_date, the override's to replaces end_date, and either may
// be left alone. With activeOnly set, the budget is excluded entirely unless
// today falls inside the resulting window (inclusive on both ends); the
// test runs against the effective window, not the stored one.
//
// An inverted window (from > to after substitution) is returned as-is; the
// aggregation over an empty intersection yields zero spend downstream.
func ResolveWindow(b Budget, o WindowOverride, activeOnly bool, today Date) (Window, bool) {
	w := Window{From: b.StartDate, To: b.EndDate}
	if o.From != nil {
		w.From = *o.From
	}
	if o.To != nil {
		w.To = *o.To
	}
	if activeOnly && (today.Before(w.From) || today.After(w.To)) {
		return Window{}, false
	}
	return w, true
}
