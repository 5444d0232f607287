package core

import "testing"

func testBudget() Budget {
	return Budget{
		ID:         1,
		CategoryID: 7,
		Limit:      Money{Cents: 1000000},
		Period:     Monthly,
		StartDate:  NewDate(2025, 3, 1),
		EndDate:    NewDate(2025, 3, 31),
		Category:   &CategoryRef{ID: 7, Name: "Transporte"},
	}
}

func datePtr(d Date) *Date { return &d }

func TestResolveWindowNoOverride(t *testing.T) {
	b := testBudget()
	w, ok := ResolveWindow(b, WindowOverride{}, false, NewDate(2025, 6, 1))
	if !ok {
		t.Fatal("expected inclusion without activeOnly")
	}
	if w.From.String() != "2025-03-01" || w.To.String() != "2025-03-31" {
		t.Fatalf("expected budget's own window, got %s..%s", w.From, w.To)
	}
}

func TestResolveWindowPerBoundOverride(t *testing.T) {
	b := testBudget()

	w, ok := ResolveWindow(b, WindowOverride{From: datePtr(NewDate(2025, 3, 10))}, false, Date{})
	if !ok || w.From.String() != "2025-03-10" || w.To.String() != "2025-03-31" {
		t.Fatalf("from-only override: got %s..%s (ok=%v)", w.From, w.To, ok)
	}

	w, ok = ResolveWindow(b, WindowOverride{To: datePtr(NewDate(2025, 3, 15))}, false, Date{})
	if !ok || w.From.String() != "2025-03-01" || w.To.String() != "2025-03-15" {
		t.Fatalf("to-only override: got %s..%s (ok=%v)", w.From, w.To, ok)
	}
}

func TestResolveWindowActiveOnly(t *testing.T) {
	b := testBudget()
	cases := []struct {
		today    Date
		included bool
	}{
		{NewDate(2025, 3, 15), true},
		{NewDate(2025, 3, 1), true},  // inclusive start
		{NewDate(2025, 3, 31), true}, // inclusive end
		{NewDate(2025, 2, 28), false},
		{NewDate(2025, 4, 1), false},
		{NewDate(2025, 6, 1), false},
	}
	for _, tc := range cases {
		_, ok := ResolveWindow(b, WindowOverride{}, true, tc.today)
		if ok != tc.included {
			t.Fatalf("today=%s expected included=%v, got %v", tc.today, tc.included, ok)
		}
	}
}

func TestResolveWindowActiveOnlyUsesEffectiveWindow(t *testing.T) {
	b := testBudget()
	today := NewDate(2025, 6, 1)

	// Outside the stored window, but the override moves the window over today.
	override := WindowOverride{
		From: datePtr(NewDate(2025, 5, 1)),
		To:   datePtr(NewDate(2025, 6, 30)),
	}
	if _, ok := ResolveWindow(b, override, true, today); !ok {
		t.Fatal("expected inclusion against the overridden window")
	}

	// Inside the stored window, but the override moves it away from today.
	today = NewDate(2025, 3, 15)
	override = WindowOverride{To: datePtr(NewDate(2025, 3, 10))}
	if _, ok := ResolveWindow(b, override, true, today); ok {
		t.Fatal("expected exclusion against the overridden window")
	}
}

func TestResolveWindowInvertedPassesThrough(t *testing.T) {
	b := testBudget()
	override := WindowOverride{From: datePtr(NewDate(2025, 4, 10))}
	w, ok := ResolveWindow(b, override, false, Date{})
	if !ok {
		t.Fatal("inverted window must not exclude without activeOnly")
	}
	if !w.From.After(w.To) {
		t.Fatalf("expected inverted window, got %s..%s", w.From, w.To)
	}
}
