package core

import (
	"math/rand"
	"sort"
)

// CategoryTemplate is one entry of the pool the receipt generator picks
// from: a real category of the user, or a default one (nil ID) when the
// user has none yet.
type CategoryTemplate struct {
	ID           *int64
	Name         string
	SampleTitles []string
}

// ReceiptItem is a synthetic, not-yet-persisted line of a mock receipt.
type ReceiptItem struct {
	Title        string
	Amount       Money
	CategoryID   *int64
	CategoryName string
	Date         Date
}

// ReceiptLine is the compact item form inside a per-category group.
type ReceiptLine struct {
	Title  string
	Amount Money
}

// ReceiptGroup aggregates receipt items by category name, largest spend
// first.
type ReceiptGroup struct {
	Category   string
	Amount     Money
	ItemsCount int
	Items      []ReceiptLine
}

// Receipt is the full mock OCR result handed to the review UI.
type Receipt struct {
	ReceiptID  string
	Currency   string
	Date       Date
	Items      []ReceiptItem
	ByCategory []ReceiptGroup
	Total      Money
}

const receiptIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ReceiptGenerator produces synthetic itemized receipts. The randomness
// source is injected so tests can pin the clustering decision and amounts
// with a fixed seed.
type ReceiptGenerator struct {
	rng *rand.Rand
}

func NewReceiptGenerator(rng *rand.Rand) *ReceiptGenerator {
	return &ReceiptGenerator{rng: rng}
}

// Generate builds a receipt of 1 to 3 items dated today. Half the receipts
// are "clustered" (every item from one category, like a single-store
// purchase), the rest pick a category per item.
func (g *ReceiptGenerator) Generate(templates []CategoryTemplate, today Date) Receipt {
	pool := templates
	if len(pool) == 0 {
		pool = []CategoryTemplate{{Name: UncategorizedName, SampleTitles: SampleTitles("Producto")}}
	}

	clustered := g.rng.Float64() < 0.5
	count := 1 + g.rng.Intn(3)

	items := make([]ReceiptItem, 0, count)
	cat := pool[g.rng.Intn(len(pool))]
	for i := 0; i < count; i++ {
		if !clustered {
			cat = pool[g.rng.Intn(len(pool))]
		}
		items = append(items, ReceiptItem{
			Title:        cat.SampleTitles[g.rng.Intn(len(cat.SampleTitles))],
			Amount:       g.randomAmount(),
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			Date:         today,
		})
	}

	receipt := Receipt{
		ReceiptID:  "mock-" + g.randomToken(6),
		Currency:   "ARS",
		Date:       today,
		Items:      items,
		ByCategory: groupReceiptItems(items),
	}
	for _, it := range items {
		receipt.Total = receipt.Total.Add(it.Amount)
	}
	return receipt
}

// randomAmount picks an integer peso value in [1200, 9800) and adds sub-peso
// jitter, so items look like real scanned prices.
func (g *ReceiptGenerator) randomAmount() Money {
	pesos := int64(1200 + g.rng.Intn(8600))
	jitter := int64(g.rng.Intn(100))
	return Money{Cents: pesos*100 + jitter}
}

func (g *ReceiptGenerator) randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = receiptIDAlphabet[g.rng.Intn(len(receiptIDAlphabet))]
	}
	return string(b)
}

// groupReceiptItems groups by category name (not id), sums in cents and
// sorts by descending group amount, first-seen order breaking ties.
func groupReceiptItems(items []ReceiptItem) []ReceiptGroup {
	index := make(map[string]int)
	groups := make([]ReceiptGroup, 0, len(items))
	for _, it := range items {
		name := it.CategoryName
		if name == "" {
			name = UncategorizedName
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, ReceiptGroup{Category: name})
		}
		groups[i].Amount = groups[i].Amount.Add(it.Amount)
		groups[i].ItemsCount++
		groups[i].Items = append(groups[i].Items, ReceiptLine{Title: it.Title, Amount: it.Amount})
	}
	// Stable sort keeps equal-amount groups in first-seen order.
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Amount.Cents > groups[j].Amount.Cents
	})
	return groups
}
