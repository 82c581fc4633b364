package core

import "sort"

// CategoryTotal aggregates the transactions of one category.
type CategoryTotal struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Total        Money  `json:"total"`
	Count        int    `json:"count"`
}

// MonthSummary is a compact summary of one calendar month of transactions.
type MonthSummary struct {
	Period     Window          `json:"period"`
	Total      Money           `json:"total"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"byCategory"`
}

// CategoryTotals accumulates per-category sums.
type CategoryTotals struct {
	byID map[string]*CategoryTotal
}

func (t *CategoryTotals) Add(categoryID, categoryName string, amount Money) {
	if t.byID == nil {
		t.byID = make(map[string]*CategoryTotal)
	}
	ct, ok := t.byID[categoryID]
	if !ok {
		ct = &CategoryTotal{CategoryID: categoryID, CategoryName: categoryName}
		t.byID[categoryID] = ct
	}
	ct.Total = ct.Total.Add(amount)
	ct.Count++
}

// Get returns the accumulated total for a category, zero if absent.
func (t *CategoryTotals) Get(categoryID string) CategoryTotal {
	if ct, ok := t.byID[categoryID]; ok {
		return *ct
	}
	return CategoryTotal{CategoryID: categoryID}
}

// Sorted returns the totals by descending sum, ties broken by name then id.
func (t *CategoryTotals) Sorted() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(t.byID))
	for _, ct := range t.byID {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}
