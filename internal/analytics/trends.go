package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

const trendMonths = 6

// Trend labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

type Comparison struct {
	CurrentMonth     core.Money `json:"currentMonth"`
	LastMonth        core.Money `json:"lastMonth"`
	Change           core.Money `json:"change"`
	ChangePercentage float64    `json:"changePercentage"`
	Trend            string     `json:"trend"`
}

type MonthBucket struct {
	Year      int        `json:"year"`
	Month     int        `json:"month"`
	MonthName string     `json:"monthName"`
	Total     core.Money `json:"total"`
	Count     int        `json:"count"`
	Average   core.Money `json:"average"`
}

type CategoryDelta struct {
	CategoryID       string     `json:"categoryId"`
	CategoryName     string     `json:"categoryName"`
	CurrentMonth     core.Money `json:"currentMonth"`
	LastMonth        core.Money `json:"lastMonth"`
	Change           core.Money `json:"change"`
	ChangePercentage float64    `json:"changePercentage"`
}

type Trends struct {
	Comparison         Comparison      `json:"comparison"`
	MonthlyTrends      []MonthBucket   `json:"monthlyTrends"`
	CategoryComparison []CategoryDelta `json:"categoryComparison"`
}

// Trends compares this month with the previous one and rolls up the last
// six months of spending.
func (e *Engine) Trends(ctx context.Context, src Source) (Trends, error) {
	now := e.now()
	current := core.MonthWindow(now)
	previous := core.PreviousMonthWindow(now)
	lookback := now.AddDate(0, -trendMonths, 0)

	var thisMonth, lastMonth, history []*core.Expense
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		thisMonth, err = src.Expenses(gctx, inWindow(current))
		return err
	})
	g.Go(func() (err error) {
		lastMonth, err = src.Expenses(gctx, inWindow(previous))
		return err
	})
	g.Go(func() (err error) {
		history, err = src.Expenses(gctx, storage.TransactionFilter{From: &lookback})
		return err
	})
	if err := g.Wait(); err != nil {
		return Trends{}, fmt.Errorf("spending trends: %w", err)
	}

	return Trends{
		Comparison:         compare(sumExpenses(thisMonth), sumExpenses(lastMonth)),
		MonthlyTrends:      monthlyBuckets(history, now),
		CategoryComparison: compareCategories(thisMonth, lastMonth),
	}, nil
}

func compare(current, last core.Money) Comparison {
	change := current.Sub(last)
	c := Comparison{
		CurrentMonth:     current,
		LastMonth:        last,
		Change:           change,
		ChangePercentage: changePercent(change, last),
		Trend:            TrendStable,
	}
	switch {
	case change.Cents > 0:
		c.Trend = TrendIncreasing
	case change.Cents < 0:
		c.Trend = TrendDecreasing
	}
	return c
}

// changePercent is change/previous*100, 0 when there was no previous spend.
func changePercent(change, previous core.Money) float64 {
	if previous.Cents <= 0 {
		return 0
	}
	return core.Percent(change.Cents, previous.Cents)
}

func monthlyBuckets(expenses []*core.Expense, now time.Time) []MonthBucket {
	type key struct{ year, month int }
	buckets := make(map[key]*MonthBucket)
	for _, e := range expenses {
		d := e.Date.In(now.Location())
		k := key{d.Year(), int(d.Month())}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{Year: k.year, Month: k.month, MonthName: d.Month().String()[:3]}
			buckets[k] = b
		}
		b.Total = b.Total.Add(e.Amount)
		b.Count++
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Average = b.Total.DivRound(int64(b.Count))
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

func compareCategories(thisMonth, lastMonth []*core.Expense) []CategoryDelta {
	var current, previous core.CategoryTotals
	names := make(map[string]string)
	for _, e := range thisMonth {
		current.Add(e.CategoryID, e.CategoryName, e.Amount)
		names[e.CategoryID] = e.CategoryName
	}
	for _, e := range lastMonth {
		previous.Add(e.CategoryID, e.CategoryName, e.Amount)
		if _, ok := names[e.CategoryID]; !ok {
			names[e.CategoryID] = e.CategoryName
		}
	}

	out := make([]CategoryDelta, 0, len(names))
	for id, name := range names {
		cur, prev := current.Get(id).Total, previous.Get(id).Total
		change := cur.Sub(prev)
		out = append(out, CategoryDelta{
			CategoryID:       id,
			CategoryName:     name,
			CurrentMonth:     cur,
			LastMonth:        prev,
			Change:           change,
			ChangePercentage: changePercent(change, prev),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CurrentMonth.Cents != out[j].CurrentMonth.Cents {
			return out[i].CurrentMonth.Cents > out[j].CurrentMonth.Cents
		}
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}
