package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"studentfin/internal/core"
	"studentfin/internal/storage"
)

// Feed limits.
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// Transaction kinds in the recent feed.
const (
	KindExpense = "expense"
	KindIncome  = "income"
)

const uncategorized = "Uncategorized"

// Transaction is one entry of the merged expense and income feed.
type Transaction struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Amount     core.Money `json:"amount"`
	CategoryID string     `json:"categoryId"`
	Category   string     `json:"category"`
	Note       string     `json:"note"`
	Date       time.Time  `json:"date"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (t Transaction) key() storage.TransactionKey {
	return storage.TransactionKey{Date: t.Date, CreatedAt: t.CreatedAt, ID: t.ID}
}

// NormalizeLimit maps a requested feed size into [1, MaxRecentLimit], using
// the default for zero or negative values.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRecentLimit
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	}
	return limit
}

// RecentTransactions merges the newest expenses and incomes into one feed
// of at most limit entries.
func (e *Engine) RecentTransactions(ctx context.Context, src Source, limit int) ([]Transaction, error) {
	limit = NormalizeLimit(limit)

	var (
		expenses []*core.Expense
		incomes  []*core.Income
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = src.Expenses(gctx, storage.TransactionFilter{Limit: limit})
		return err
	})
	g.Go(func() (err error) {
		incomes, err = src.Incomes(gctx, storage.TransactionFilter{Limit: limit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}

	feed := make([]Transaction, 0, len(expenses)+len(incomes))
	for _, x := range expenses {
		feed = append(feed, Transaction{
			ID:         x.ID,
			Type:       KindExpense,
			Amount:     x.Amount,
			CategoryID: x.CategoryID,
			Category:   categoryLabel(x.CategoryName),
			Note:       x.Note,
			Date:       x.Date,
			CreatedAt:  x.CreatedAt,
		})
	}
	for _, x := range incomes {
		feed = append(feed, Transaction{
			ID:         x.ID,
			Type:       KindIncome,
			Amount:     x.Amount,
			CategoryID: x.CategoryID,
			Category:   categoryLabel(x.CategoryName),
			Note:       x.Description,
			Date:       x.Date,
			CreatedAt:  x.CreatedAt,
		})
	}
	storage.SortNewestFirst(feed, Transaction.key)
	return storage.ApplyLimit(feed, limit), nil
}

func categoryLabel(name string) string {
	if name == "" {
		return uncategorized
	}
	return name
}
