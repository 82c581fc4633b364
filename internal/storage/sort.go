package storage

import (
	"sort"
	"time"
)

// TransactionKey is the ordering key of an expense or income.
type TransactionKey struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// SortNewestFirst orders items by date, then creation time, then id, all
// descending. Backends without server-side ordering use it to match the
// SQLite order.
func SortNewestFirst[T any](items []T, key func(T) TransactionKey) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := key(items[i]), key(items[j])
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// ApplyLimit truncates items to limit when limit is positive.
func ApplyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
