// Package query derives period-scoped statistics from a transaction snapshot.
// Every function is a pure fold over its inputs; all aggregation is delegated
// to core.Aggregate.
package query

import (
	"sort"
	"time"

	"wealthgrows/internal/core"
)

// ForMonth aggregates the transactions falling in the given calendar month.
func ForMonth(transactions []core.Transaction, year int, month time.Month) core.Stats {
	return core.Aggregate(MonthTransactions(transactions, year, month))
}

// MonthTransactions returns the subset of transactions falling in the given
// calendar month, preserving input order.
func MonthTransactions(transactions []core.Transaction, year int, month time.Month) []core.Transaction {
	return filter(transactions, func(d time.Time) bool {
		return d.Year() == year && d.Month() == month
	})
}

// ForPreviousMonth aggregates the calendar month immediately before ref.
// January rolls over to December of the prior year.
func ForPreviousMonth(transactions []core.Transaction, ref time.Time) core.Stats {
	year, month := PreviousMonth(ref.Year(), ref.Month())
	return ForMonth(transactions, year, month)
}

// PreviousMonth returns the calendar month before (year, month).
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// ForYear aggregates the transactions falling in the given calendar year.
func ForYear(transactions []core.Transaction, year int) core.Stats {
	return core.Aggregate(YearTransactions(transactions, year))
}

// YearTransactions returns the subset of transactions falling in the given
// calendar year, preserving input order.
func YearTransactions(transactions []core.Transaction, year int) []core.Transaction {
	return filter(transactions, func(d time.Time) bool {
		return d.Year() == year
	})
}

// AvailableYears returns the distinct years present across all transactions,
// always including the year of now, sorted descending.
func AvailableYears(transactions []core.Transaction, now time.Time) []int {
	seen := map[int]struct{}{now.Year(): {}}
	for _, t := range transactions {
		seen[t.Date.Year()] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

func filter(transactions []core.Transaction, keep func(time.Time) bool) []core.Transaction {
	var out []core.Transaction
	for _, t := range transactions {
		if keep(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
