// Package ledger is the aggregation engine: it turns full transaction
// snapshots into point-in-time balances and the monthly income/expense
// series the dashboard renders.
package ledger

import (
	"sort"
	"time"

	"madrasa/internal/core"
)

// SeriesCap is the number of most recent month buckets kept in the series.
const SeriesCap = 6

// MonthBucket holds the income and expense sums for one calendar month.
// Buckets are keyed by (Year, Month); Label is display-only and two buckets
// sharing a month name across years stay distinct.
type MonthBucket struct {
	Year    int
	Month   time.Month
	Label   string
	Income  core.Money
	Expense core.Money
}

// Stats is the derived state recomputed from every snapshot. It is never
// persisted and never patched incrementally.
type Stats struct {
	MonthlyIncome  core.Money // current calendar month to date
	MonthlyExpense core.Money
	CurrentCash    core.Money // all-time income minus expense, may be negative
	Series         []MonthBucket
	Skipped        int // records with amount <= 0, excluded from all sums
}

type monthKey struct {
	year  int
	month time.Month
}

// Summarize recomputes all aggregates from the complete transaction set.
// Malformed records (amount <= 0) contribute zero to every sum and are
// counted in Skipped instead of failing the whole aggregation. The result
// depends only on the set and now, never on insertion order.
func Summarize(txs []core.Transaction, now time.Time) Stats {
	var s Stats

	today := core.DateOf(now)
	firstOfMonth := core.NewDate(now.Year(), now.Month(), 1)

	buckets := make(map[monthKey]*MonthBucket)

	for _, tx := range txs {
		amount := tx.Amount
		if amount.Cents <= 0 {
			s.Skipped++
			amount = core.Money{}
		}

		inCurrentMonth := !tx.Date.Before(firstOfMonth) && !tx.Date.After(today)

		key := monthKey{tx.Date.Year(), tx.Date.Month()}
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{
				Year:  key.year,
				Month: key.month,
				Label: key.month.String()[:3],
			}
			buckets[key] = b
		}

		switch tx.Kind {
		case core.Income:
			s.CurrentCash = s.CurrentCash.Add(amount)
			b.Income = b.Income.Add(amount)
			if inCurrentMonth {
				s.MonthlyIncome = s.MonthlyIncome.Add(amount)
			}
		default:
			s.CurrentCash = s.CurrentCash.Sub(amount)
			b.Expense = b.Expense.Add(amount)
			if inCurrentMonth {
				s.MonthlyExpense = s.MonthlyExpense.Add(amount)
			}
		}
	}

	keys := make([]monthKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})
	if len(keys) > SeriesCap {
		keys = keys[len(keys)-SeriesCap:]
	}

	s.Series = make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		s.Series = append(s.Series, *buckets[k])
	}
	return s
}
