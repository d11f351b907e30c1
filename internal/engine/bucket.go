package engine

import (
	"time"

	"github.com/ylcard/budgetwise/internal/model"
)

// LookbackMonths is the fixed history window the health scorer and
// feasibility grader operate over.
const LookbackMonths = 6

type monthKey struct {
	year  int
	month time.Month
}

// BuildMonthlyBuckets groups transactions into per-month aggregates for
// offsets 1..LookbackMonths prior to the reference month, oldest first.
// Months with no data yield an empty bucket with zero totals. The input is
// scanned exactly once; the six fixed offsets are then served from the
// grouped map.
func BuildMonthlyBuckets(txns []*model.Transaction, reference time.Time) []*model.MonthlyBucket {
	grouped := make(map[monthKey][]*model.Transaction)
	for _, t := range txns {
		d := t.EffectiveDate()
		key := monthKey{year: d.Year(), month: d.Month()}
		grouped[key] = append(grouped[key], t)
	}

	buckets := make([]*model.MonthlyBucket, 0, LookbackMonths)
	for offset := LookbackMonths; offset >= 1; offset-- {
		monthStart := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location()).AddDate(0, -offset, 0)
		monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)

		monthTxns := grouped[monthKey{year: monthStart.Year(), month: monthStart.Month()}]
		bucket := &model.MonthlyBucket{
			MonthStart:   monthStart,
			MonthEnd:     monthEnd,
			Transactions: monthTxns,
		}
		for _, t := range monthTxns {
			switch {
			case t.Type == model.TransactionTypeIncome:
				bucket.TotalIncome += t.Amount
			case isSystemBudgetExpense(t):
				bucket.TotalExpenses += t.Amount
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// isSystemBudgetExpense reports whether a transaction counts toward the
// recurring system budget: realized spend not already earmarked to a custom
// budget envelope.
func isSystemBudgetExpense(t *model.Transaction) bool {
	return t.IsRealizedExpense() && t.BudgetID == ""
}

// monthOf truncates a time to the first instant of its calendar month.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// daysInMonth returns the number of calendar days in t's month.
func daysInMonth(t time.Time) int {
	first := monthOf(t)
	return first.AddDate(0, 1, -1).Day()
}
