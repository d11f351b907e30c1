package engine

import (
	"time"

	"github.com/ylcard/budgetwise/internal/model"
)

// EstimateCurrentMonth blends the reference month's realized spend to date
// with a historical baseline to estimate the full month's total expense.
//
// Days 1..reference.Day() contribute their actual paid spend; each remaining
// day contributes a pro-rated share of the baseline (the average monthly
// expense over prior non-zero months). With no baseline the estimate is the
// actual spend only, and on a fully elapsed month the estimate equals the
// actual total exactly.
func EstimateCurrentMonth(currentMonthTxns []*model.Transaction, baseline float64, reference time.Time) model.Projection {
	monthStart := monthOf(reference)
	cursorEnd := time.Date(reference.Year(), reference.Month(), reference.Day(), 23, 59, 59, 0, reference.Location())

	var actual float64
	for _, t := range currentMonthTxns {
		if !t.IsRealizedExpense() {
			continue
		}
		d := t.EffectiveDate()
		if d.Before(monthStart) || d.After(cursorEnd) {
			continue
		}
		actual += t.Amount
	}

	totalDays := daysInMonth(reference)
	elapsed := reference.Day()
	remaining := totalDays - elapsed

	var projected float64
	if baseline > 0 && remaining > 0 {
		projected = baseline * float64(remaining) / float64(totalDays)
	}

	return model.Projection{
		EstimatedTotal: round2(actual + projected),
		ActualToDate:   round2(actual),
		ProjectedShare: round2(projected),
		DaysElapsed:    elapsed,
		DaysRemaining:  remaining,
	}
}

// HistoricalBaseline averages the expense totals of up to LookbackMonths
// prior non-zero months. Zero-spend months are skipped so that a sparse
// history does not drag the baseline toward nothing.
func HistoricalBaseline(buckets []*model.MonthlyBucket) float64 {
	var sum float64
	var count int
	for _, b := range buckets {
		if b.TotalExpenses > 0 {
			sum += b.TotalExpenses
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
