package engine

import (
	"math"
	"time"

	"github.com/ylcard/budgetwise/internal/model"
)

// Composite weights for the five health sub-scores.
const (
	pacingWeight    = 0.25
	burnWeight      = 0.25
	stabilityWeight = 0.20
	sharpeWeight    = 0.15
	creepWeight     = 0.15
)

// burnBuffer widens the smart spending target by 10% before any penalty
// applies.
const burnBuffer = 1.10

const neutralScore = 50.0

// CalculateFinancialHealth produces the 0–100 composite health score over the
// six-month lookback ending at the reference month.
//
// The day cursor is reference.Day(): callers viewing a past month pass the
// month's last day as the reference so the full month is measured.
func CalculateFinancialHealth(currentMonthTxns, fullHistory []*model.Transaction, monthlyIncome float64, reference time.Time, policy model.TargetPolicy, categories []*model.Category) model.HealthScore {
	buckets := BuildMonthlyBuckets(fullHistory, reference)

	dayCursor := reference.Day()
	totalDays := daysInMonth(reference)

	monthStart := monthOf(reference)
	cursorEnd := time.Date(reference.Year(), reference.Month(), dayCursor, 23, 59, 59, 0, reference.Location())

	priorities := make(map[string]model.Priority, len(categories))
	for _, c := range categories {
		priorities[c.ID] = c.Priority
	}

	var currentSpend, needsSpend, wantsSpend float64
	for _, t := range currentMonthTxns {
		if !isSystemBudgetExpense(t) {
			continue
		}
		d := t.EffectiveDate()
		if d.Before(monthStart) || d.After(cursorEnd) {
			continue
		}
		currentSpend += t.Amount
		switch priorities[t.CategoryID] {
		case model.PriorityNeeds:
			needsSpend += t.Amount
		case model.PriorityWants:
			wantsSpend += t.Amount
		}
	}

	pacing := pacingScore(currentSpend, buckets, dayCursor)
	burn := burnScore(currentSpend, needsSpend, wantsSpend, buckets, policy, dayCursor, totalDays)
	stability := stabilityScore(buckets)
	sharpe := sharpeScore(buckets)
	creep := creepScore(buckets)

	total := int(math.Round(
		pacing*pacingWeight +
			burn*burnWeight +
			stability*stabilityWeight +
			sharpe*sharpeWeight +
			creep*creepWeight))

	return model.HealthScore{
		TotalScore: total,
		Pacing:     round2(pacing),
		BurnRatio:  round2(burn),
		Stability:  round2(stability),
		Sharpe:     round2(sharpe),
		Creep:      round2(creep),
		Label:      healthLabel(total),
	}
}

func healthLabel(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	default:
		return "Needs Work"
	}
}

// sameDaySpend approximates a historical month's spend as of the day cursor
// by scaling its total linearly. True daily cumulative spend per historical
// month is not tracked; changing this changes scoring behavior materially.
func sameDaySpend(b *model.MonthlyBucket, dayCursor int) float64 {
	days := daysInMonth(b.MonthStart)
	if dayCursor > days {
		dayCursor = days
	}
	return b.TotalExpenses * float64(dayCursor) / float64(days)
}

// pacingScore compares the current month's spend to date against the average
// same-day spend of the previous three months. At or under the average scores
// 100; each percent of overshoot costs a point. No prior data scores 0.
func pacingScore(currentSpend float64, buckets []*model.MonthlyBucket, dayCursor int) float64 {
	var samples []float64
	for i := len(buckets) - 3; i < len(buckets); i++ {
		if i < 0 {
			continue
		}
		if buckets[i].TotalExpenses > 0 {
			samples = append(samples, sameDaySpend(buckets[i], dayCursor))
		}
	}
	if len(samples) == 0 {
		return 0
	}
	avg := mean(samples)
	if currentSpend <= avg {
		return 100
	}
	deviation := (currentSpend - avg) / avg
	return math.Max(0, 100-deviation*100)
}

// burnScore measures spend against a smart target: the greater of the
// pro-rated budget ceiling and the historical same-day average, buffered by
// 10%. Overage is penalized in proportion, weighted by how discretionary the
// overage mix is (needs-heavy at 0.5×, wants-heavy up to 1.5×).
func burnScore(currentSpend, needsSpend, wantsSpend float64, buckets []*model.MonthlyBucket, policy model.TargetPolicy, dayCursor, totalDays int) float64 {
	proRated := policy.SpendingCeiling() * float64(dayCursor) / float64(totalDays)

	var samples []float64
	for i := len(buckets) - 3; i < len(buckets); i++ {
		if i < 0 {
			continue
		}
		if buckets[i].TotalExpenses > 0 {
			samples = append(samples, sameDaySpend(buckets[i], dayCursor))
		}
	}
	historical := mean(samples)

	smartTarget := math.Max(proRated, historical)
	buffered := smartTarget * burnBuffer
	if buffered <= 0 {
		return neutralScore
	}
	if currentSpend <= buffered {
		return 100
	}

	overRatio := (currentSpend - buffered) / buffered
	var wantsRatio float64
	if needsSpend+wantsSpend > 0 {
		wantsRatio = wantsSpend / (needsSpend + wantsSpend)
	}
	penaltyMultiplier := 0.5 + wantsRatio
	return math.Max(0, 100-overRatio*penaltyMultiplier*200)
}

// stabilityScore rates the volatility of monthly expense totals via the
// coefficient of variation over the nonzero months of the lookback.
func stabilityScore(buckets []*model.MonthlyBucket) float64 {
	var totals []float64
	for _, b := range buckets {
		if b.TotalExpenses > 0 {
			totals = append(totals, b.TotalExpenses)
		}
	}
	if len(totals) < 2 {
		return neutralScore
	}
	cv := coefficientOfVariation(totals)
	return clamp(100-cv*200, 0, 100)
}

// sharpeScore is risk-adjusted savings consistency: average monthly net
// savings over its standard deviation, with a variance floor of
// max(1, |avg|×0.01) so a perfectly flat series stays finite.
func sharpeScore(buckets []*model.MonthlyBucket) float64 {
	var nets []float64
	for _, b := range buckets {
		if b.TotalIncome > 0 || b.TotalExpenses > 0 {
			nets = append(nets, b.TotalIncome-b.TotalExpenses)
		}
	}
	if len(nets) < 2 {
		return neutralScore
	}

	avg := mean(nets)
	floor := math.Max(1, math.Abs(avg)*0.01)
	denom := math.Max(stdDev(nets), floor)
	sharpe := avg / denom

	if sharpe < 0 {
		return clamp(25+sharpe*25, 0, 25)
	}
	return math.Min(100, math.Round(25+math.Sqrt(sharpe)*65))
}

// creepScore compares income growth against expense growth across the
// lookback, smoothing with the average of the first two and last two active
// months. Expenses growing faster than income is lifestyle creep.
func creepScore(buckets []*model.MonthlyBucket) float64 {
	var active []*model.MonthlyBucket
	for _, b := range buckets {
		if b.TotalIncome > 0 || b.TotalExpenses > 0 {
			active = append(active, b)
		}
	}
	if len(active) < 3 {
		return neutralScore
	}

	firstIncome := (active[0].TotalIncome + active[1].TotalIncome) / 2
	firstExpense := (active[0].TotalExpenses + active[1].TotalExpenses) / 2
	n := len(active)
	lastIncome := (active[n-2].TotalIncome + active[n-1].TotalIncome) / 2
	lastExpense := (active[n-2].TotalExpenses + active[n-1].TotalExpenses) / 2

	incomeGrowth := growthRate(firstIncome, lastIncome)
	expenseGrowth := growthRate(firstExpense, lastExpense)

	creepDelta := expenseGrowth - incomeGrowth
	if creepDelta <= 0 {
		return 100
	}
	return math.Max(0, 100-creepDelta*500)
}

func growthRate(first, last float64) float64 {
	if first <= 0 {
		return 0
	}
	return (last - first) / first
}
