package engine

import (
	"math"
	"time"

	"github.com/ylcard/budgetwise/internal/model"
)

// unaffordableSentinel stands in for "never" when net cash flow is zero or
// negative.
const unaffordableSentinel = 999

// feasibilityGrades is the grade ladder, evaluated in order; the first
// matching row wins.
var feasibilityGrades = []struct {
	grade      string
	affordable bool
	match      func(ratio, projectedRate float64) bool
}{
	{"A", true, func(ratio, rate float64) bool { return ratio <= 0.3 && rate > 15 }},
	{"B", true, func(ratio, rate float64) bool { return ratio <= 0.5 && rate > 10 }},
	{"C", true, func(ratio, rate float64) bool { return ratio <= 0.7 && rate > 5 }},
	{"D", false, func(ratio, rate float64) bool { return ratio <= 1.0 }},
	{"F", false, func(ratio, rate float64) bool { return true }},
}

// CheckBudgetImpact grades a proposed budget amount over a date range against
// the trailing six months of cash flow. Missing inputs short-circuit to grade
// F with an explanatory message rather than an error.
func CheckBudgetImpact(proposedAmount float64, startDate, endDate time.Time, txns []*model.Transaction, now time.Time) model.FeasibilityResult {
	if proposedAmount <= 0 {
		return gradeFWithMessage("a proposed budget amount is required")
	}
	if startDate.IsZero() || endDate.IsZero() || endDate.Before(startDate) {
		return gradeFWithMessage("a valid start and end date are required")
	}
	if len(txns) == 0 {
		return gradeFWithMessage("no transaction history to grade against")
	}

	context := model.BudgetContextPast
	switch {
	case startDate.After(now):
		context = model.BudgetContextFuture
	case !now.Before(startDate) && !now.After(endDate):
		context = model.BudgetContextOngoing
	}

	buckets := BuildMonthlyBuckets(txns, now)
	var incomeSum, expenseSum float64
	for _, b := range buckets {
		incomeSum += b.TotalIncome
		expenseSum += b.TotalExpenses
	}
	avgIncome := incomeSum / LookbackMonths
	avgExpenses := expenseSum / LookbackMonths
	avgNetFlow := avgIncome - avgExpenses

	durationMonths := monthsBetween(startDate, endDate)
	monthlyCost := proposedAmount / durationMonths

	affordability := float64(unaffordableSentinel)
	monthsToRecover := unaffordableSentinel
	if avgNetFlow > 0 {
		affordability = monthlyCost / avgNetFlow
		monthsToRecover = int(math.Ceil(proposedAmount / avgNetFlow))
	}

	var projectedRate float64
	if avgIncome > 0 {
		projectedRate = (avgNetFlow - monthlyCost) / avgIncome * 100
	}

	grade, affordable := "F", false
	for _, row := range feasibilityGrades {
		if row.match(affordability, projectedRate) {
			grade, affordable = row.grade, row.affordable
			break
		}
	}

	return model.FeasibilityResult{
		Grade:                grade,
		IsAffordable:         affordable,
		Context:              context,
		MonthlyCost:          round2(monthlyCost),
		AvgMonthlyIncome:     round2(avgIncome),
		AvgMonthlyExpenses:   round2(avgExpenses),
		AvgNetFlow:           round2(avgNetFlow),
		AffordabilityRatio:   round2(affordability),
		ProjectedSavingsRate: round2(projectedRate),
		MonthsToRecover:      monthsToRecover,
	}
}

func gradeFWithMessage(msg string) model.FeasibilityResult {
	return model.FeasibilityResult{
		Grade:              "F",
		Message:            msg,
		AffordabilityRatio: unaffordableSentinel,
		MonthsToRecover:    unaffordableSentinel,
	}
}

// monthsBetween returns the budget's duration in months, minimum one.
func monthsBetween(start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	months := days / 30.44
	if months < 1 {
		return 1
	}
	return months
}
