package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylcard/budgetwise/internal/model"
)

// netFlowHistory builds six full months averaging the given income/expense.
func netFlowHistory(now time.Time, income, expense float64) []*model.Transaction {
	var txns []*model.Transaction
	for offset := 1; offset <= 6; offset++ {
		day := monthOf(now).AddDate(0, -offset, 14)
		txns = append(txns, incomeOn(day, income), expenseOn(day, expense))
	}
	return txns
}

func TestCheckBudgetImpactGradeA(t *testing.T) {
	now := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	// $4000 in, $3000 out: avg net flow $1000/month, projected savings rate
	// after the $250 cost is 18.75%.
	txns := netFlowHistory(now, 4000, 3000)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	result := CheckBudgetImpact(250, start, end, txns, now)

	assert.Equal(t, "A", result.Grade)
	assert.True(t, result.IsAffordable)
	assert.Equal(t, model.BudgetContextFuture, result.Context)
	assert.Equal(t, 1000.0, result.AvgNetFlow)
	assert.Equal(t, 0.25, result.AffordabilityRatio)
	assert.Greater(t, result.ProjectedSavingsRate, 15.0)
	assert.Equal(t, 1, result.MonthsToRecover)
}

func TestCheckBudgetImpactMonotonicity(t *testing.T) {
	now := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	txns := netFlowHistory(now, 5000, 4000)
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)

	gradeRank := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3, "F": 4}

	prev := -1
	for amount := 100.0; amount <= 5000; amount += 100 {
		result := CheckBudgetImpact(amount, start, end, txns, now)
		rank, ok := gradeRank[result.Grade]
		require.True(t, ok, "unknown grade %q", result.Grade)
		assert.GreaterOrEqual(t, rank, prev,
			"raising the amount to %.0f must not improve the grade", amount)
		prev = rank
	}
}

func TestCheckBudgetImpactTemporalContext(t *testing.T) {
	now := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	txns := netFlowHistory(now, 5000, 4000)

	tests := []struct {
		name       string
		start, end time.Time
		want       model.BudgetContext
	}{
		{"future", now.AddDate(0, 1, 0), now.AddDate(0, 2, 0), model.BudgetContextFuture},
		{"ongoing", now.AddDate(0, 0, -5), now.AddDate(0, 0, 5), model.BudgetContextOngoing},
		{"past", now.AddDate(0, -3, 0), now.AddDate(0, -2, 0), model.BudgetContextPast},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CheckBudgetImpact(100, tc.start, tc.end, txns, now)
			assert.Equal(t, tc.want, result.Context)
		})
	}
}

func TestCheckBudgetImpactMissingInputs(t *testing.T) {
	now := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	txns := netFlowHistory(now, 5000, 4000)
	start := now.AddDate(0, 1, 0)
	end := now.AddDate(0, 2, 0)

	t.Run("no amount", func(t *testing.T) {
		result := CheckBudgetImpact(0, start, end, txns, now)
		assert.Equal(t, "F", result.Grade)
		assert.False(t, result.IsAffordable)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("no dates", func(t *testing.T) {
		result := CheckBudgetImpact(100, time.Time{}, time.Time{}, txns, now)
		assert.Equal(t, "F", result.Grade)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("no history", func(t *testing.T) {
		result := CheckBudgetImpact(100, start, end, nil, now)
		assert.Equal(t, "F", result.Grade)
		assert.NotEmpty(t, result.Message)
	})
}

func TestCheckBudgetImpactNegativeNetFlow(t *testing.T) {
	now := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	txns := netFlowHistory(now, 3000, 4000)

	result := CheckBudgetImpact(500, now.AddDate(0, 1, 0), now.AddDate(0, 2, 0), txns, now)
	assert.Equal(t, "F", result.Grade)
	assert.False(t, result.IsAffordable)
	assert.Equal(t, 999.0, result.AffordabilityRatio)
	assert.Equal(t, 999, result.MonthsToRecover)
}

func TestCheckBudgetImpactMinimumDuration(t *testing.T) {
	now := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	txns := netFlowHistory(now, 5000, 4000)

	// A three-day budget still costs its full amount in a single month.
	start := now.AddDate(0, 0, 5)
	result := CheckBudgetImpact(600, start, start.AddDate(0, 0, 3), txns, now)
	assert.Equal(t, 600.0, result.MonthlyCost)
}
