package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylcard/budgetwise/internal/model"
)

var healthCategories = []*model.Category{
	{ID: "cat-rent", Name: "Rent", Priority: model.PriorityNeeds},
	{ID: "cat-fun", Name: "Entertainment", Priority: model.PriorityWants},
}

// steadyHistory builds n months of identical income/expense ending the month
// before the reference.
func steadyHistory(reference time.Time, n int, income, expense float64) []*model.Transaction {
	var txns []*model.Transaction
	for offset := 1; offset <= n; offset++ {
		day := monthOf(reference).AddDate(0, -offset, 9)
		txns = append(txns, incomeOn(day, income), expenseOn(day, expense))
	}
	return txns
}

func TestCalculateFinancialHealthSubScoresBounded(t *testing.T) {
	reference := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	history := steadyHistory(reference, 6, 5000, 3000)
	current := []*model.Transaction{
		expenseOn(time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), 1200),
	}
	policy := model.ResolveTargetPolicy(nil, 5000)

	score := CalculateFinancialHealth(current, history, 5000, reference, policy, healthCategories)

	for name, sub := range map[string]float64{
		"pacing":    score.Pacing,
		"burnRatio": score.BurnRatio,
		"stability": score.Stability,
		"sharpe":    score.Sharpe,
		"creep":     score.Creep,
	} {
		assert.GreaterOrEqual(t, sub, 0.0, name)
		assert.LessOrEqual(t, sub, 100.0, name)
	}
	assert.GreaterOrEqual(t, score.TotalScore, 0)
	assert.LessOrEqual(t, score.TotalScore, 100)
	assert.NotEmpty(t, score.Label)
}

func TestCalculateFinancialHealthCompositeWeighting(t *testing.T) {
	reference := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	history := steadyHistory(reference, 6, 5000, 3000)
	current := []*model.Transaction{
		expenseOn(time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), 1000),
	}
	policy := model.ResolveTargetPolicy(nil, 5000)

	score := CalculateFinancialHealth(current, history, 5000, reference, policy, healthCategories)

	expected := int(mathRound(score.Pacing*0.25 + score.BurnRatio*0.25 +
		score.Stability*0.20 + score.Sharpe*0.15 + score.Creep*0.15))
	assert.Equal(t, expected, score.TotalScore)
}

func mathRound(v float64) float64 {
	if v < 0 {
		return float64(int(v - 0.5))
	}
	return float64(int(v + 0.5))
}

func TestPacingScore(t *testing.T) {
	reference := time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	buckets := BuildMonthlyBuckets(steadyHistory(reference, 6, 5000, 3000), reference)

	t.Run("at or under the average scores 100", func(t *testing.T) {
		assert.Equal(t, 100.0, pacingScore(1000, buckets, 16))
	})

	t.Run("overshoot loses a point per percent", func(t *testing.T) {
		// Same-day averages over Apr/May/Jun at cursor 16:
		// 3000×16/30, 3000×16/31, 3000×16/30.
		avg := (3000.0*16/30 + 3000.0*16/31 + 3000.0*16/30) / 3
		score := pacingScore(avg*1.5, buckets, 16)
		assert.InDelta(t, 50.0, score, 0.001)
	})

	t.Run("no prior data scores zero", func(t *testing.T) {
		empty := BuildMonthlyBuckets(nil, reference)
		assert.Zero(t, pacingScore(500, empty, 16))
	})
}

func TestBurnScoreBufferBoundary(t *testing.T) {
	// June 15th of a 30-day month, no prior history: the smart target is the
	// pro-rated ceiling alone. Ceiling 3000 → pro-rated 1500 → buffered 1650.
	reference := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	buckets := BuildMonthlyBuckets(nil, reference)
	policy := model.TargetPolicy{NeedsTarget: 2000, WantsTarget: 1000}

	t.Run("spend exactly at the buffered target scores 100", func(t *testing.T) {
		assert.Equal(t, 100.0, burnScore(1650, 1650, 0, buckets, policy, 15, 30))
	})

	t.Run("one percent over the buffer scores below 100", func(t *testing.T) {
		score := burnScore(1650*1.01, 1650*1.01, 0, buckets, policy, 15, 30)
		assert.Less(t, score, 100.0)
		assert.Greater(t, score, 0.0)
	})

	t.Run("wants-heavy overage is penalized harder than needs-heavy", func(t *testing.T) {
		needsHeavy := burnScore(2000, 2000, 0, buckets, policy, 15, 30)
		wantsHeavy := burnScore(2000, 0, 2000, buckets, policy, 15, 30)
		assert.Greater(t, needsHeavy, wantsHeavy)
	})

	t.Run("no target basis is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, burnScore(100, 100, 0, buckets, model.TargetPolicy{}, 15, 30))
	})
}

func TestStabilityScore(t *testing.T) {
	reference := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("identical months are perfectly stable", func(t *testing.T) {
		buckets := BuildMonthlyBuckets(steadyHistory(reference, 6, 5000, 3000), reference)
		assert.Equal(t, 100.0, stabilityScore(buckets))
	})

	t.Run("fewer than two data points is neutral", func(t *testing.T) {
		buckets := BuildMonthlyBuckets(steadyHistory(reference, 1, 5000, 3000), reference)
		assert.Equal(t, 50.0, stabilityScore(buckets))
	})
}

func TestSharpeScoreZeroVariance(t *testing.T) {
	// Six months of identical $500 net savings: the variance floor
	// max(1, |500|×0.01) = 5 keeps the ratio finite.
	reference := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	buckets := BuildMonthlyBuckets(steadyHistory(reference, 6, 3500, 3000), reference)

	score := sharpeScore(buckets)
	assert.False(t, score != score, "score must not be NaN")
	assert.Equal(t, 100.0, score) // sharpe = 500/5 = 100 → capped at 100
}

func TestSharpeScoreNegativeSavings(t *testing.T) {
	reference := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	buckets := BuildMonthlyBuckets(steadyHistory(reference, 6, 2000, 3000), reference)

	score := sharpeScore(buckets)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 25.0, "negative sharpe maps into the bottom quartile")
}

func TestCreepScore(t *testing.T) {
	reference := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("expenses flat while income grows scores 100", func(t *testing.T) {
		var txns []*model.Transaction
		for offset := 1; offset <= 6; offset++ {
			day := monthOf(reference).AddDate(0, -offset, 9)
			txns = append(txns, incomeOn(day, 5000+float64(6-offset)*200), expenseOn(day, 3000))
		}
		assert.Equal(t, 100.0, creepScore(BuildMonthlyBuckets(txns, reference)))
	})

	t.Run("expenses outgrowing income is penalized", func(t *testing.T) {
		var txns []*model.Transaction
		for offset := 1; offset <= 6; offset++ {
			day := monthOf(reference).AddDate(0, -offset, 9)
			txns = append(txns, incomeOn(day, 5000), expenseOn(day, 2000+float64(6-offset)*300))
		}
		score := creepScore(BuildMonthlyBuckets(txns, reference))
		assert.Less(t, score, 100.0)
	})

	t.Run("fewer than three months is neutral", func(t *testing.T) {
		buckets := BuildMonthlyBuckets(steadyHistory(reference, 2, 5000, 3000), reference)
		assert.Equal(t, 50.0, creepScore(buckets))
	})
}

func TestHealthLabels(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{89, "Good"},
		{75, "Good"},
		{74, "Fair"},
		{60, "Fair"},
		{59, "Needs Work"},
		{0, "Needs Work"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, healthLabel(tc.score), "score %d", tc.score)
	}
}

func TestResolveTargetPolicy(t *testing.T) {
	t.Run("defaults to the 50/30/20 split", func(t *testing.T) {
		policy := model.ResolveTargetPolicy(nil, 4000)
		assert.Equal(t, 2000.0, policy.NeedsTarget)
		assert.Equal(t, 1200.0, policy.WantsTarget)
		assert.Equal(t, 800.0, policy.SavingsTarget)
	})

	t.Run("percentage and absolute goals override", func(t *testing.T) {
		goals := []*model.Goal{
			{Priority: model.PriorityNeeds, TargetPercentage: 40},
			{Priority: model.PriorityWants, TargetAmount: 900},
		}
		policy := model.ResolveTargetPolicy(goals, 4000)
		assert.Equal(t, 1600.0, policy.NeedsTarget)
		assert.Equal(t, 900.0, policy.WantsTarget)
		assert.Equal(t, 800.0, policy.SavingsTarget)
	})

	require.Equal(t, 2900.0, model.ResolveTargetPolicy([]*model.Goal{
		{Priority: model.PriorityNeeds, TargetAmount: 2000},
		{Priority: model.PriorityWants, TargetAmount: 900},
	}, 4000).SpendingCeiling())
}
