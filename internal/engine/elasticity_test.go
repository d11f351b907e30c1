package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylcard/budgetwise/internal/model"
)

var elasticityCategories = []*model.Category{
	{ID: "cat-groceries", Name: "Groceries", Priority: model.PriorityNeeds},
	{ID: "cat-dining", Name: "Dining Out", Priority: model.PriorityWants},
}

func categorizedExpense(date time.Time, amount float64, categoryID string) *model.Transaction {
	tx := expenseOn(date, amount)
	tx.ID = fmt.Sprintf("%s-%s-%.0f", date.Format("2006-01-02"), categoryID, amount)
	tx.CategoryID = categoryID
	return tx
}

func TestAnalyzeExpenseElasticityRequiresTwoMonths(t *testing.T) {
	june := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	txns := []*model.Transaction{
		incomeOn(june, 4000),
		categorizedExpense(june, 300, "cat-dining"),
	}
	assert.Empty(t, AnalyzeExpenseElasticity(txns, elasticityCategories))
}

func TestAnalyzeExpenseElasticityLeanVsAbundant(t *testing.T) {
	var txns []*model.Transaction

	// Four months: efficiency ranking is driven by income. Dining compresses
	// hard in the lean month; groceries barely move.
	months := []struct {
		month     time.Month
		income    float64
		dining    float64
		groceries float64
	}{
		{time.January, 1000, 100, 520}, // lean
		{time.February, 4000, 380, 520},
		{time.March, 4000, 390, 510},
		{time.April, 6000, 400, 500}, // abundant
	}
	for _, m := range months {
		day := time.Date(2025, m.month, 10, 0, 0, 0, 0, time.UTC)
		txns = append(txns,
			incomeOn(day, m.income),
			categorizedExpense(day, m.dining, "cat-dining"),
			categorizedExpense(day, m.groceries, "cat-groceries"),
		)
	}

	result := AnalyzeExpenseElasticity(txns, elasticityCategories)
	require.Contains(t, result, "Dining Out")
	require.Contains(t, result, "Groceries")

	// January is the lean month, April the abundant one.
	dining := result["Dining Out"]
	assert.Equal(t, 100.0, dining.LeanAvg)
	assert.Equal(t, 400.0, dining.AbundantAvg)
	assert.Equal(t, 75.0, dining.Reduction)
	assert.True(t, dining.Flexible)

	groceries := result["Groceries"]
	assert.Equal(t, 0.0, groceries.Reduction, "spend rising in lean months clamps to zero")
	assert.False(t, groceries.Flexible)
}

func TestAnalyzeExpenseElasticityBounds(t *testing.T) {
	var txns []*model.Transaction
	for m := time.January; m <= time.June; m++ {
		day := time.Date(2025, m, 5, 0, 0, 0, 0, time.UTC)
		txns = append(txns,
			incomeOn(day, float64(1000*int(m))),
			categorizedExpense(day, float64(50*int(m)), "cat-dining"),
			categorizedExpense(day, 400, "cat-groceries"),
		)
	}

	for name, e := range AnalyzeExpenseElasticity(txns, elasticityCategories) {
		assert.GreaterOrEqual(t, e.Reduction, 0.0, name)
		assert.Equal(t, e.Reduction > 20, e.Flexible, name)
	}
}

func TestAnalyzeExpenseElasticityUncategorized(t *testing.T) {
	jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)
	txns := []*model.Transaction{
		incomeOn(jan, 1000), categorizedExpense(jan, 100, "unknown-cat"),
		incomeOn(feb, 5000), categorizedExpense(feb, 300, "unknown-cat"),
	}

	result := AnalyzeExpenseElasticity(txns, elasticityCategories)
	assert.Contains(t, result, "Uncategorized")
}
