package engine

import (
	"math"
	"sort"

	"github.com/ylcard/budgetwise/internal/model"
)

// flexibleReductionThreshold marks a category as compressible when its spend
// drops by more than this percentage in lean months.
const flexibleReductionThreshold = 20.0

type monthProfile struct {
	income     float64
	expenses   float64
	byCategory map[string]float64
}

// AnalyzeExpenseElasticity compares per-category spending between the user's
// leanest and most abundant months. Months are ranked by efficiency
// (income − expense); the bottom and top quartiles (rounded up, minimum one
// month each) form the lean and abundant groups. For every category seen in
// either group the reduction percentage is (abundantAvg − leanAvg) /
// abundantAvg × 100, clamped to ≥ 0.
//
// Requires at least two months of history; returns an empty map otherwise.
func AnalyzeExpenseElasticity(txns []*model.Transaction, categories []*model.Category) map[string]model.Elasticity {
	result := make(map[string]model.Elasticity)

	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
	}

	profiles := make(map[monthKey]*monthProfile)
	for _, t := range txns {
		d := t.EffectiveDate()
		key := monthKey{year: d.Year(), month: d.Month()}
		p, ok := profiles[key]
		if !ok {
			p = &monthProfile{byCategory: make(map[string]float64)}
			profiles[key] = p
		}
		switch {
		case t.Type == model.TransactionTypeIncome:
			p.income += t.Amount
		case t.IsRealizedExpense():
			p.expenses += t.Amount
			name := categoryNames[t.CategoryID]
			if name == "" {
				name = "Uncategorized"
			}
			p.byCategory[name] += t.Amount
		}
	}

	if len(profiles) < 2 {
		return result
	}

	months := make([]*monthProfile, 0, len(profiles))
	for _, p := range profiles {
		months = append(months, p)
	}
	// Least efficient first
	sort.Slice(months, func(i, j int) bool {
		return months[i].income-months[i].expenses < months[j].income-months[j].expenses
	})

	quartile := int(math.Ceil(float64(len(months)) / 4))
	if quartile < 1 {
		quartile = 1
	}
	lean := months[:quartile]
	abundant := months[len(months)-quartile:]

	categorySet := make(map[string]bool)
	for _, p := range lean {
		for name := range p.byCategory {
			categorySet[name] = true
		}
	}
	for _, p := range abundant {
		for name := range p.byCategory {
			categorySet[name] = true
		}
	}

	for name := range categorySet {
		leanAvg := groupCategoryAvg(lean, name)
		abundantAvg := groupCategoryAvg(abundant, name)
		if abundantAvg == 0 {
			continue
		}
		reduction := (abundantAvg - leanAvg) / abundantAvg * 100
		if reduction < 0 {
			reduction = 0
		}
		result[name] = model.Elasticity{
			Reduction:   round2(reduction),
			LeanAvg:     round2(leanAvg),
			AbundantAvg: round2(abundantAvg),
			Flexible:    reduction > flexibleReductionThreshold,
		}
	}
	return result
}

func groupCategoryAvg(group []*monthProfile, category string) float64 {
	var sum float64
	for _, p := range group {
		sum += p.byCategory[category]
	}
	return sum / float64(len(group))
}
