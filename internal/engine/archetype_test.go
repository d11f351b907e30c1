package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ylcard/budgetwise/internal/model"
)

func tripEvent(start time.Time, amount float64, days int) *model.Event {
	return &model.Event{
		EventType:    "Trip",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, days-1),
		DurationDays: days,
		TotalAmount:  amount,
		CategoryPriorityMix: map[model.Priority]float64{
			model.PriorityWants: amount * 0.7,
			model.PriorityNeeds: amount * 0.3,
		},
	}
}

func TestGenerateBudgetArchetypesEmptyInput(t *testing.T) {
	assert.Empty(t, GenerateBudgetArchetypes(nil))
	assert.Empty(t, GenerateBudgetArchetypes([]*model.Event{}))
}

func TestGenerateBudgetArchetypesSingleOccurrence(t *testing.T) {
	events := []*model.Event{
		tripEvent(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 800, 4),
	}
	archetypes := GenerateBudgetArchetypes(events)
	require.Len(t, archetypes, 1)

	a := archetypes[0]
	assert.Equal(t, "Trip", a.EventType)
	assert.Equal(t, "Travel Budget", a.DisplayName)
	assert.Equal(t, 50.0, a.Confidence, "one occurrence pins confidence at 50")
	assert.Equal(t, 800.0, a.AverageAmount)
	assert.Equal(t, 4.0, a.AverageDuration)
	assert.Equal(t, 1, a.Occurrences)
}

func TestGenerateBudgetArchetypesConsistentAmountsScoreHigh(t *testing.T) {
	// Four trips at an identical cost: 50 frequency points (capped) plus the
	// full 50 consistency points.
	var events []*model.Event
	for i := 0; i < 4; i++ {
		events = append(events, tripEvent(
			time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC), 500, 3))
	}

	archetypes := GenerateBudgetArchetypes(events)
	require.Len(t, archetypes, 1)
	assert.Equal(t, 100.0, archetypes[0].Confidence)
	assert.Equal(t, time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), archetypes[0].LastOccurrence)
}

func TestGenerateBudgetArchetypesFrequencyCap(t *testing.T) {
	// Two occurrences earn 30 frequency points, not 50.
	events := []*model.Event{
		tripEvent(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 500, 3),
		tripEvent(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 500, 3),
	}
	archetypes := GenerateBudgetArchetypes(events)
	require.Len(t, archetypes, 1)
	assert.Equal(t, 80.0, archetypes[0].Confidence) // 30 + 50
}

func TestGenerateBudgetArchetypesSortedByConfidence(t *testing.T) {
	social := &model.Event{
		EventType:    "Social Week",
		StartDate:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC),
		DurationDays: 6,
		TotalAmount:  200,
	}
	events := []*model.Event{
		social,
		tripEvent(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 500, 3),
		tripEvent(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 500, 3),
		tripEvent(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 500, 3),
	}

	archetypes := GenerateBudgetArchetypes(events)
	require.Len(t, archetypes, 2)
	assert.Equal(t, "Trip", archetypes[0].EventType)
	assert.Equal(t, "Social Week", archetypes[1].EventType)
	assert.Greater(t, archetypes[0].Confidence, archetypes[1].Confidence)
}

func TestNormalizeBreakdownSumsToHundred(t *testing.T) {
	// Thirds do not round cleanly; the remainder lands on the largest share.
	mix := map[model.Priority]float64{
		model.PriorityNeeds:   100,
		model.PriorityWants:   100,
		model.PrioritySavings: 100.01,
	}
	breakdown := normalizeBreakdown(mix, 300.01)

	var sum float64
	for _, share := range breakdown {
		sum += share
	}
	assert.Equal(t, 100.0, sum)
	assert.GreaterOrEqual(t, breakdown[model.PrioritySavings], breakdown[model.PriorityNeeds])
}
