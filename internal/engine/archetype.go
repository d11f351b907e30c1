package engine

import (
	"math"
	"sort"

	"github.com/ylcard/budgetwise/internal/model"
)

const (
	// Each occurrence of an event type earns this many confidence points,
	// capped at occurrenceCap.
	occurrencePoints = 15.0
	occurrenceCap    = 50.0
	// A single-occurrence group gets this fixed confidence.
	singleOccurrenceConfidence = 50.0
)

// archetypeDisplayNames maps detected event types to template names shown to
// the user. Unlisted types fall back to a title-cased "<type> Budget".
var archetypeDisplayNames = map[string]string{
	"Trip":           "Travel Budget",
	"Weekend Trip":   "Weekend Getaway Budget",
	"Day Trip":       "Day Trip Budget",
	"Concert/Event":  "Concerts & Events Budget",
	"Social Week":    "Social Spending Budget",
	"Special Period": "Special Occasion Budget",
}

// GenerateBudgetArchetypes summarizes detected events into reusable budget
// templates, one per event type. Confidence rewards both frequency
// (15 points per occurrence, capped at 50) and amount consistency
// (50 − cv×100, floored at 0), so a type seen often at similar cost scores
// near 100. Output is sorted by confidence descending.
func GenerateBudgetArchetypes(events []*model.Event) []*model.Archetype {
	if len(events) == 0 {
		return []*model.Archetype{}
	}

	groups := make(map[string][]*model.Event)
	for _, e := range events {
		groups[e.EventType] = append(groups[e.EventType], e)
	}

	archetypes := make([]*model.Archetype, 0, len(groups))
	for eventType, group := range groups {
		var amounts []float64
		var totalAmount, totalDuration float64
		mix := make(map[model.Priority]float64)
		last := group[0].EndDate
		for _, e := range group {
			amounts = append(amounts, e.TotalAmount)
			totalAmount += e.TotalAmount
			totalDuration += float64(e.DurationDays)
			for p, amt := range e.CategoryPriorityMix {
				mix[p] += amt
			}
			if e.EndDate.After(last) {
				last = e.EndDate
			}
		}

		confidence := singleOccurrenceConfidence
		if len(group) > 1 {
			frequency := math.Min(float64(len(group))*occurrencePoints, occurrenceCap)
			consistency := math.Max(0, 50-coefficientOfVariation(amounts)*100)
			confidence = frequency + consistency
		}

		displayName, ok := archetypeDisplayNames[eventType]
		if !ok {
			displayName = titleCaser.String(eventType) + " Budget"
		}

		archetypes = append(archetypes, &model.Archetype{
			EventType:         eventType,
			DisplayName:       displayName,
			AverageAmount:     round2(totalAmount / float64(len(group))),
			AverageDuration:   round2(totalDuration / float64(len(group))),
			Occurrences:       len(group),
			CategoryBreakdown: normalizeBreakdown(mix, totalAmount),
			LastOccurrence:    last,
			Confidence:        round2(confidence),
		})
	}

	sort.Slice(archetypes, func(i, j int) bool {
		return archetypes[i].Confidence > archetypes[j].Confidence
	})
	return archetypes
}

// normalizeBreakdown converts absolute per-priority spend into percentages
// that sum to exactly 100. Each share is rounded down to a whole percent and
// the leftover points go to the largest share, so rounding never makes the
// total drift.
func normalizeBreakdown(mix map[model.Priority]float64, total float64) map[model.Priority]float64 {
	breakdown := make(map[model.Priority]float64, len(mix))
	if total <= 0 {
		return breakdown
	}

	var allocated float64
	var largest model.Priority
	var largestShare float64
	for p, amt := range mix {
		share := math.Floor(amt / total * 100)
		breakdown[p] = share
		allocated += share
		if amt > largestShare {
			largestShare = amt
			largest = p
		}
	}
	if remainder := 100 - allocated; remainder > 0 {
		breakdown[largest] += remainder
	}
	return breakdown
}
