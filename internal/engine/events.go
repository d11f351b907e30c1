package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ylcard/budgetwise/internal/model"
)

const (
	// A day opens a cluster when its total exceeds spikeMultiplier × the
	// median daily spend.
	spikeMultiplier = 2.0
	// Subsequent days join the cluster when they exceed clusterMultiplier ×
	// the median daily spend.
	clusterMultiplier = 1.2
	// Maximum forward span of a cluster window, in days.
	maxClusterSpanDays = 7
	// A cluster needs at least this many qualifying days to become an event.
	minClusterDays = 2
	// Below this many expense transactions the detector returns nothing.
	minExpenseTransactions = 3
)

type spendingDay struct {
	day   time.Time
	total float64
	txns  []*model.Transaction
}

// AnalyzeEventPatterns clusters days of abnormally high spending into
// discrete life events (trips, concerts, social weeks).
//
// It considers paid expenses only. Daily totals are compared against a
// baseline of the median daily spend: a day above 2× the baseline opens a
// cluster window of up to 7 days forward, collecting every day above 1.2×
// the baseline. Clusters with at least two qualifying days become events; the
// scan resumes past the consumed cluster. A zero baseline means any positive
// day opens a cluster, which is accepted heuristic behavior.
func AnalyzeEventPatterns(txns []*model.Transaction, categories []*model.Category) []*model.Event {
	priorities := make(map[string]model.Priority, len(categories))
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		priorities[c.ID] = c.Priority
		names[c.ID] = c.Name
	}

	var expenses []*model.Transaction
	for _, t := range txns {
		if t.Type == model.TransactionTypeExpense && t.IsPaid {
			expenses = append(expenses, t)
		}
	}
	if len(expenses) < minExpenseTransactions {
		return []*model.Event{}
	}

	byDay := make(map[time.Time]*spendingDay)
	for _, t := range expenses {
		d := t.EffectiveDate()
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		sd, ok := byDay[day]
		if !ok {
			sd = &spendingDay{day: day}
			byDay[day] = sd
		}
		sd.total += t.Amount
		sd.txns = append(sd.txns, t)
	}

	days := make([]*spendingDay, 0, len(byDay))
	totals := make([]float64, 0, len(byDay))
	for _, sd := range byDay {
		days = append(days, sd)
		totals = append(totals, sd.total)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].day.Before(days[j].day) })

	baseline := median(totals)
	spikeBar := baseline * spikeMultiplier
	memberBar := baseline * clusterMultiplier

	var events []*model.Event
	i := 0
	for i < len(days) {
		if days[i].total <= spikeBar {
			i++
			continue
		}

		windowEnd := days[i].day.AddDate(0, 0, maxClusterSpanDays)
		cluster := []*spendingDay{days[i]}
		last := i
		for j := i + 1; j < len(days) && !days[j].day.After(windowEnd); j++ {
			if days[j].total > memberBar {
				cluster = append(cluster, days[j])
				last = j
			}
		}

		if len(cluster) < minClusterDays {
			i++
			continue
		}
		events = append(events, buildEvent(cluster, priorities, names))
		i = last + 1
	}
	if events == nil {
		return []*model.Event{}
	}
	return events
}

func buildEvent(cluster []*spendingDay, priorities map[string]model.Priority, names map[string]string) *model.Event {
	var clusterTxns []*model.Transaction
	var total float64
	mix := make(map[model.Priority]float64)
	for _, sd := range cluster {
		for _, t := range sd.txns {
			clusterTxns = append(clusterTxns, t)
			total += t.Amount
			p, ok := priorities[t.CategoryID]
			if !ok {
				p = model.PriorityWants
			}
			mix[p] += t.Amount
		}
	}

	start := cluster[0].day
	end := cluster[len(cluster)-1].day
	traits := analyzeClusterTraits(clusterTxns, names)

	return &model.Event{
		ID:                  uuid.New().String(),
		StartDate:           start,
		EndDate:             end,
		DurationDays:        int(end.Sub(start).Hours()/24) + 1,
		TotalAmount:         round2(total),
		TransactionCount:    len(clusterTxns),
		CategoryPriorityMix: mix,
		EventType:           classifyEventType(traits),
		AnchorExpense:       findAnchorExpense(clusterTxns),
		Locations:           extractLocations(clusterTxns),
		Transactions:        clusterTxns,
	}
}

// ----------------------------------------------------------------------------
// Event typing
// ----------------------------------------------------------------------------

var (
	ticketKeywords    = []string{"ticket", "concert", "festival", "show", "cinema", "theatre", "gig", "entertainment"}
	flightKeywords    = []string{"flight", "airline", "airways", "airfare", "airport"}
	hotelKeywords     = []string{"hotel", "hostel", "airbnb", "resort", "motel", "lodge", "accommodation"}
	transportKeywords = []string{"uber", "taxi", "train", "bus", "fuel", "petrol", "parking", "toll", "rental car", "transport", "travel", "transit"}
	diningKeywords    = []string{"restaurant", "cafe", "bar", "pub", "dinner", "lunch", "brunch", "bistro", "grill", "pizzeria", "dining", "food"}
)

type clusterTraits struct {
	hasTicket    bool
	hasFlight    bool
	hasHotel     bool
	hasTransport bool
	hasDining    bool
	diningHeavy  bool
	txnCount     int
}

// eventTypeRules is evaluated in order; the first matching rule wins. Keeping
// the rules as an explicit ordered table lets new event types slot in without
// restructuring control flow.
var eventTypeRules = []struct {
	eventType string
	match     func(clusterTraits) bool
}{
	{"Concert/Event", func(t clusterTraits) bool { return t.hasTicket }},
	{"Trip", func(t clusterTraits) bool { return t.hasFlight || (t.hasHotel && t.hasTransport) }},
	{"Weekend Trip", func(t clusterTraits) bool { return t.hasHotel && t.txnCount <= 7 }},
	{"Day Trip", func(t clusterTraits) bool { return t.hasTransport && t.hasDining && t.txnCount <= 5 }},
	{"Social Week", func(t clusterTraits) bool { return t.diningHeavy && t.txnCount >= 5 }},
	{"Special Period", func(clusterTraits) bool { return true }},
}

func classifyEventType(traits clusterTraits) string {
	for _, rule := range eventTypeRules {
		if rule.match(traits) {
			return rule.eventType
		}
	}
	return "Special Period"
}

func analyzeClusterTraits(txns []*model.Transaction, names map[string]string) clusterTraits {
	traits := clusterTraits{txnCount: len(txns)}
	diningCount := 0
	for _, t := range txns {
		text := strings.ToLower(t.Description + " " + names[t.CategoryID])
		if matchesAny(text, ticketKeywords) {
			traits.hasTicket = true
		}
		if matchesAny(text, flightKeywords) {
			traits.hasFlight = true
		}
		if matchesAny(text, hotelKeywords) {
			traits.hasHotel = true
		}
		if matchesAny(text, transportKeywords) {
			traits.hasTransport = true
		}
		if matchesAny(text, diningKeywords) {
			traits.hasDining = true
			diningCount++
		}
	}
	traits.diningHeavy = diningCount*2 >= len(txns) && diningCount > 0
	return traits
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// Anchor expense and locations
// ----------------------------------------------------------------------------

// anchorKeywords identify the expense most likely to have triggered the event
// (the flight, the hotel booking, the ticket purchase).
var anchorKeywords = []string{"flight", "hotel", "airbnb", "resort", "ticket", "concert", "festival", "tour"}

// findAnchorExpense returns the first transaction matching an anchor keyword,
// falling back to the largest transaction in the cluster.
func findAnchorExpense(txns []*model.Transaction) *model.Transaction {
	for _, t := range txns {
		if matchesAny(strings.ToLower(t.Description), anchorKeywords) {
			return t
		}
	}
	var largest *model.Transaction
	for _, t := range txns {
		if largest == nil || t.Amount > largest.Amount {
			largest = t
		}
	}
	return largest
}

// cityGazetteer is a fixed list of common destination cities matched against
// transaction descriptions.
var cityGazetteer = []string{
	"paris", "london", "rome", "barcelona", "madrid", "lisbon", "porto",
	"amsterdam", "berlin", "munich", "vienna", "prague", "budapest", "athens",
	"dublin", "edinburgh", "venice", "florence", "milan", "naples", "seville",
	"valencia", "brussels", "copenhagen", "stockholm", "oslo", "helsinki",
	"zurich", "geneva", "istanbul", "dubai", "tokyo", "kyoto", "osaka",
	"seoul", "bangkok", "singapore", "sydney", "melbourne", "auckland",
	"new york", "los angeles", "san francisco", "chicago", "miami", "toronto",
	"vancouver", "mexico city",
}

var titleCaser = cases.Title(language.English)

func extractLocations(txns []*model.Transaction) []string {
	seen := make(map[string]bool)
	var locations []string
	for _, t := range txns {
		text := strings.ToLower(t.Description)
		for _, city := range cityGazetteer {
			if seen[city] || !strings.Contains(text, city) {
				continue
			}
			seen[city] = true
			locations = append(locations, titleCaser.String(city))
		}
	}
	return locations
}
