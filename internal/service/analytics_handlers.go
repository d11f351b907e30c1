package service

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ylcard/budgetwise/internal/engine"
	"github.com/ylcard/budgetwise/internal/model"
)

// referenceDate resolves the month under view. Without a "month" query
// parameter it is now; a past month resolves to its last day so the full
// month is measured (the day-cursor rule).
func (s *AnalyticsService) referenceDate(r *http.Request) (time.Time, bool) {
	now := s.now()
	v := r.URL.Query().Get("month")
	if v == "" {
		return now, true
	}
	month, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, false
	}
	if month.Year() == now.Year() && month.Month() == now.Month() {
		return now, true
	}
	return month.AddDate(0, 1, -1), true
}

// currentMonthOf filters a history snapshot down to the reference month.
func currentMonthOf(txns []*model.Transaction, reference time.Time) []*model.Transaction {
	var result []*model.Transaction
	for _, t := range txns {
		d := t.EffectiveDate()
		if d.Year() == reference.Year() && d.Month() == reference.Month() {
			result = append(result, t)
		}
	}
	return result
}

func (s *AnalyticsService) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	reference, ok := s.referenceDate(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	history, err := s.loadFullHistory(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list categories", err)
		return
	}
	goals, err := s.store.ListGoals(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list goals", err)
		return
	}

	buckets := engine.BuildMonthlyBuckets(history, reference)

	monthlyIncome := avgMonthlyIncome(buckets)
	if v := r.URL.Query().Get("monthlyIncome"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid monthlyIncome")
			return
		}
		monthlyIncome = parsed
	}

	policy := model.ResolveTargetPolicy(goals, monthlyIncome)
	score := engine.CalculateFinancialHealth(
		currentMonthOf(history, reference), history, monthlyIncome, reference, policy, categories)

	s.logger.Info().Str("user", userID).Int("score", score.TotalScore).Msg("health score computed")
	s.writeJSON(w, http.StatusOK, score)
}

// avgMonthlyIncome falls back to observed income when the caller does not
// supply one.
func avgMonthlyIncome(buckets []*model.MonthlyBucket) float64 {
	var sum float64
	var count int
	for _, b := range buckets {
		if b.TotalIncome > 0 {
			sum += b.TotalIncome
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (s *AnalyticsService) handleProjection(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	reference, ok := s.referenceDate(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	history, err := s.loadFullHistory(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}

	baseline := engine.HistoricalBaseline(engine.BuildMonthlyBuckets(history, reference))
	projection := engine.EstimateCurrentMonth(currentMonthOf(history, reference), baseline, reference)
	s.writeJSON(w, http.StatusOK, projection)
}

func (s *AnalyticsService) handleEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	history, err := s.loadFullHistory(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list categories", err)
		return
	}

	events := engine.AnalyzeEventPatterns(history, categories)
	s.logger.Info().Str("user", userID).Int("events", len(events)).Msg("event detection run")
	s.writeJSON(w, http.StatusOK, events)
}

func (s *AnalyticsService) handleArchetypes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	history, err := s.loadFullHistory(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list categories", err)
		return
	}

	archetypes := engine.GenerateBudgetArchetypes(engine.AnalyzeEventPatterns(history, categories))
	s.writeJSON(w, http.StatusOK, archetypes)
}

func (s *AnalyticsService) handleElasticity(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	history, err := s.loadFullHistory(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list categories", err)
		return
	}

	s.writeJSON(w, http.StatusOK, engine.AnalyzeExpenseElasticity(history, categories))
}

type feasibilityRequest struct {
	ProposedAmount float64 `json:"proposedAmount"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
}

func (s *AnalyticsService) handleFeasibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req feasibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid feasibility body")
		return
	}

	// Unparseable dates stay zero: the engine grades those as F with a
	// message instead of failing the request.
	var start, end time.Time
	if req.StartDate != "" {
		start, _ = time.Parse("2006-01-02", req.StartDate)
	}
	if req.EndDate != "" {
		end, _ = time.Parse("2006-01-02", req.EndDate)
	}

	history, err := s.loadFullHistory(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}

	result := engine.CheckBudgetImpact(req.ProposedAmount, start, end, history, s.now())
	s.logger.Info().Str("user", userID).Str("grade", result.Grade).Msg("feasibility graded")
	s.writeJSON(w, http.StatusOK, result)
}
