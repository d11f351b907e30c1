package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ylcard/budgetwise/internal/model"
)

func (s *AnalyticsService) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction body")
		return
	}
	if tx.Amount < 0 {
		s.writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return
	}
	if tx.Type != model.TransactionTypeIncome && tx.Type != model.TransactionTypeExpense {
		s.writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}
	if tx.Date.IsZero() {
		s.writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	tx.UserID = userID

	if err := s.store.CreateTransaction(r.Context(), &tx); err != nil {
		s.writeStoreError(w, "create transaction", err)
		return
	}
	s.logger.Info().Str("user", userID).Str("transaction", tx.ID).Msg("transaction created")
	s.writeJSON(w, http.StatusCreated, &tx)
}

type listTransactionsResponse struct {
	Transactions  []*model.Transaction `json:"transactions"`
	NextPageToken string               `json:"nextPageToken,omitempty"`
}

func (s *AnalyticsService) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var startDate, endDate *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		startDate = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		endDate = &t
	}

	txns, nextToken, err := s.store.ListTransactions(r.Context(), userID, startDate, endDate, listPageSize, r.URL.Query().Get("pageToken"))
	if err != nil {
		s.writeStoreError(w, "list transactions", err)
		return
	}
	if txns == nil {
		txns = []*model.Transaction{}
	}
	s.writeJSON(w, http.StatusOK, listTransactionsResponse{Transactions: txns, NextPageToken: nextToken})
}

func (s *AnalyticsService) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	tx, err := s.store.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, "get transaction", err)
		return
	}
	if tx.UserID != userID {
		s.writeError(w, http.StatusForbidden, "transaction belongs to another user")
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *AnalyticsService) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	existing, err := s.store.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, "get transaction", err)
		return
	}
	if existing.UserID != userID {
		s.writeError(w, http.StatusForbidden, "transaction belongs to another user")
		return
	}

	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid transaction body")
		return
	}
	if tx.Amount < 0 {
		s.writeError(w, http.StatusBadRequest, "amount must be non-negative")
		return
	}
	if tx.Type != model.TransactionTypeIncome && tx.Type != model.TransactionTypeExpense {
		s.writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}
	if tx.Date.IsZero() {
		s.writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	tx.ID = existing.ID
	tx.UserID = userID
	tx.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateTransaction(r.Context(), &tx); err != nil {
		s.writeStoreError(w, "update transaction", err)
		return
	}
	s.writeJSON(w, http.StatusOK, &tx)
}

func (s *AnalyticsService) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	tx, err := s.store.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, "get transaction", err)
		return
	}
	if tx.UserID != userID {
		s.writeError(w, http.StatusForbidden, "transaction belongs to another user")
		return
	}
	if err := s.store.DeleteTransaction(r.Context(), tx.ID); err != nil {
		s.writeStoreError(w, "delete transaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *AnalyticsService) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var category model.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid category body")
		return
	}
	if category.Name == "" {
		s.writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	switch category.Priority {
	case model.PriorityNeeds, model.PriorityWants, model.PrioritySavings:
	default:
		s.writeError(w, http.StatusBadRequest, "priority must be needs, wants or savings")
		return
	}
	category.UserID = userID

	if err := s.store.CreateCategory(r.Context(), &category); err != nil {
		s.writeStoreError(w, "create category", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &category)
}

func (s *AnalyticsService) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list categories", err)
		return
	}
	if categories == nil {
		categories = []*model.Category{}
	}
	s.writeJSON(w, http.StatusOK, categories)
}

func (s *AnalyticsService) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}
	if err := s.store.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, "delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *AnalyticsService) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var goal model.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid goal body")
		return
	}
	if goal.TargetPercentage < 0 || goal.TargetPercentage > 100 {
		s.writeError(w, http.StatusBadRequest, "targetPercentage must be between 0 and 100")
		return
	}
	goal.UserID = userID

	if err := s.store.CreateGoal(r.Context(), &goal); err != nil {
		s.writeStoreError(w, "create goal", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &goal)
}

func (s *AnalyticsService) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	goals, err := s.store.ListGoals(r.Context(), userID)
	if err != nil {
		s.writeStoreError(w, "list goals", err)
		return
	}
	if goals == nil {
		goals = []*model.Goal{}
	}
	s.writeJSON(w, http.StatusOK, goals)
}

func (s *AnalyticsService) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.userID(w, r); !ok {
		return
	}
	if err := s.store.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		s.writeStoreError(w, "delete goal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *AnalyticsService) handleCreateCustomBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var budget model.CustomBudget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid budget body")
		return
	}
	if budget.AllocatedAmount <= 0 {
		s.writeError(w, http.StatusBadRequest, "allocatedAmount must be positive")
		return
	}
	if budget.EndDate.Before(budget.StartDate) {
		s.writeError(w, http.StatusBadRequest, "endDate must not precede startDate")
		return
	}
	budget.UserID = userID

	if err := s.store.CreateCustomBudget(r.Context(), &budget); err != nil {
		s.writeStoreError(w, "create custom budget", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, &budget)
}

// handleUpdateCustomBudget applies partial updates: a completed budget stays
// out of the active list but remains available to feasibility reviews.
func (s *AnalyticsService) handleUpdateCustomBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	existing, err := s.store.GetCustomBudget(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, "get custom budget", err)
		return
	}
	if existing.UserID != userID {
		s.writeError(w, http.StatusForbidden, "budget belongs to another user")
		return
	}

	var update model.CustomBudget
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid budget body")
		return
	}
	if update.Name != "" {
		existing.Name = update.Name
	}
	if update.AllocatedAmount > 0 {
		existing.AllocatedAmount = update.AllocatedAmount
	}
	switch update.Status {
	case "":
	case model.CustomBudgetStatusActive, model.CustomBudgetStatusCompleted:
		existing.Status = update.Status
	default:
		s.writeError(w, http.StatusBadRequest, "status must be active or completed")
		return
	}

	if err := s.store.UpdateCustomBudget(r.Context(), existing); err != nil {
		s.writeStoreError(w, "update custom budget", err)
		return
	}
	s.writeJSON(w, http.StatusOK, existing)
}

func (s *AnalyticsService) handleListCustomBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	includeCompleted := r.URL.Query().Get("includeCompleted") == "true"
	budgets, err := s.store.ListCustomBudgets(r.Context(), userID, includeCompleted)
	if err != nil {
		s.writeStoreError(w, "list custom budgets", err)
		return
	}
	if budgets == nil {
		budgets = []*model.CustomBudget{}
	}
	s.writeJSON(w, http.StatusOK, budgets)
}
