// Package service exposes the analytics engine and its backing store over a
// JSON HTTP surface.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ylcard/budgetwise/internal/model"
	"github.com/ylcard/budgetwise/internal/store"
)

// userIDHeader carries the caller identity. Authentication itself lives in
// front of this service; the header is the seam where the session layer
// plugs in.
const userIDHeader = "X-User-ID"

const listPageSize = 500

// AnalyticsService binds the store to the analytics engine and serves both
// over HTTP.
type AnalyticsService struct {
	store  store.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewAnalyticsService creates the service. The clock is injectable for tests.
func NewAnalyticsService(s store.Store, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{store: s, logger: logger, now: time.Now}
}

// Register attaches all routes to the mux.
func (s *AnalyticsService) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /v1/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /v1/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /v1/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /v1/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /v1/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /v1/categories", s.handleListCategories)
	mux.HandleFunc("DELETE /v1/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("POST /v1/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /v1/goals", s.handleListGoals)
	mux.HandleFunc("DELETE /v1/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("POST /v1/budgets", s.handleCreateCustomBudget)
	mux.HandleFunc("GET /v1/budgets", s.handleListCustomBudgets)
	mux.HandleFunc("PUT /v1/budgets/{id}", s.handleUpdateCustomBudget)

	mux.HandleFunc("GET /v1/analytics/health", s.handleHealthScore)
	mux.HandleFunc("GET /v1/analytics/projection", s.handleProjection)
	mux.HandleFunc("GET /v1/analytics/events", s.handleEvents)
	mux.HandleFunc("GET /v1/analytics/archetypes", s.handleArchetypes)
	mux.HandleFunc("GET /v1/analytics/elasticity", s.handleElasticity)
	mux.HandleFunc("POST /v1/analytics/feasibility", s.handleFeasibility)
}

// userID extracts the caller identity, failing the request when absent.
func (s *AnalyticsService) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(userIDHeader)
	if id == "" {
		s.writeError(w, http.StatusUnauthorized, "missing "+userIDHeader+" header")
		return "", false
	}
	return id, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *AnalyticsService) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *AnalyticsService) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *AnalyticsService) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, op+": not found")
		return
	}
	s.logger.Error().Err(err).Str("op", op).Msg("store error")
	s.writeError(w, http.StatusInternalServerError, op+" failed")
}

// loadFullHistory pages through every transaction the user has, feeding the
// engine a complete snapshot.
func (s *AnalyticsService) loadFullHistory(ctx context.Context, userID string) ([]*model.Transaction, error) {
	var all []*model.Transaction
	var pageToken string
	for {
		txns, nextToken, err := s.store.ListTransactions(ctx, userID, nil, nil, listPageSize, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
		if nextToken == "" {
			return all, nil
		}
		pageToken = nextToken
	}
}
