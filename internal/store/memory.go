package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ylcard/budgetwise/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for local
// development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions  map[string]*model.Transaction
	categories    map[string]*model.Category
	goals         map[string]*model.Goal
	customBudgets map[string]*model.CustomBudget
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions:  make(map[string]*model.Transaction),
		categories:    make(map[string]*model.Category),
		goals:         make(map[string]*model.Goal),
		customBudgets: make(map[string]*model.CustomBudget),
	}
}

// paginateIDs sorts matching IDs and applies cursor pagination, returning the
// page and the next-page token.
func paginateIDs(ids []string, pageSize int32, pageToken string) ([]string, string) {
	if pageSize <= 0 {
		pageSize = 100
	}

	sort.Strings(ids)

	startIdx := 0
	if pageToken != "" {
		cursorID, err := DecodePageToken(pageToken)
		if err == nil {
			for i, id := range ids {
				if id > cursorID {
					startIdx = i
					break
				}
				if i == len(ids)-1 {
					return nil, ""
				}
			}
		}
	}

	ids = ids[startIdx:]

	var nextToken string
	if int32(len(ids)) > pageSize {
		ids = ids[:pageSize]
		nextToken = EncodePageToken(ids[len(ids)-1])
	}
	return ids, nextToken
}

// Transaction operations

func (m *MemoryStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, txID string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tx, ok := m.transactions[txID]
	if !ok {
		return nil, ErrNotFound
	}
	return tx, nil
}

func (m *MemoryStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[tx.ID]; !ok {
		return ErrNotFound
	}
	tx.UpdatedAt = time.Now()
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, txID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.transactions, txID)
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matchingIDs []string
	for id, tx := range m.transactions {
		if userID != "" && tx.UserID != userID {
			continue
		}
		if startDate != nil && tx.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && tx.Date.After(*endDate) {
			continue
		}
		matchingIDs = append(matchingIDs, id)
	}

	paginatedIDs, nextToken := paginateIDs(matchingIDs, pageSize, pageToken)
	result := make([]*model.Transaction, 0, len(paginatedIDs))
	for _, id := range paginatedIDs {
		result = append(result, m.transactions[id])
	}
	// Stable chronological order for callers feeding the analytics engine
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID < result[j].ID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nextToken, nil
}

// Category operations

func (m *MemoryStore) CreateCategory(ctx context.Context, category *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MemoryStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Category
	for _, c := range m.categories {
		if userID != "" && c.UserID != userID {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, categoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.categories, categoryID)
	return nil
}

// Goal operations

func (m *MemoryStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	m.goals[goal.ID] = goal
	return nil
}

func (m *MemoryStore) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Goal
	for _, g := range m.goals {
		if userID != "" && g.UserID != userID {
			continue
		}
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MemoryStore) DeleteGoal(ctx context.Context, goalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.goals, goalID)
	return nil
}

// Custom budget operations

func (m *MemoryStore) CreateCustomBudget(ctx context.Context, budget *model.CustomBudget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.Status == "" {
		budget.Status = model.CustomBudgetStatusActive
	}
	m.customBudgets[budget.ID] = budget
	return nil
}

func (m *MemoryStore) GetCustomBudget(ctx context.Context, budgetID string) (*model.CustomBudget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	budget, ok := m.customBudgets[budgetID]
	if !ok {
		return nil, ErrNotFound
	}
	return budget, nil
}

func (m *MemoryStore) UpdateCustomBudget(ctx context.Context, budget *model.CustomBudget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customBudgets[budget.ID]; !ok {
		return ErrNotFound
	}
	m.customBudgets[budget.ID] = budget
	return nil
}

func (m *MemoryStore) ListCustomBudgets(ctx context.Context, userID string, includeCompleted bool) ([]*model.CustomBudget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.CustomBudget
	for _, b := range m.customBudgets {
		if userID != "" && b.UserID != userID {
			continue
		}
		if !includeCompleted && b.Status == model.CustomBudgetStatusCompleted {
			continue
		}
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}
