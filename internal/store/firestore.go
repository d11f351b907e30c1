package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ylcard/budgetwise/internal/model"
)

const (
	transactionsCollection  = "transactions"
	categoriesCollection    = "categories"
	goalsCollection         = "goals"
	customBudgetsCollection = "customBudgets"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

// applyDateAwarePagination handles pagination for queries with date range
// filters. Firestore requires OrderBy on inequality fields first, so we use
// OrderBy("Date") + OrderBy(__name__); the cursor carries both values.
func (s *FirestoreStore) applyDateAwarePagination(ctx context.Context, query firestore.Query, collection string, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy("Date", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		dateVal := cursorDoc.Data()["Date"]
		query = query.StartAfter(dateVal, docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1) // +1 to detect next page
	return query, nil
}

// Transaction operations

func (s *FirestoreStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	_, err := s.client.Collection(transactionsCollection).Doc(tx.ID).Set(ctx, tx)
	return err
}

func (s *FirestoreStore) GetTransaction(ctx context.Context, txID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(transactionsCollection).Doc(txID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	var tx model.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return &tx, nil
}

func (s *FirestoreStore) UpdateTransaction(ctx context.Context, tx *model.Transaction) error {
	tx.UpdatedAt = time.Now()
	_, err := s.client.Collection(transactionsCollection).Doc(tx.ID).Set(ctx, tx)
	return err
}

func (s *FirestoreStore) DeleteTransaction(ctx context.Context, txID string) error {
	_, err := s.client.Collection(transactionsCollection).Doc(txID).Delete(ctx)
	return err
}

func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	query := s.client.Collection(transactionsCollection).Query
	if userID != "" {
		// Field names match Go struct field names; Firestore serializes
		// structs with PascalCase keys.
		query = query.Where("UserID", "==", userID)
	}
	if startDate != nil {
		query = query.Where("Date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("Date", "<=", *endDate)
	}

	query, err := s.applyDateAwarePagination(ctx, query, transactionsCollection, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list transactions: %w", err)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	var nextPageToken string
	if len(docs) > int(pageSize) {
		docs = docs[:pageSize]
		nextPageToken = EncodePageToken(docs[pageSize-1].Ref.ID)
	}

	transactions := make([]*model.Transaction, 0, len(docs))
	for _, doc := range docs {
		var tx model.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return nil, "", fmt.Errorf("failed to parse transaction: %w", err)
		}
		transactions = append(transactions, &tx)
	}
	return transactions, nextPageToken, nil
}

// Category operations

func (s *FirestoreStore) CreateCategory(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	_, err := s.client.Collection(categoriesCollection).Doc(category.ID).Set(ctx, category)
	return err
}

func (s *FirestoreStore) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	query := s.client.Collection(categoriesCollection).Query
	if userID != "" {
		query = query.Where("UserID", "==", userID)
	}

	var categories []*model.Category
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		var category model.Category
		if err := doc.DataTo(&category); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		categories = append(categories, &category)
	}
	return categories, nil
}

func (s *FirestoreStore) DeleteCategory(ctx context.Context, categoryID string) error {
	_, err := s.client.Collection(categoriesCollection).Doc(categoryID).Delete(ctx)
	return err
}

// Goal operations

func (s *FirestoreStore) CreateGoal(ctx context.Context, goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	_, err := s.client.Collection(goalsCollection).Doc(goal.ID).Set(ctx, goal)
	return err
}

func (s *FirestoreStore) ListGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	query := s.client.Collection(goalsCollection).Query
	if userID != "" {
		query = query.Where("UserID", "==", userID)
	}

	var goals []*model.Goal
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list goals: %w", err)
		}
		var goal model.Goal
		if err := doc.DataTo(&goal); err != nil {
			return nil, fmt.Errorf("failed to parse goal: %w", err)
		}
		goals = append(goals, &goal)
	}
	return goals, nil
}

func (s *FirestoreStore) DeleteGoal(ctx context.Context, goalID string) error {
	_, err := s.client.Collection(goalsCollection).Doc(goalID).Delete(ctx)
	return err
}

// Custom budget operations

func (s *FirestoreStore) CreateCustomBudget(ctx context.Context, budget *model.CustomBudget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.Status == "" {
		budget.Status = model.CustomBudgetStatusActive
	}
	_, err := s.client.Collection(customBudgetsCollection).Doc(budget.ID).Set(ctx, budget)
	return err
}

func (s *FirestoreStore) GetCustomBudget(ctx context.Context, budgetID string) (*model.CustomBudget, error) {
	doc, err := s.client.Collection(customBudgetsCollection).Doc(budgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get custom budget: %w", err)
	}
	var budget model.CustomBudget
	if err := doc.DataTo(&budget); err != nil {
		return nil, fmt.Errorf("failed to parse custom budget: %w", err)
	}
	return &budget, nil
}

func (s *FirestoreStore) UpdateCustomBudget(ctx context.Context, budget *model.CustomBudget) error {
	_, err := s.client.Collection(customBudgetsCollection).Doc(budget.ID).Set(ctx, budget)
	return err
}

func (s *FirestoreStore) ListCustomBudgets(ctx context.Context, userID string, includeCompleted bool) ([]*model.CustomBudget, error) {
	query := s.client.Collection(customBudgetsCollection).Query
	if userID != "" {
		query = query.Where("UserID", "==", userID)
	}
	if !includeCompleted {
		query = query.Where("Status", "==", string(model.CustomBudgetStatusActive))
	}

	var budgets []*model.CustomBudget
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list custom budgets: %w", err)
		}
		var budget model.CustomBudget
		if err := doc.DataTo(&budget); err != nil {
			return nil, fmt.Errorf("failed to parse custom budget: %w", err)
		}
		budgets = append(budgets, &budget)
	}
	return budgets, nil
}
