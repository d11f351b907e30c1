// Package store provides persistence for transactions, categories, goals and
// custom budgets, with in-memory and Firestore implementations.
package store

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/ylcard/budgetwise/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the database operations used by the service layer.
type Store interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	GetTransaction(ctx context.Context, txID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *model.Transaction) error
	DeleteTransaction(ctx context.Context, txID string) error
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error)

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	ListCategories(ctx context.Context, userID string) ([]*model.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error

	// Goal operations
	CreateGoal(ctx context.Context, goal *model.Goal) error
	ListGoals(ctx context.Context, userID string) ([]*model.Goal, error)
	DeleteGoal(ctx context.Context, goalID string) error

	// Custom budget operations
	CreateCustomBudget(ctx context.Context, budget *model.CustomBudget) error
	GetCustomBudget(ctx context.Context, budgetID string) (*model.CustomBudget, error)
	UpdateCustomBudget(ctx context.Context, budget *model.CustomBudget) error
	ListCustomBudgets(ctx context.Context, userID string, includeCompleted bool) ([]*model.CustomBudget, error)
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
