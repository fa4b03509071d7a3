// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/kmoroz/hearth/internal/models"
)

// Store defines the interface for record-store operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the service layer.
//
// Methods return errs.ErrNotFound for missing entities and errs.ErrConflict
// when a conditional rotation write loses an optimistic-concurrency race.
type Store interface {
	// CreateHousehold persists a new household. ID and CreatedAt are
	// populated by the store when unset.
	CreateHousehold(ctx context.Context, h *models.Household) error

	// GetHousehold retrieves a household by ID.
	GetHousehold(ctx context.Context, householdID string) (*models.Household, error)

	// AddMember appends a member to a household roster.
	AddMember(ctx context.Context, m *models.Member) error

	// ListMembers returns the household roster ordered by join time.
	// Fails with errs.ErrNotFound for an unknown household; an empty
	// roster on a known household is a valid result.
	ListMembers(ctx context.Context, householdID string) ([]models.Member, error)

	// CreateChore persists a new chore.
	CreateChore(ctx context.Context, c *models.Chore) error

	// GetChore retrieves a chore by ID.
	GetChore(ctx context.Context, choreID string) (*models.Chore, error)

	// ListChores returns a household's chores ordered by creation time.
	ListChores(ctx context.Context, householdID string) ([]models.Chore, error)

	// CompleteChore atomically appends the completion record and advances
	// the chore to completion.NextAssigneeID, conditional on the chore's
	// current assignee still being prevAssigneeID. Returns errs.ErrConflict
	// if another completion won the race.
	CompleteChore(ctx context.Context, completion *models.ChoreCompletion, prevAssigneeID string) error

	// ListCompletions returns a chore's completion history, newest first.
	ListCompletions(ctx context.Context, choreID string) ([]models.ChoreCompletion, error)

	// DeleteChore removes a chore and all its completion records.
	DeleteChore(ctx context.Context, choreID string) error

	// CreateItem persists a new shopping item.
	CreateItem(ctx context.Context, i *models.ShoppingItem) error

	// GetItem retrieves a shopping item by ID.
	GetItem(ctx context.Context, itemID string) (*models.ShoppingItem, error)

	// ListItems returns a household's shopping items ordered by creation
	// time ascending. This ordering defines positional index derivation.
	ListItems(ctx context.Context, householdID string) ([]models.ShoppingItem, error)

	// RotateItem atomically appends the purchase log entry and resets the
	// item to unpurchased/unflagged with assigned index nextIndex,
	// conditional on the item's assigned index still being prevIndex
	// (nil for a positionally derived item). Returns errs.ErrConflict if
	// another purchase won the race.
	RotateItem(ctx context.Context, log *models.ShoppingLog, itemID string, prevIndex *int, nextIndex int) error

	// FlagItem atomically appends the flag log entry and sets the item's
	// flagged-by name. Purchase flag and assigned index are untouched.
	FlagItem(ctx context.Context, log *models.ShoppingLog, itemID, flaggedBy string) error

	// DeleteItem removes a shopping item.
	DeleteItem(ctx context.Context, itemID string) error

	// ListShoppingLogs returns a household's shopping activity, newest first.
	ListShoppingLogs(ctx context.Context, householdID string) ([]models.ShoppingLog, error)

	// CreateExpense persists a new expense with its debtor set.
	CreateExpense(ctx context.Context, e *models.Expense) error

	// GetExpense retrieves an expense by ID, including debtors and any
	// custom amounts.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns a household's expenses, newest first.
	ListExpenses(ctx context.Context, householdID string) ([]models.Expense, error)

	// DeleteExpense removes an expense and its payment logs.
	DeleteExpense(ctx context.Context, expenseID string) error

	// AppendPaymentLog appends one settlement event. Never deduplicates.
	AppendPaymentLog(ctx context.Context, l *models.PaymentLog) error

	// ListPaymentLogs returns all payment logs for one expense.
	ListPaymentLogs(ctx context.Context, expenseID string) ([]models.PaymentLog, error)

	// ListHouseholdPaymentLogs returns all payment logs for a household,
	// for deriving settlement state across an expense list in one read.
	ListHouseholdPaymentLogs(ctx context.Context, householdID string) ([]models.PaymentLog, error)

	// Close releases any resources held by the store.
	Close() error
}
