package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
)

// CreateItem persists a new shopping item to the database.
func (s *SQLiteStore) CreateItem(ctx context.Context, i *models.ShoppingItem) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.CreatedAt == 0 {
		i.CreatedAt = time.Now().Unix()
	}
	if i.Quantity == 0 {
		i.Quantity = 1
	}

	var flaggedBy interface{}
	if i.FlaggedBy != nil {
		flaggedBy = *i.FlaggedBy
	}
	var assignedIndex interface{}
	if i.AssignedIndex != nil {
		assignedIndex = *i.AssignedIndex
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_items (id, household_id, name, quantity, is_purchased, flagged_by, assigned_member_index, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.HouseholdID, i.Name, i.Quantity, i.Purchased, flaggedBy, assignedIndex, i.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping item: %w", err)
	}
	return nil
}

func scanItem(scan func(dest ...interface{}) error) (*models.ShoppingItem, error) {
	i := &models.ShoppingItem{}
	var flaggedBy sql.NullString
	var assignedIndex sql.NullInt64
	if err := scan(&i.ID, &i.HouseholdID, &i.Name, &i.Quantity, &i.Purchased, &flaggedBy, &assignedIndex, &i.CreatedAt); err != nil {
		return nil, err
	}
	if flaggedBy.Valid {
		i.FlaggedBy = &flaggedBy.String
	}
	if assignedIndex.Valid {
		idx := int(assignedIndex.Int64)
		i.AssignedIndex = &idx
	}
	return i, nil
}

// GetItem retrieves a shopping item by ID.
func (s *SQLiteStore) GetItem(ctx context.Context, itemID string) (*models.ShoppingItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, name, quantity, is_purchased, flagged_by, assigned_member_index, created_at
		 FROM shopping_items WHERE id = ?`,
		itemID,
	)
	i, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("shopping item %s: %w", itemID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping item: %w", err)
	}
	return i, nil
}

// ListItems returns a household's shopping items ordered by creation time
// ascending. Positional index derivation depends on this ordering, so the
// id tiebreak keeps same-second items stable.
func (s *SQLiteStore) ListItems(ctx context.Context, householdID string) ([]models.ShoppingItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, quantity, is_purchased, flagged_by, assigned_member_index, created_at
		 FROM shopping_items WHERE household_id = ? ORDER BY created_at, id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping items: %w", err)
	}
	defer rows.Close()

	var items []models.ShoppingItem
	for rows.Next() {
		i, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping items: %w", err)
	}
	return items, nil
}

// RotateItem appends the purchase log entry and resets the item with the
// next assigned index in one transaction. The update is conditional on the
// assigned index still matching prevIndex (NULL for positionally derived
// items), so a racing purchase fails with errs.ErrConflict.
func (s *SQLiteStore) RotateItem(ctx context.Context, log *models.ShoppingLog, itemID string, prevIndex *int, nextIndex int) error {
	fillLog(log)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev interface{}
	if prevIndex != nil {
		prev = *prevIndex
	}
	// "IS ?" rather than "= ?" so a NULL previous index still matches.
	res, err := tx.ExecContext(ctx,
		`UPDATE shopping_items
		 SET is_purchased = 0, flagged_by = NULL, assigned_member_index = ?
		 WHERE id = ? AND assigned_member_index IS ?`,
		nextIndex, itemID, prev,
	)
	if err != nil {
		return fmt.Errorf("failed to rotate shopping item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM shopping_items WHERE id = ?", itemID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("shopping item %s: %w", itemID, errs.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check shopping item existence: %w", err)
		}
		return fmt.Errorf("shopping item %s assignment changed: %w", itemID, errs.ErrConflict)
	}

	if err := insertShoppingLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FlagItem appends the flag log entry and marks the item flagged in one
// transaction. Purchase flag and assigned index are deliberately untouched.
func (s *SQLiteStore) FlagItem(ctx context.Context, log *models.ShoppingLog, itemID, flaggedBy string) error {
	fillLog(log)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE shopping_items SET flagged_by = ? WHERE id = ?",
		flaggedBy, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to flag shopping item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shopping item %s: %w", itemID, errs.ErrNotFound)
	}

	if err := insertShoppingLog(ctx, tx, log); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteItem removes a shopping item by ID.
func (s *SQLiteStore) DeleteItem(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM shopping_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shopping item %s: %w", itemID, errs.ErrNotFound)
	}
	return nil
}

// ListShoppingLogs returns a household's shopping activity, newest first.
func (s *SQLiteStore) ListShoppingLogs(ctx context.Context, householdID string) ([]models.ShoppingLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, action, item_name, member_name, created_at
		 FROM shopping_logs WHERE household_id = ? ORDER BY created_at DESC, id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ShoppingLog
	for rows.Next() {
		var l models.ShoppingLog
		if err := rows.Scan(&l.ID, &l.HouseholdID, &l.Action, &l.ItemName, &l.MemberName, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shopping log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping logs: %w", err)
	}
	return logs, nil
}

func fillLog(l *models.ShoppingLog) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().Unix()
	}
}

func insertShoppingLog(ctx context.Context, tx *sql.Tx, l *models.ShoppingLog) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO shopping_logs (id, household_id, action, item_name, member_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.HouseholdID, l.Action, l.ItemName, l.MemberName, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping log: %w", err)
	}
	return nil
}
