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

// CreateChore persists a new chore to the database.
func (s *SQLiteStore) CreateChore(ctx context.Context, c *models.Chore) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chores (id, household_id, name, frequency, current_assignee_id, last_completed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.HouseholdID, c.Name, string(c.Frequency), c.CurrentAssigneeID, c.LastCompletedAt, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chore: %w", err)
	}
	return nil
}

// GetChore retrieves a chore by ID.
func (s *SQLiteStore) GetChore(ctx context.Context, choreID string) (*models.Chore, error) {
	c := &models.Chore{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, name, frequency, current_assignee_id, last_completed_at, created_at
		 FROM chores WHERE id = ?`,
		choreID,
	).Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Frequency, &c.CurrentAssigneeID, &c.LastCompletedAt, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chore %s: %w", choreID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chore: %w", err)
	}
	return c, nil
}

// ListChores returns a household's chores ordered by creation time.
func (s *SQLiteStore) ListChores(ctx context.Context, householdID string) ([]models.Chore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, frequency, current_assignee_id, last_completed_at, created_at
		 FROM chores WHERE household_id = ? ORDER BY created_at, id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chores: %w", err)
	}
	defer rows.Close()

	var chores []models.Chore
	for rows.Next() {
		var c models.Chore
		if err := rows.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Frequency, &c.CurrentAssigneeID, &c.LastCompletedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chore: %w", err)
		}
		chores = append(chores, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chores: %w", err)
	}
	return chores, nil
}

// CompleteChore appends the completion record and advances the chore's
// assignee in one transaction. The update is conditional on the current
// assignee still being prevAssigneeID, so a racing completion of the same
// chore fails with errs.ErrConflict instead of producing a lost or
// duplicated rotation.
func (s *SQLiteStore) CompleteChore(ctx context.Context, completion *models.ChoreCompletion, prevAssigneeID string) error {
	if completion.ID == "" {
		completion.ID = uuid.New().String()
	}
	if completion.CompletedAt == 0 {
		completion.CompletedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE chores SET current_assignee_id = ?, last_completed_at = ?
		 WHERE id = ? AND current_assignee_id = ?`,
		completion.NextAssigneeID, completion.CompletedAt, completion.ChoreID, prevAssigneeID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance chore assignee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Either the chore vanished or another completion won the race.
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM chores WHERE id = ?", completion.ChoreID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("chore %s: %w", completion.ChoreID, errs.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check chore existence: %w", err)
		}
		return fmt.Errorf("chore %s assignee changed: %w", completion.ChoreID, errs.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chore_completions (id, chore_id, completed_by_id, next_assignee_id, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		completion.ID, completion.ChoreID, completion.CompletedByID, completion.NextAssigneeID, completion.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert chore completion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListCompletions returns a chore's completion history, newest first.
func (s *SQLiteStore) ListCompletions(ctx context.Context, choreID string) ([]models.ChoreCompletion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chore_id, completed_by_id, next_assignee_id, completed_at
		 FROM chore_completions WHERE chore_id = ? ORDER BY completed_at DESC, id`,
		choreID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	defer rows.Close()

	var completions []models.ChoreCompletion
	for rows.Next() {
		var c models.ChoreCompletion
		if err := rows.Scan(&c.ID, &c.ChoreID, &c.CompletedByID, &c.NextAssigneeID, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}
	return completions, nil
}

// DeleteChore removes a chore; its completions cascade.
func (s *SQLiteStore) DeleteChore(ctx context.Context, choreID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chores WHERE id = ?", choreID)
	if err != nil {
		return fmt.Errorf("failed to delete chore: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("chore %s: %w", choreID, errs.ErrNotFound)
	}
	return nil
}
