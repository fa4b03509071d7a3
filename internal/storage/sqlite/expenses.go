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

// CreateExpense persists a new expense and its debtor set in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, household_id, description, amount, paid_by, split_type, bank_details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.HouseholdID, e.Description, e.Amount, e.PaidBy, string(e.SplitType), e.BankDetails, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	// Debtor order matters: position preserves it across reads.
	for pos, name := range e.OwedBy {
		var custom interface{}
		if e.CustomAmounts != nil {
			if amount, ok := e.CustomAmounts[name]; ok {
				custom = amount
			}
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_debtors (expense_id, position, name, custom_amount) VALUES (?, ?, ?, ?)",
			e.ID, pos, name, custom,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense debtor: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including debtors and custom amounts.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, description, amount, paid_by, split_type, bank_details, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&e.ID, &e.HouseholdID, &e.Description, &e.Amount, &e.PaidBy, &e.SplitType, &e.BankDetails, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadDebtors(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) loadDebtors(ctx context.Context, e *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, custom_amount FROM expense_debtors WHERE expense_id = ? ORDER BY position",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense debtors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var custom sql.NullFloat64
		if err := rows.Scan(&name, &custom); err != nil {
			return fmt.Errorf("failed to scan expense debtor: %w", err)
		}
		e.OwedBy = append(e.OwedBy, name)
		if custom.Valid {
			if e.CustomAmounts == nil {
				e.CustomAmounts = make(map[string]float64)
			}
			e.CustomAmounts[name] = custom.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense debtors: %w", err)
	}
	return nil
}

// ListExpenses returns a household's expenses, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, householdID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, description, amount, paid_by, split_type, bank_details, created_at
		 FROM expenses WHERE household_id = ? ORDER BY created_at DESC, id`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.Description, &e.Amount, &e.PaidBy, &e.SplitType, &e.BankDetails, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range expenses {
		if err := s.loadDebtors(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// DeleteExpense removes an expense; debtors and payment logs cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, errs.ErrNotFound)
	}
	return nil
}

// AppendPaymentLog appends one settlement event. Duplicates are allowed:
// the derivation fold only checks existence.
func (s *SQLiteStore) AppendPaymentLog(ctx context.Context, l *models.PaymentLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt == 0 {
		l.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_logs (id, household_id, expense_id, member_name, action, expense_description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.HouseholdID, l.ExpenseID, l.MemberName, l.Action, l.ExpenseDescription, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment log: %w", err)
	}
	return nil
}

// ListPaymentLogs returns all payment logs for one expense.
func (s *SQLiteStore) ListPaymentLogs(ctx context.Context, expenseID string) ([]models.PaymentLog, error) {
	return s.queryPaymentLogs(ctx, "expense_id", expenseID)
}

// ListHouseholdPaymentLogs returns all payment logs for a household.
func (s *SQLiteStore) ListHouseholdPaymentLogs(ctx context.Context, householdID string) ([]models.PaymentLog, error) {
	return s.queryPaymentLogs(ctx, "household_id", householdID)
}

func (s *SQLiteStore) queryPaymentLogs(ctx context.Context, column, value string) ([]models.PaymentLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, expense_id, member_name, action, expense_description, created_at
		 FROM payment_logs WHERE `+column+` = ? ORDER BY created_at, id`,
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment logs: %w", err)
	}
	defer rows.Close()

	var logs []models.PaymentLog
	for rows.Next() {
		var l models.PaymentLog
		if err := rows.Scan(&l.ID, &l.HouseholdID, &l.ExpenseID, &l.MemberName, &l.Action, &l.ExpenseDescription, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment logs: %w", err)
	}
	return logs, nil
}
