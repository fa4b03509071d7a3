package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/settlement"
	"github.com/kmoroz/hearth/internal/storage"
)

// customAmountTolerance is the largest allowed gap between an individual
// split's custom-amount sum and the expense total (half a cent, to absorb
// float rounding at 2-decimal currency precision).
const customAmountTolerance = 0.005

// ExpenseService implements expense creation and the settlement operations
// over the append-only payment log.
type ExpenseService struct {
	store storage.Store
	hub   *notify.Hub
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, hub *notify.Hub) *ExpenseService {
	return &ExpenseService{store: store, hub: hub}
}

// CreateExpenseInput carries the fields for a new expense.
type CreateExpenseInput struct {
	HouseholdID   string
	Description   string
	Amount        float64
	PaidBy        string
	SplitType     models.SplitType
	OwedBy        []string
	BankDetails   string
	CustomAmounts map[string]float64
}

// ExpenseView is an expense annotated with derived settlement state.
type ExpenseView struct {
	models.Expense

	// States maps each debtor name to its derived payment state.
	States map[string]settlement.State `json:"states"`

	// Shares maps each debtor name to the amount owed.
	Shares map[string]float64 `json:"shares"`

	// Settled is true when every debtor is confirmed.
	Settled bool `json:"settled"`
}

// Create validates and stores a new expense. Amount positivity and
// custom-amount consistency are enforced here at the core boundary, not
// just in the entry form.
func (s *ExpenseService) Create(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description required", errs.ErrValidation)
	}
	if strings.TrimSpace(in.PaidBy) == "" {
		return nil, fmt.Errorf("%w: paid-by required", errs.ErrValidation)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", errs.ErrValidation)
	}
	if in.SplitType != models.SplitEqual && in.SplitType != models.SplitIndividual {
		return nil, fmt.Errorf("%w: unknown split type %q", errs.ErrValidation, in.SplitType)
	}

	owedBy := in.OwedBy
	var customAmounts map[string]float64

	switch in.SplitType {
	case models.SplitEqual:
		// Equal splits default the debtor set to the whole roster; shares
		// are computed at read time, never stored.
		if len(owedBy) == 0 {
			roster, err := resolveRoster(ctx, s.store, in.HouseholdID)
			if err != nil {
				return nil, err
			}
			for _, m := range roster {
				owedBy = append(owedBy, m.Name())
			}
		}
	case models.SplitIndividual:
		if len(owedBy) == 0 {
			return nil, fmt.Errorf("%w: individual split needs a debtor set", errs.ErrValidation)
		}
		sum := 0.0
		for _, name := range owedBy {
			amount, ok := in.CustomAmounts[name]
			if !ok {
				return nil, fmt.Errorf("%w: missing custom amount for %s", errs.ErrValidation, name)
			}
			if amount < 0 {
				return nil, fmt.Errorf("%w: negative custom amount for %s", errs.ErrValidation, name)
			}
			sum += amount
		}
		if math.Abs(sum-in.Amount) > customAmountTolerance {
			return nil, fmt.Errorf("%w: custom amounts sum to %.2f, expense total is %.2f", errs.ErrValidation, sum, in.Amount)
		}
		customAmounts = in.CustomAmounts
	}

	if len(owedBy) == 0 {
		return nil, fmt.Errorf("%w: expense needs at least one debtor", errs.ErrValidation)
	}

	expense := &models.Expense{
		HouseholdID:   in.HouseholdID,
		Description:   in.Description,
		Amount:        in.Amount,
		PaidBy:        in.PaidBy,
		SplitType:     in.SplitType,
		OwedBy:        owedBy,
		BankDetails:   in.BankDetails,
		CustomAmounts: customAmounts,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "household_id", in.HouseholdID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("expense created", "expense_id", expense.ID, "household_id", in.HouseholdID)
	s.hub.Publish(notify.Event{Table: "expenses", Action: notify.ActionInsert, ID: expense.ID, HouseholdID: in.HouseholdID})
	return expense, nil
}

// Claim appends a claimed event for the member. Any member name may claim;
// the fold decides what it means. The expense row itself is never mutated.
func (s *ExpenseService) Claim(ctx context.Context, expenseID, memberName string) error {
	if memberName == "" {
		return fmt.Errorf("%w: member name required", errs.ErrValidation)
	}
	return s.appendPayment(ctx, expenseID, memberName, models.PaymentClaimed)
}

// Confirm appends a confirmed event for the member. Only the expense's
// payer may confirm; callerName is the authenticated caller's display name.
func (s *ExpenseService) Confirm(ctx context.Context, expenseID, memberName, callerName string) error {
	if memberName == "" {
		return fmt.Errorf("%w: member name required", errs.ErrValidation)
	}
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return storeErr(err)
	}
	if callerName != expense.PaidBy {
		return fmt.Errorf("%w: only the payer may confirm payments", errs.ErrUnauthorized)
	}
	return s.appendPayment(ctx, expenseID, memberName, models.PaymentConfirmed)
}

func (s *ExpenseService) appendPayment(ctx context.Context, expenseID, memberName, action string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return storeErr(err)
	}

	log := &models.PaymentLog{
		HouseholdID:        expense.HouseholdID,
		ExpenseID:          expenseID,
		MemberName:         memberName,
		Action:             action,
		ExpenseDescription: expense.Description,
	}
	if err := s.store.AppendPaymentLog(ctx, log); err != nil {
		slog.Error("AppendPaymentLog failed", "expense_id", expenseID, "action", action, "error", err)
		return storeErr(err)
	}

	paymentEventsTotal.WithLabelValues(action).Inc()
	slog.Info("payment event logged", "expense_id", expenseID, "member", memberName, "action", action)
	s.hub.Publish(notify.Event{Table: "payment_logs", Action: notify.ActionInsert, ID: log.ID, HouseholdID: expense.HouseholdID})
	return nil
}

// Get returns one expense with derived settlement state.
func (s *ExpenseService) Get(ctx context.Context, expenseID string) (*ExpenseView, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, storeErr(err)
	}
	logs, err := s.store.ListPaymentLogs(ctx, expenseID)
	if err != nil {
		return nil, storeErr(err)
	}
	return expenseView(expense, logs), nil
}

// List returns a household's expenses with derived settlement state,
// newest first. The payment log is read once for the whole household.
func (s *ExpenseService) List(ctx context.Context, householdID string) ([]ExpenseView, error) {
	expenses, err := s.store.ListExpenses(ctx, householdID)
	if err != nil {
		return nil, storeErr(err)
	}
	logs, err := s.store.ListHouseholdPaymentLogs(ctx, householdID)
	if err != nil {
		return nil, storeErr(err)
	}

	views := make([]ExpenseView, 0, len(expenses))
	for i := range expenses {
		views = append(views, *expenseView(&expenses[i], logs))
	}
	return views, nil
}

// Delete removes an expense outright; its payment logs cascade. Settlement
// status is derived, so there is nothing to archive.
func (s *ExpenseService) Delete(ctx context.Context, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return storeErr(err)
	}
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return storeErr(err)
	}

	slog.Info("expense deleted", "expense_id", expenseID)
	s.hub.Publish(notify.Event{Table: "expenses", Action: notify.ActionDelete, ID: expenseID, HouseholdID: expense.HouseholdID})
	return nil
}

func expenseView(expense *models.Expense, logs []models.PaymentLog) *ExpenseView {
	return &ExpenseView{
		Expense: *expense,
		States:  settlement.States(expense, logs),
		Shares:  settlement.Shares(expense),
		Settled: settlement.IsSettled(expense, logs),
	}
}
