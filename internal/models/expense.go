package models

// SplitType determines how an expense divides among its debtors.
type SplitType string

// Valid split types.
const (
	// SplitEqual divides the amount evenly across all debtors; shares are
	// computed at read time, never stored.
	SplitEqual SplitType = "equal"

	// SplitIndividual uses per-debtor custom amounts stored on the expense.
	SplitIndividual SplitType = "individual"
)

// Expense represents a shared cost paid by one member and owed by a set of
// debtors. Expenses are immutable after creation: settlement status is
// derived from PaymentLog rows, never written back to the expense.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// HouseholdID is the household this expense belongs to.
	HouseholdID string `json:"household_id"`

	// Description is the human-readable summary (e.g., "Groceries week 12").
	Description string `json:"description"`

	// Amount is the total expense amount with 2-decimal currency semantics.
	Amount float64 `json:"amount"`

	// PaidBy is the denormalized display name of the payer. Payment-state
	// derivation compares debtor names against this string, so it must be
	// preserved verbatim (see settlement.StateFor).
	PaidBy string `json:"paid_by"`

	// SplitType is SplitEqual or SplitIndividual.
	SplitType SplitType `json:"split_type"`

	// OwedBy is the ordered debtor set, as denormalized display names.
	OwedBy []string `json:"owed_by,omitempty"`

	// BankDetails is free-text payment instructions from the payer.
	BankDetails string `json:"bank_details,omitempty"`

	// CustomAmounts maps debtor name to owed amount. Present only for
	// SplitIndividual expenses; nil otherwise.
	CustomAmounts map[string]float64 `json:"custom_amounts,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64 `json:"created_at"`
}

// Payment log actions.
const (
	PaymentClaimed   = "claimed"
	PaymentConfirmed = "confirmed"
)

// PaymentLog is the append-only audit record of settlement activity and the
// sole source of truth for payment state. Duplicate rows for the same
// (expense, member, action) are allowed; derivation only checks existence.
type PaymentLog struct {
	// ID is the unique identifier for the log entry (UUID format).
	ID string `json:"id"`

	// HouseholdID is the household the expense belongs to.
	HouseholdID string `json:"household_id"`

	// ExpenseID is the expense being settled.
	ExpenseID string `json:"expense_id"`

	// MemberName is the denormalized display name of the debtor.
	MemberName string `json:"member_name"`

	// Action is PaymentClaimed or PaymentConfirmed.
	Action string `json:"action"`

	// ExpenseDescription is the denormalized expense description at the
	// time of the event.
	ExpenseDescription string `json:"expense_description"`

	// CreatedAt is the Unix timestamp of the event.
	CreatedAt int64 `json:"created_at"`
}
