// Package settlement derives per-debtor payment state for an expense from
// its append-only payment log. Nothing here touches storage: services load
// the expense and its logs, then fold.
package settlement

import (
	"github.com/kmoroz/hearth/internal/models"
)

// State is the derived payment state of one debtor on one expense.
type State string

// Derived payment states, in escalation order.
const (
	// Pending: no payment activity logged for this debtor.
	Pending State = "pending"

	// Claimed: the debtor has claimed they paid; awaiting confirmation.
	Claimed State = "claimed"

	// Confirmed: the payer has confirmed receipt. Confirmed is sticky:
	// once a confirmed row exists, later claimed rows do not revert it.
	Confirmed State = "confirmed"
)

// StateFor folds the payment log into the derived state for one debtor.
//
// The payer is always Confirmed on their own expense regardless of log
// contents (a payer owes themselves nothing). For everyone else the fold
// checks row existence, not chronology: any confirmed row for the
// (expense, member) pair wins, else any claimed row, else Pending.
// Name comparison is string equality against the denormalized display
// names, matching the historical behavior.
func StateFor(expense *models.Expense, logs []models.PaymentLog, memberName string) State {
	if memberName == expense.PaidBy {
		return Confirmed
	}

	state := Pending
	for _, l := range logs {
		if l.ExpenseID != expense.ID || l.MemberName != memberName {
			continue
		}
		switch l.Action {
		case models.PaymentConfirmed:
			return Confirmed
		case models.PaymentClaimed:
			state = Claimed
		}
	}
	return state
}

// States returns the derived state for every debtor on the expense, keyed
// by debtor name.
func States(expense *models.Expense, logs []models.PaymentLog) map[string]State {
	states := make(map[string]State, len(expense.OwedBy))
	for _, name := range expense.OwedBy {
		states[name] = StateFor(expense, logs, name)
	}
	return states
}

// IsSettled reports whether every debtor on the expense has reached
// Confirmed. An expense with no debtors is trivially settled.
func IsSettled(expense *models.Expense, logs []models.PaymentLog) bool {
	for _, name := range expense.OwedBy {
		if StateFor(expense, logs, name) != Confirmed {
			return false
		}
	}
	return true
}

// Shares returns the amount each debtor owes, keyed by debtor name.
// Equal splits divide the total evenly at read time; individual splits
// return the stored custom amounts (zero for a debtor missing from the
// custom map).
func Shares(expense *models.Expense) map[string]float64 {
	shares := make(map[string]float64, len(expense.OwedBy))
	if len(expense.OwedBy) == 0 {
		return shares
	}

	if expense.SplitType == models.SplitIndividual {
		for _, name := range expense.OwedBy {
			shares[name] = expense.CustomAmounts[name]
		}
		return shares
	}

	per := expense.Amount / float64(len(expense.OwedBy))
	for _, name := range expense.OwedBy {
		shares[name] = per
	}
	return shares
}
