package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hearth-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func seedHousehold(t *testing.T, store *SQLiteStore, memberNames ...string) (*models.Household, []models.Member) {
	t.Helper()
	ctx := context.Background()

	h := &models.Household{Name: "Test House"}
	if err := store.CreateHousehold(ctx, h); err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}

	var members []models.Member
	for i, name := range memberNames {
		m := &models.Member{HouseholdID: h.ID, DisplayName: name, JoinedAt: int64(1000 + i)}
		if err := store.AddMember(ctx, m); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		members = append(members, *m)
	}
	return h, members
}

func TestHouseholdsAndMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateHousehold generates ID and timestamp", func(t *testing.T) {
		h := &models.Household{Name: "Elm St"}
		if err := store.CreateHousehold(ctx, h); err != nil {
			t.Fatalf("CreateHousehold failed: %v", err)
		}
		if h.ID == "" {
			t.Error("Expected household ID to be generated")
		}
		if h.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetHousehold returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetHousehold(ctx, "missing")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListMembers preserves join order", func(t *testing.T) {
		h, _ := seedHousehold(t, store, "Alice", "Bob", "Carol")

		members, err := store.ListMembers(ctx, h.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("expected 3 members, got %d", len(members))
		}
		for i, want := range []string{"Alice", "Bob", "Carol"} {
			if members[i].DisplayName != want {
				t.Errorf("position %d: expected %s, got %s", i, want, members[i].DisplayName)
			}
		}
	})

	t.Run("ListMembers fails for unknown household", func(t *testing.T) {
		_, err := store.ListMembers(ctx, "missing")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListMembers allows empty roster on known household", func(t *testing.T) {
		h, _ := seedHousehold(t, store)
		members, err := store.ListMembers(ctx, h.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 0 {
			t.Errorf("expected empty roster, got %d members", len(members))
		}
	})
}

func TestChoreCompletion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	h, members := seedHousehold(t, store, "Alice", "Bob")

	chore := &models.Chore{
		HouseholdID:       h.ID,
		Name:              "Dishes",
		Frequency:         models.Weekly,
		CurrentAssigneeID: members[0].ID,
	}
	if err := store.CreateChore(ctx, chore); err != nil {
		t.Fatalf("CreateChore failed: %v", err)
	}

	t.Run("CompleteChore advances assignee and logs completion", func(t *testing.T) {
		completion := &models.ChoreCompletion{
			ChoreID:        chore.ID,
			CompletedByID:  members[0].ID,
			NextAssigneeID: members[1].ID,
			CompletedAt:    2000,
		}
		if err := store.CompleteChore(ctx, completion, members[0].ID); err != nil {
			t.Fatalf("CompleteChore failed: %v", err)
		}

		got, err := store.GetChore(ctx, chore.ID)
		if err != nil {
			t.Fatalf("GetChore failed: %v", err)
		}
		if got.CurrentAssigneeID != members[1].ID {
			t.Errorf("expected assignee %s, got %s", members[1].ID, got.CurrentAssigneeID)
		}
		if got.LastCompletedAt != 2000 {
			t.Errorf("expected last_completed_at 2000, got %d", got.LastCompletedAt)
		}

		completions, err := store.ListCompletions(ctx, chore.ID)
		if err != nil {
			t.Fatalf("ListCompletions failed: %v", err)
		}
		if len(completions) != 1 {
			t.Fatalf("expected 1 completion, got %d", len(completions))
		}
		if completions[0].CompletedByID != members[0].ID {
			t.Errorf("expected completer %s, got %s", members[0].ID, completions[0].CompletedByID)
		}
	})

	t.Run("CompleteChore conflicts on stale previous assignee", func(t *testing.T) {
		// The chore now points at Bob; a write still keyed on Alice must
		// fail and leave no orphaned audit row.
		completion := &models.ChoreCompletion{
			ChoreID:        chore.ID,
			CompletedByID:  members[0].ID,
			NextAssigneeID: members[1].ID,
			CompletedAt:    3000,
		}
		err := store.CompleteChore(ctx, completion, members[0].ID)
		if !errors.Is(err, errs.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		completions, err := store.ListCompletions(ctx, chore.ID)
		if err != nil {
			t.Fatalf("ListCompletions failed: %v", err)
		}
		if len(completions) != 1 {
			t.Errorf("expected no new completion after conflict, got %d rows", len(completions))
		}
	})

	t.Run("CompleteChore on missing chore returns ErrNotFound", func(t *testing.T) {
		completion := &models.ChoreCompletion{ChoreID: "missing", NextAssigneeID: members[0].ID}
		err := store.CompleteChore(ctx, completion, members[0].ID)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteChore cascades completions", func(t *testing.T) {
		if err := store.DeleteChore(ctx, chore.ID); err != nil {
			t.Fatalf("DeleteChore failed: %v", err)
		}
		if _, err := store.GetChore(ctx, chore.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteChore(ctx, chore.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestShoppingRotationAndFlagging(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	h, _ := seedHousehold(t, store, "Alice", "Bob")

	item := &models.ShoppingItem{HouseholdID: h.ID, Name: "Dish soap"}
	if err := store.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", item.Quantity)
	}

	t.Run("RotateItem matches NULL previous index and sets explicit index", func(t *testing.T) {
		log := &models.ShoppingLog{HouseholdID: h.ID, Action: models.ShoppingPurchased, ItemName: item.Name, MemberName: "Alice"}
		if err := store.RotateItem(ctx, log, item.ID, nil, 1); err != nil {
			t.Fatalf("RotateItem failed: %v", err)
		}

		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.Purchased {
			t.Error("expected item reset to unpurchased")
		}
		if got.FlaggedBy != nil {
			t.Error("expected flagged_by cleared")
		}
		if got.AssignedIndex == nil || *got.AssignedIndex != 1 {
			t.Errorf("expected assigned index 1, got %v", got.AssignedIndex)
		}
	})

	t.Run("RotateItem conflicts on stale previous index", func(t *testing.T) {
		log := &models.ShoppingLog{HouseholdID: h.ID, Action: models.ShoppingPurchased, ItemName: item.Name, MemberName: "Alice"}
		err := store.RotateItem(ctx, log, item.ID, nil, 1)
		if !errors.Is(err, errs.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}

		logs, err := store.ListShoppingLogs(ctx, h.ID)
		if err != nil {
			t.Fatalf("ListShoppingLogs failed: %v", err)
		}
		if len(logs) != 1 {
			t.Errorf("expected 1 log row after conflict, got %d", len(logs))
		}
	})

	t.Run("FlagItem sets flagged_by without touching assignment", func(t *testing.T) {
		log := &models.ShoppingLog{HouseholdID: h.ID, Action: models.ShoppingFlaggedLow, ItemName: item.Name, MemberName: "Bob"}
		if err := store.FlagItem(ctx, log, item.ID, "Bob"); err != nil {
			t.Fatalf("FlagItem failed: %v", err)
		}

		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.FlaggedBy == nil || *got.FlaggedBy != "Bob" {
			t.Errorf("expected flagged_by Bob, got %v", got.FlaggedBy)
		}
		if got.AssignedIndex == nil || *got.AssignedIndex != 1 {
			t.Errorf("expected assigned index unchanged at 1, got %v", got.AssignedIndex)
		}
		if got.Purchased {
			t.Error("expected purchase flag unchanged")
		}
	})

	t.Run("ListItems is creation-ordered", func(t *testing.T) {
		second := &models.ShoppingItem{HouseholdID: h.ID, Name: "Sponges", CreatedAt: item.CreatedAt + 10}
		if err := store.CreateItem(ctx, second); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}

		items, err := store.ListItems(ctx, h.ID)
		if err != nil {
			t.Fatalf("ListItems failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(items))
		}
		if items[0].Name != "Dish soap" || items[1].Name != "Sponges" {
			t.Errorf("unexpected order: %s, %s", items[0].Name, items[1].Name)
		}
	})

	t.Run("DeleteItem removes the item", func(t *testing.T) {
		if err := store.DeleteItem(ctx, item.ID); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		if _, err := store.GetItem(ctx, item.ID); !errors.Is(err, errs.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestExpensesAndPaymentLogs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	h, _ := seedHousehold(t, store, "Alice", "Bob")

	t.Run("CreateExpense round-trips debtors and custom amounts", func(t *testing.T) {
		e := &models.Expense{
			HouseholdID:   h.ID,
			Description:   "Internet",
			Amount:        80,
			PaidBy:        "Alice",
			SplitType:     models.SplitIndividual,
			OwedBy:        []string{"Bob", "Alice"},
			BankDetails:   "IBAN DE00 1234",
			CustomAmounts: map[string]float64{"Bob": 50, "Alice": 30},
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(got.OwedBy) != 2 || got.OwedBy[0] != "Bob" || got.OwedBy[1] != "Alice" {
			t.Errorf("debtor order not preserved: %v", got.OwedBy)
		}
		if got.CustomAmounts["Bob"] != 50 || got.CustomAmounts["Alice"] != 30 {
			t.Errorf("custom amounts not preserved: %v", got.CustomAmounts)
		}
		if got.BankDetails != "IBAN DE00 1234" {
			t.Errorf("bank details not preserved: %q", got.BankDetails)
		}
	})

	t.Run("equal split stores no custom amounts", func(t *testing.T) {
		e := &models.Expense{
			HouseholdID: h.ID,
			Description: "Groceries",
			Amount:      60,
			PaidBy:      "Alice",
			SplitType:   models.SplitEqual,
			OwedBy:      []string{"Alice", "Bob"},
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		got, err := store.GetExpense(ctx, e.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.CustomAmounts != nil {
			t.Errorf("expected no custom amounts, got %v", got.CustomAmounts)
		}
	})

	t.Run("payment logs append and cascade on expense delete", func(t *testing.T) {
		e := &models.Expense{
			HouseholdID: h.ID,
			Description: "Pizza",
			Amount:      30,
			PaidBy:      "Alice",
			SplitType:   models.SplitEqual,
			OwedBy:      []string{"Alice", "Bob"},
		}
		if err := store.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		// Duplicate claims are stored as-is, never deduplicated.
		for i := 0; i < 2; i++ {
			l := &models.PaymentLog{
				HouseholdID: h.ID, ExpenseID: e.ID,
				MemberName: "Bob", Action: models.PaymentClaimed,
				ExpenseDescription: e.Description,
			}
			if err := store.AppendPaymentLog(ctx, l); err != nil {
				t.Fatalf("AppendPaymentLog failed: %v", err)
			}
		}

		logs, err := store.ListPaymentLogs(ctx, e.ID)
		if err != nil {
			t.Fatalf("ListPaymentLogs failed: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("expected 2 log rows, got %d", len(logs))
		}

		if err := store.DeleteExpense(ctx, e.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		logs, err = store.ListPaymentLogs(ctx, e.ID)
		if err != nil {
			t.Fatalf("ListPaymentLogs failed: %v", err)
		}
		if len(logs) != 0 {
			t.Errorf("expected payment logs to cascade, got %d rows", len(logs))
		}
	})
}
