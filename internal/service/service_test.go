package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/storage/sqlite"
)

type testEnv struct {
	store      *sqlite.SQLiteStore
	hub        *notify.Hub
	households *HouseholdService
	chores     *ChoreService
	shopping   *ShoppingService
	expenses   *ExpenseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hearth-service-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hub := notify.NewHub()
	return &testEnv{
		store:      store,
		hub:        hub,
		households: NewHouseholdService(store, hub),
		chores:     NewChoreService(store, hub),
		shopping:   NewShoppingService(store, hub),
		expenses:   NewExpenseService(store, hub),
	}
}

// seed creates a household with the given members and returns it with the
// roster in join order.
func (e *testEnv) seed(t *testing.T, memberNames ...string) (*models.Household, []models.Member) {
	t.Helper()
	ctx := context.Background()

	h, err := e.households.Create(ctx, "Test House")
	require.NoError(t, err)

	var members []models.Member
	for i, name := range memberNames {
		m := &models.Member{HouseholdID: h.ID, DisplayName: name, JoinedAt: int64(1000 + i)}
		require.NoError(t, e.store.AddMember(ctx, m))
		members = append(members, *m)
	}
	return h, members
}
