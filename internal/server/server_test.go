package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmoroz/hearth/internal/auth"
	"github.com/kmoroz/hearth/internal/middleware"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/service"
	"github.com/kmoroz/hearth/internal/storage/sqlite"
)

// setupTestServer stands up the full middleware + handler stack over a
// temp-file SQLite store, the way cmd/server wires it.
func setupTestServer(t *testing.T) (*httptest.Server, *auth.JWTManager) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "hearth-server-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hub := notify.NewHub()
	srv := New(
		service.NewHouseholdService(store, hub),
		service.NewChoreService(store, hub),
		service.NewShoppingService(store, hub),
		service.NewExpenseService(store, hub),
		hub,
	)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	api := http.NewServeMux()
	srv.Register(api)

	mux := http.NewServeMux()
	mux.Handle("/v1/", middleware.RequireAuth(jwtManager)(api))

	ts := httptest.NewServer(middleware.Logging(mux))
	t.Cleanup(ts.Close)
	return ts, jwtManager
}

func doJSON(t *testing.T, ts *httptest.Server, token, method, path string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestAPIRequiresAuth(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/households", "application/json", bytes.NewBufferString(`{"name":"x"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChoreRotationEndToEnd(t *testing.T) {
	ts, jwtManager := setupTestServer(t)

	adminToken, err := jwtManager.Generate("admin", "Admin")
	require.NoError(t, err)

	var household struct{ ID string }
	resp := doJSON(t, ts, adminToken, http.MethodPost, "/v1/households",
		map[string]string{"name": "Elm St"}, &household)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var alice, bob struct {
		ID string `json:"id"`
	}
	membersPath := fmt.Sprintf("/v1/households/%s/members", household.ID)
	resp = doJSON(t, ts, adminToken, http.MethodPost, membersPath,
		map[string]string{"display_name": "Alice"}, &alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, ts, adminToken, http.MethodPost, membersPath,
		map[string]string{"display_name": "Bob"}, &bob)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	aliceToken, err := jwtManager.Generate(alice.ID, "Alice")
	require.NoError(t, err)

	var chore struct {
		ID                string `json:"id"`
		CurrentAssigneeID string `json:"current_assignee_id"`
	}
	resp = doJSON(t, ts, aliceToken, http.MethodPost,
		fmt.Sprintf("/v1/households/%s/chores", household.ID),
		map[string]string{"name": "Dishes", "frequency": "weekly", "initial_assignee_id": alice.ID},
		&chore)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, alice.ID, chore.CurrentAssigneeID)

	var completed struct {
		CurrentAssigneeID string `json:"current_assignee_id"`
	}
	resp = doJSON(t, ts, aliceToken, http.MethodPost,
		fmt.Sprintf("/v1/chores/%s/complete", chore.ID), nil, &completed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, bob.ID, completed.CurrentAssigneeID, "completion rotates to Bob")

	var history []struct {
		CompletedByID string `json:"completed_by_id"`
	}
	resp = doJSON(t, ts, aliceToken, http.MethodGet,
		fmt.Sprintf("/v1/chores/%s/history", chore.ID), nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, history, 1)
	assert.Equal(t, alice.ID, history[0].CompletedByID)
}

func TestConfirmPaymentPayerPolicy(t *testing.T) {
	ts, jwtManager := setupTestServer(t)

	adminToken, err := jwtManager.Generate("admin", "Admin")
	require.NoError(t, err)

	var household struct{ ID string }
	resp := doJSON(t, ts, adminToken, http.MethodPost, "/v1/households",
		map[string]string{"name": "Elm St"}, &household)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	membersPath := fmt.Sprintf("/v1/households/%s/members", household.ID)
	for _, name := range []string{"Alice", "Bob"} {
		resp = doJSON(t, ts, adminToken, http.MethodPost, membersPath,
			map[string]string{"display_name": name}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	aliceToken, err := jwtManager.Generate("m-alice", "Alice")
	require.NoError(t, err)
	bobToken, err := jwtManager.Generate("m-bob", "Bob")
	require.NoError(t, err)

	var expense struct{ ID string }
	resp = doJSON(t, ts, aliceToken, http.MethodPost,
		fmt.Sprintf("/v1/households/%s/expenses", household.ID),
		map[string]interface{}{
			"description": "Groceries",
			"amount":      60,
			"paid_by":     "Alice",
			"split_type":  "equal",
		}, &expense)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Bob may claim his own payment.
	resp = doJSON(t, ts, bobToken, http.MethodPost,
		fmt.Sprintf("/v1/expenses/%s/claim", expense.ID),
		map[string]string{"member_name": "Bob"}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Bob may not confirm it; only the payer may.
	resp = doJSON(t, ts, bobToken, http.MethodPost,
		fmt.Sprintf("/v1/expenses/%s/confirm", expense.ID),
		map[string]string{"member_name": "Bob"}, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, ts, aliceToken, http.MethodPost,
		fmt.Sprintf("/v1/expenses/%s/confirm", expense.ID),
		map[string]string{"member_name": "Bob"}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var view struct {
		Settled bool
		States  map[string]string
	}
	resp = doJSON(t, ts, aliceToken, http.MethodGet,
		fmt.Sprintf("/v1/expenses/%s", expense.ID), nil, &view)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, view.Settled)
	assert.Equal(t, "confirmed", view.States["Bob"])
}

func TestErrorStatusMapping(t *testing.T) {
	ts, jwtManager := setupTestServer(t)
	token, err := jwtManager.Generate("m1", "Alice")
	require.NoError(t, err)

	t.Run("missing chore is 404", func(t *testing.T) {
		resp := doJSON(t, ts, token, http.MethodPost, "/v1/chores/missing/complete", nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("empty-roster purchase is 422", func(t *testing.T) {
		var household struct{ ID string }
		resp := doJSON(t, ts, token, http.MethodPost, "/v1/households",
			map[string]string{"name": "Empty"}, &household)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var item struct{ ID string }
		resp = doJSON(t, ts, token, http.MethodPost,
			fmt.Sprintf("/v1/households/%s/shopping", household.ID),
			map[string]interface{}{"name": "Milk"}, &item)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, ts, token, http.MethodPost,
			fmt.Sprintf("/v1/shopping/%s/purchase", item.ID), nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("bad expense amount is 400", func(t *testing.T) {
		var household struct{ ID string }
		resp := doJSON(t, ts, token, http.MethodPost, "/v1/households",
			map[string]string{"name": "Empty2"}, &household)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJSON(t, ts, token, http.MethodPost,
			fmt.Sprintf("/v1/households/%s/expenses", household.ID),
			map[string]interface{}{
				"description": "Bad",
				"amount":      -1,
				"paid_by":     "Alice",
				"split_type":  "equal",
			}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
