// Package server exposes the lifecycle and settlement services over a JSON
// HTTP API, plus the per-household change feed as server-sent events.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/service"
)

// Server wires services to HTTP routes.
type Server struct {
	households *service.HouseholdService
	chores     *service.ChoreService
	shopping   *service.ShoppingService
	expenses   *service.ExpenseService
	hub        *notify.Hub
}

// New creates a Server over the given services.
func New(
	households *service.HouseholdService,
	chores *service.ChoreService,
	shopping *service.ShoppingService,
	expenses *service.ExpenseService,
	hub *notify.Hub,
) *Server {
	return &Server{
		households: households,
		chores:     chores,
		shopping:   shopping,
		expenses:   expenses,
		hub:        hub,
	}
}

// Register mounts every route on the mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/households", s.createHousehold)
	mux.HandleFunc("POST /v1/households/{id}/members", s.addMember)
	mux.HandleFunc("GET /v1/households/{id}/members", s.listMembers)

	mux.HandleFunc("GET /v1/households/{id}/chores", s.listChores)
	mux.HandleFunc("POST /v1/households/{id}/chores", s.createChore)
	mux.HandleFunc("POST /v1/chores/{id}/complete", s.completeChore)
	mux.HandleFunc("GET /v1/chores/{id}/history", s.choreHistory)
	mux.HandleFunc("DELETE /v1/chores/{id}", s.deleteChore)

	mux.HandleFunc("GET /v1/households/{id}/shopping", s.listItems)
	mux.HandleFunc("POST /v1/households/{id}/shopping", s.createItem)
	mux.HandleFunc("GET /v1/households/{id}/shopping-logs", s.shoppingActivity)
	mux.HandleFunc("POST /v1/shopping/{id}/purchase", s.purchaseItem)
	mux.HandleFunc("POST /v1/shopping/{id}/flag", s.flagItem)
	mux.HandleFunc("DELETE /v1/shopping/{id}", s.deleteItem)

	mux.HandleFunc("GET /v1/households/{id}/expenses", s.listExpenses)
	mux.HandleFunc("POST /v1/households/{id}/expenses", s.createExpense)
	mux.HandleFunc("GET /v1/expenses/{id}", s.getExpense)
	mux.HandleFunc("POST /v1/expenses/{id}/claim", s.claimPayment)
	mux.HandleFunc("POST /v1/expenses/{id}/confirm", s.confirmPayment)
	mux.HandleFunc("DELETE /v1/expenses/{id}", s.deleteExpense)

	mux.HandleFunc("GET /v1/households/{id}/events", s.events)
}

// writeJSON serializes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps sentinel errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrEmptyRoster), errors.Is(err, errs.ErrAssigneeNotFound):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.ErrValidation
	}
	return nil
}
