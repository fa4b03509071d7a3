package server

import (
	"net/http"

	"github.com/kmoroz/hearth/internal/middleware"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/service"
)

type createExpenseRequest struct {
	Description   string             `json:"description"`
	Amount        float64            `json:"amount"`
	PaidBy        string             `json:"paid_by"`
	SplitType     models.SplitType   `json:"split_type"`
	OwedBy        []string           `json:"owed_by"`
	BankDetails   string             `json:"bank_details"`
	CustomAmounts map[string]float64 `json:"custom_amounts"`
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.Create(r.Context(), service.CreateExpenseInput{
		HouseholdID:   r.PathValue("id"),
		Description:   req.Description,
		Amount:        req.Amount,
		PaidBy:        req.PaidBy,
		SplitType:     req.SplitType,
		OwedBy:        req.OwedBy,
		BankDetails:   req.BankDetails,
		CustomAmounts: req.CustomAmounts,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) getExpense(w http.ResponseWriter, r *http.Request) {
	view, err := s.expenses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	views, err := s.expenses.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// ?settled=true|false filters the derived views.
	if filter := r.URL.Query().Get("settled"); filter == "true" || filter == "false" {
		want := filter == "true"
		filtered := make([]service.ExpenseView, 0, len(views))
		for _, v := range views {
			if v.Settled == want {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}
	writeJSON(w, http.StatusOK, views)
}

type paymentRequest struct {
	MemberName string `json:"member_name"`
}

func (s *Server) claimPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.MemberName == "" {
		req.MemberName = middleware.GetMemberName(r.Context())
	}

	if err := s.expenses.Claim(r.Context(), r.PathValue("id"), req.MemberName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	caller := middleware.GetMemberName(r.Context())
	if err := s.expenses.Confirm(r.Context(), r.PathValue("id"), req.MemberName, caller); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
