package server

import (
	"net/http"

	"github.com/kmoroz/hearth/internal/middleware"
)

type createItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := s.shopping.Create(r.Context(), r.PathValue("id"), req.Name, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) purchaseItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.shopping.MarkPurchased(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) flagItem(w http.ResponseWriter, r *http.Request) {
	// The flagger is the authenticated caller.
	item, err := s.shopping.FlagLow(r.Context(), r.PathValue("id"), middleware.GetMemberName(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.shopping.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.shopping.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) shoppingActivity(w http.ResponseWriter, r *http.Request) {
	logs, err := s.shopping.Activity(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
