package server

import (
	"net/http"

	"github.com/kmoroz/hearth/internal/middleware"
	"github.com/kmoroz/hearth/internal/models"
)

type createChoreRequest struct {
	Name              string           `json:"name"`
	Frequency         models.Frequency `json:"frequency"`
	InitialAssigneeID string           `json:"initial_assignee_id"`
}

func (s *Server) createChore(w http.ResponseWriter, r *http.Request) {
	var req createChoreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	chore, err := s.chores.Create(r.Context(), r.PathValue("id"), req.Name, req.Frequency, req.InitialAssigneeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chore)
}

func (s *Server) completeChore(w http.ResponseWriter, r *http.Request) {
	// The completer is the authenticated caller.
	completedBy := middleware.GetMemberID(r.Context())

	chore, err := s.chores.Complete(r.Context(), r.PathValue("id"), completedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (s *Server) choreHistory(w http.ResponseWriter, r *http.Request) {
	completions, err := s.chores.History(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completions)
}

func (s *Server) deleteChore(w http.ResponseWriter, r *http.Request) {
	if err := s.chores.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) listChores(w http.ResponseWriter, r *http.Request) {
	chores, err := s.chores.List(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chores)
}
