package server

import (
	"net/http"
)

type createHouseholdRequest struct {
	Name string `json:"name"`
}

func (s *Server) createHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	h, err := s.households.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

type addMemberRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	m, err := s.households.AddMember(r.Context(), r.PathValue("id"), req.DisplayName, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.households.Roster(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}
