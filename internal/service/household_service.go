package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/storage"
)

// HouseholdService manages households and their rosters. Invitation and
// account flows live in external collaborators; this is just enough write
// surface to stand up a rotation ring.
type HouseholdService struct {
	store storage.Store
	hub   *notify.Hub
}

// NewHouseholdService creates a new HouseholdService with the given storage backend.
func NewHouseholdService(store storage.Store, hub *notify.Hub) *HouseholdService {
	return &HouseholdService{store: store, hub: hub}
}

// Create creates a household.
func (s *HouseholdService) Create(ctx context.Context, name string) (*models.Household, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: household name required", errs.ErrValidation)
	}

	h := &models.Household{Name: name}
	if err := s.store.CreateHousehold(ctx, h); err != nil {
		slog.Error("CreateHousehold failed", "error", err)
		return nil, storeErr(err)
	}

	slog.Info("household created", "household_id", h.ID)
	s.hub.Publish(notify.Event{Table: "households", Action: notify.ActionInsert, ID: h.ID, HouseholdID: h.ID})
	return h, nil
}

// AddMember appends a member to the household roster. Roster order is join
// order, so additions extend the rotation ring at the end.
func (s *HouseholdService) AddMember(ctx context.Context, householdID, displayName, email string) (*models.Member, error) {
	if displayName == "" && email == "" {
		return nil, fmt.Errorf("%w: member needs a display name or email", errs.ErrValidation)
	}

	// Reject unknown households up front.
	if _, err := s.store.GetHousehold(ctx, householdID); err != nil {
		return nil, storeErr(err)
	}

	m := &models.Member{HouseholdID: householdID, DisplayName: displayName, Email: email}
	if err := s.store.AddMember(ctx, m); err != nil {
		slog.Error("AddMember failed", "household_id", householdID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("member added", "household_id", householdID, "member_id", m.ID)
	s.hub.Publish(notify.Event{Table: "household_members", Action: notify.ActionInsert, ID: m.ID, HouseholdID: householdID})
	return m, nil
}

// Roster returns the household's ordered member list.
func (s *HouseholdService) Roster(ctx context.Context, householdID string) ([]models.Member, error) {
	return resolveRoster(ctx, s.store, householdID)
}
