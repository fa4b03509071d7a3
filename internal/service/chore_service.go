package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/rotation"
	"github.com/kmoroz/hearth/internal/storage"
)

// ChoreService implements the chore lifecycle: creation, completion (which
// rotates the assignee and logs history), and deletion.
type ChoreService struct {
	store storage.Store
	hub   *notify.Hub
	now   func() time.Time
}

// NewChoreService creates a new ChoreService with the given storage backend.
func NewChoreService(store storage.Store, hub *notify.Hub) *ChoreService {
	return &ChoreService{store: store, hub: hub, now: time.Now}
}

// Create creates a chore with an explicit first assignee, who must be a
// current roster member.
func (s *ChoreService) Create(ctx context.Context, householdID, name string, frequency models.Frequency, initialAssigneeID string) (*models.Chore, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: chore name required", errs.ErrValidation)
	}
	if !frequency.Valid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", errs.ErrValidation, frequency)
	}

	roster, err := resolveRoster(ctx, s.store, householdID)
	if err != nil {
		return nil, err
	}
	if !isMember(roster, initialAssigneeID) {
		return nil, fmt.Errorf("%w: initial assignee %s is not a roster member", errs.ErrValidation, initialAssigneeID)
	}

	chore := &models.Chore{
		HouseholdID:       householdID,
		Name:              name,
		Frequency:         frequency,
		CurrentAssigneeID: initialAssigneeID,
	}
	if err := s.store.CreateChore(ctx, chore); err != nil {
		slog.Error("CreateChore failed", "household_id", householdID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("chore created", "chore_id", chore.ID, "household_id", householdID)
	s.hub.Publish(notify.Event{Table: "chores", Action: notify.ActionInsert, ID: chore.ID, HouseholdID: householdID})
	return chore, nil
}

// Complete records a completion and rotates the chore to the next roster
// member. The read-compute-write is guarded by a conditional update keyed
// on the previous assignee; on conflict the whole sequence is retried once
// before errs.ErrConflict reaches the caller.
func (s *ChoreService) Complete(ctx context.Context, choreID, completedByID string) (*models.Chore, error) {
	var lastErr error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		chore, err := s.store.GetChore(ctx, choreID)
		if err != nil {
			return nil, storeErr(err)
		}

		roster, err := resolveRoster(ctx, s.store, chore.HouseholdID)
		if err != nil {
			return nil, err
		}
		if len(roster) == 0 {
			return nil, fmt.Errorf("household %s: %w", chore.HouseholdID, errs.ErrEmptyRoster)
		}

		idx, err := rotation.MemberIndex(roster, chore.CurrentAssigneeID)
		if err != nil {
			return nil, err
		}
		next, err := rotation.NextIndex(idx, len(roster))
		if err != nil {
			return nil, err
		}

		// Completion timestamps must strictly increase even when two
		// completions land within the same second.
		completedAt := s.now().Unix()
		if completedAt <= chore.LastCompletedAt {
			completedAt = chore.LastCompletedAt + 1
		}

		completion := &models.ChoreCompletion{
			ChoreID:        choreID,
			CompletedByID:  completedByID,
			NextAssigneeID: roster[next].ID,
			CompletedAt:    completedAt,
		}
		err = s.store.CompleteChore(ctx, completion, chore.CurrentAssigneeID)
		if errors.Is(err, errs.ErrConflict) {
			rotationConflictsTotal.WithLabelValues("chore").Inc()
			slog.Warn("chore completion lost rotation race, retrying",
				"chore_id", choreID, "attempt", attempt+1)
			lastErr = err
			continue
		}
		if err != nil {
			slog.Error("CompleteChore failed", "chore_id", choreID, "error", err)
			return nil, storeErr(err)
		}

		rotationsTotal.WithLabelValues("chore").Inc()
		slog.Info("chore completed",
			"chore_id", choreID,
			"completed_by", completedByID,
			"next_assignee", completion.NextAssigneeID,
		)
		s.hub.Publish(notify.Event{Table: "chores", Action: notify.ActionUpdate, ID: choreID, HouseholdID: chore.HouseholdID})
		s.hub.Publish(notify.Event{Table: "chore_completions", Action: notify.ActionInsert, ID: completion.ID, HouseholdID: chore.HouseholdID})

		chore.CurrentAssigneeID = completion.NextAssigneeID
		chore.LastCompletedAt = completion.CompletedAt
		return chore, nil
	}
	return nil, lastErr
}

// Delete removes a chore along with its completion history.
func (s *ChoreService) Delete(ctx context.Context, choreID string) error {
	chore, err := s.store.GetChore(ctx, choreID)
	if err != nil {
		return storeErr(err)
	}
	if err := s.store.DeleteChore(ctx, choreID); err != nil {
		slog.Error("DeleteChore failed", "chore_id", choreID, "error", err)
		return storeErr(err)
	}

	slog.Info("chore deleted", "chore_id", choreID)
	s.hub.Publish(notify.Event{Table: "chores", Action: notify.ActionDelete, ID: choreID, HouseholdID: chore.HouseholdID})
	return nil
}

// List returns a household's chores ordered by creation time.
func (s *ChoreService) List(ctx context.Context, householdID string) ([]models.Chore, error) {
	chores, err := s.store.ListChores(ctx, householdID)
	if err != nil {
		return nil, storeErr(err)
	}
	return chores, nil
}

// History returns a chore's completion log, newest first.
func (s *ChoreService) History(ctx context.Context, choreID string) ([]models.ChoreCompletion, error) {
	if _, err := s.store.GetChore(ctx, choreID); err != nil {
		return nil, storeErr(err)
	}
	completions, err := s.store.ListCompletions(ctx, choreID)
	if err != nil {
		return nil, storeErr(err)
	}
	return completions, nil
}
