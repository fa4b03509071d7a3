// Package service implements the lifecycle and settlement operations on top
// of the record store: roster resolution, chore and shopping rotation, and
// expense settlement. Services never crash on failure; every error is a
// wrapped sentinel the transport layer can map to a response.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/storage"
)

// conflictRetries bounds how many times a rotation read-compute-write is
// attempted: the initial try plus one retry on errs.ErrConflict.
const conflictRetries = 2

// storeErr passes sentinel errors through untouched and wraps everything
// else (driver/transport failures) as errs.ErrStorageUnavailable so callers
// get a stable taxonomy.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		errs.ErrNotFound,
		errs.ErrConflict,
		errs.ErrEmptyRoster,
		errs.ErrAssigneeNotFound,
		errs.ErrValidation,
		errs.ErrUnauthorized,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", errs.ErrStorageUnavailable, err)
}

// resolveRoster returns the household's ordered, deduplicated member list.
// An empty roster is a valid result here; rotation callers must check for
// it and fail with errs.ErrEmptyRoster before advancing the ring.
func resolveRoster(ctx context.Context, store storage.Store, householdID string) ([]models.Member, error) {
	members, err := store.ListMembers(ctx, householdID)
	if err != nil {
		return nil, storeErr(err)
	}
	return members, nil
}

// isMember reports whether memberID is in the roster.
func isMember(roster []models.Member, memberID string) bool {
	for _, m := range roster {
		if m.ID == memberID {
			return true
		}
	}
	return false
}
