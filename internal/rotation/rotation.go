// Package rotation implements the ring-advance kernel shared by chore
// completion and shopping-item purchase: responsibility moves to the next
// roster member, wrapping at the end of the ring.
package rotation

import (
	"fmt"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
)

// NextIndex returns the roster index after current, ring-wise:
// (current + 1) mod size. Rotation over an empty roster is invalid and
// returns errs.ErrEmptyRoster rather than wrapping.
func NextIndex(current, size int) (int, error) {
	if size == 0 {
		return 0, errs.ErrEmptyRoster
	}
	if size < 0 {
		return 0, fmt.Errorf("%w: negative roster size %d", errs.ErrValidation, size)
	}
	if current < 0 {
		return 0, fmt.Errorf("%w: negative roster index %d", errs.ErrValidation, current)
	}
	return (current + 1) % size, nil
}

// MemberIndex returns the position of memberID within the roster, matching
// by identity. Returns errs.ErrAssigneeNotFound when the member is not in
// the roster (stale or foreign assignee reference).
func MemberIndex(roster []models.Member, memberID string) (int, error) {
	for i, m := range roster {
		if m.ID == memberID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: member %s", errs.ErrAssigneeNotFound, memberID)
}

// DerivedItemIndex maps a shopping item's 0-based position in household
// creation order onto the roster ring. Used for items without an explicit
// assigned index; stable under item insertion (new items only append) but
// not under roster resizes, which is why the first purchase rotation stores
// an explicit index.
func DerivedItemIndex(position, rosterSize int) (int, error) {
	if rosterSize == 0 {
		return 0, errs.ErrEmptyRoster
	}
	if position < 0 || rosterSize < 0 {
		return 0, fmt.Errorf("%w: position %d, roster size %d", errs.ErrValidation, position, rosterSize)
	}
	return position % rosterSize, nil
}
