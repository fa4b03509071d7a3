package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
	"github.com/kmoroz/hearth/internal/notify"
	"github.com/kmoroz/hearth/internal/rotation"
	"github.com/kmoroz/hearth/internal/storage"
)

// ShoppingService implements the shopping-item lifecycle: creation,
// purchase (which rotates responsibility), low-stock flagging (which
// escalates urgency without rotating), and deletion.
type ShoppingService struct {
	store storage.Store
	hub   *notify.Hub
}

// NewShoppingService creates a new ShoppingService with the given storage backend.
func NewShoppingService(store storage.Store, hub *notify.Hub) *ShoppingService {
	return &ShoppingService{store: store, hub: hub}
}

// ItemView is a shopping item annotated with its resolved assignee for
// display. Never cached: recomputed on every read because the positional
// derivation shifts whenever the roster resizes.
type ItemView struct {
	models.ShoppingItem

	// AssigneeName is the display name of the responsible member, empty
	// when the household has no members.
	AssigneeName string `json:"assignee_name"`

	// Urgent mirrors ShoppingItem.Urgent for serialization.
	Urgent bool `json:"urgent"`
}

// Create creates an unpurchased item with no explicit assigned index;
// responsibility derives from its position in creation order until the
// first purchase rotation freezes an explicit index.
func (s *ShoppingService) Create(ctx context.Context, householdID, name string, quantity int) (*models.ShoppingItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: item name required", errs.ErrValidation)
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: negative quantity", errs.ErrValidation)
	}

	if _, err := s.store.GetHousehold(ctx, householdID); err != nil {
		return nil, storeErr(err)
	}

	item := &models.ShoppingItem{HouseholdID: householdID, Name: name, Quantity: quantity}
	if err := s.store.CreateItem(ctx, item); err != nil {
		slog.Error("CreateItem failed", "household_id", householdID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("shopping item created", "item_id", item.ID, "household_id", householdID)
	s.hub.Publish(notify.Event{Table: "shopping_items", Action: notify.ActionInsert, ID: item.ID, HouseholdID: householdID})
	return item, nil
}

// currentIndex resolves the item's roster index: the explicit stored index
// when present, otherwise the item's 0-based position in household creation
// order modulo roster size.
func (s *ShoppingService) currentIndex(ctx context.Context, item *models.ShoppingItem, rosterSize int) (int, error) {
	if item.AssignedIndex != nil {
		return *item.AssignedIndex, nil
	}

	items, err := s.store.ListItems(ctx, item.HouseholdID)
	if err != nil {
		return 0, storeErr(err)
	}
	for pos := range items {
		if items[pos].ID == item.ID {
			return rotation.DerivedItemIndex(pos, rosterSize)
		}
	}
	return 0, fmt.Errorf("shopping item %s: %w", item.ID, errs.ErrNotFound)
}

// MarkPurchased logs the purchase against the responsible member and resets
// the item: unpurchased, unflagged, assigned index advanced one step around
// the ring. Shopping items are recurring tasks, not one-shot purchases.
// Guarded by a conditional update keyed on the previous assigned index,
// retried once on conflict.
func (s *ShoppingService) MarkPurchased(ctx context.Context, itemID string) (*models.ShoppingItem, error) {
	var lastErr error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		item, err := s.store.GetItem(ctx, itemID)
		if err != nil {
			return nil, storeErr(err)
		}

		roster, err := resolveRoster(ctx, s.store, item.HouseholdID)
		if err != nil {
			return nil, err
		}
		if len(roster) == 0 {
			return nil, fmt.Errorf("household %s: %w", item.HouseholdID, errs.ErrEmptyRoster)
		}

		cur, err := s.currentIndex(ctx, item, len(roster))
		if err != nil {
			return nil, err
		}
		next, err := rotation.NextIndex(cur, len(roster))
		if err != nil {
			return nil, err
		}

		// The audit row names whoever was responsible before the rotation,
		// not whoever clicked the button. A stale explicit index from a
		// since-shrunk roster wraps onto the ring.
		assignee := roster[cur%len(roster)]

		log := &models.ShoppingLog{
			HouseholdID: item.HouseholdID,
			Action:      models.ShoppingPurchased,
			ItemName:    item.Name,
			MemberName:  assignee.Name(),
		}
		err = s.store.RotateItem(ctx, log, itemID, item.AssignedIndex, next)
		if errors.Is(err, errs.ErrConflict) {
			rotationConflictsTotal.WithLabelValues("shopping").Inc()
			slog.Warn("shopping purchase lost rotation race, retrying",
				"item_id", itemID, "attempt", attempt+1)
			lastErr = err
			continue
		}
		if err != nil {
			slog.Error("RotateItem failed", "item_id", itemID, "error", err)
			return nil, storeErr(err)
		}

		rotationsTotal.WithLabelValues("shopping").Inc()
		slog.Info("shopping item purchased",
			"item_id", itemID,
			"responsible", assignee.Name(),
			"next_index", next,
		)
		s.hub.Publish(notify.Event{Table: "shopping_items", Action: notify.ActionUpdate, ID: itemID, HouseholdID: item.HouseholdID})
		s.hub.Publish(notify.Event{Table: "shopping_logs", Action: notify.ActionInsert, ID: log.ID, HouseholdID: item.HouseholdID})

		item.Purchased = false
		item.FlaggedBy = nil
		item.AssignedIndex = &next
		return item, nil
	}
	return nil, lastErr
}

// FlagLow marks the item as low on stock: it records who flagged it and
// appends a shopping log row, leaving purchase state and assignment
// untouched. A flagged unpurchased item shows in the urgent view.
func (s *ShoppingService) FlagLow(ctx context.Context, itemID, flaggingMemberName string) (*models.ShoppingItem, error) {
	if flaggingMemberName == "" {
		return nil, fmt.Errorf("%w: flagging member name required", errs.ErrValidation)
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, storeErr(err)
	}

	log := &models.ShoppingLog{
		HouseholdID: item.HouseholdID,
		Action:      models.ShoppingFlaggedLow,
		ItemName:    item.Name,
		MemberName:  flaggingMemberName,
	}
	if err := s.store.FlagItem(ctx, log, itemID, flaggingMemberName); err != nil {
		slog.Error("FlagItem failed", "item_id", itemID, "error", err)
		return nil, storeErr(err)
	}

	slog.Info("shopping item flagged low", "item_id", itemID, "flagged_by", flaggingMemberName)
	s.hub.Publish(notify.Event{Table: "shopping_items", Action: notify.ActionUpdate, ID: itemID, HouseholdID: item.HouseholdID})
	s.hub.Publish(notify.Event{Table: "shopping_logs", Action: notify.ActionInsert, ID: log.ID, HouseholdID: item.HouseholdID})

	item.FlaggedBy = &flaggingMemberName
	return item, nil
}

// Delete removes a shopping item permanently.
func (s *ShoppingService) Delete(ctx context.Context, itemID string) error {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return storeErr(err)
	}
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		slog.Error("DeleteItem failed", "item_id", itemID, "error", err)
		return storeErr(err)
	}

	slog.Info("shopping item deleted", "item_id", itemID)
	s.hub.Publish(notify.Event{Table: "shopping_items", Action: notify.ActionDelete, ID: itemID, HouseholdID: item.HouseholdID})
	return nil
}

// List returns a household's items with resolved assignees, urgent items
// first, then by creation time ascending.
func (s *ShoppingService) List(ctx context.Context, householdID string) ([]ItemView, error) {
	roster, err := resolveRoster(ctx, s.store, householdID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListItems(ctx, householdID)
	if err != nil {
		return nil, storeErr(err)
	}

	views := make([]ItemView, 0, len(items))
	for pos, item := range items {
		v := ItemView{ShoppingItem: item, Urgent: item.Urgent()}
		if len(roster) > 0 {
			idx := 0
			if item.AssignedIndex != nil {
				idx = *item.AssignedIndex
			} else {
				idx, err = rotation.DerivedItemIndex(pos, len(roster))
				if err != nil {
					return nil, err
				}
			}
			v.AssigneeName = roster[idx%len(roster)].Name()
		}
		views = append(views, v)
	}

	// ListItems is already creation-ascending; a stable sort lifts urgent
	// items without disturbing that order.
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Urgent && !views[j].Urgent
	})
	return views, nil
}

// Activity returns the household's shopping audit log, newest first.
func (s *ShoppingService) Activity(ctx context.Context, householdID string) ([]models.ShoppingLog, error) {
	logs, err := s.store.ListShoppingLogs(ctx, householdID)
	if err != nil {
		return nil, storeErr(err)
	}
	return logs, nil
}
