package models

// ShoppingItem represents a recurring purchase whose responsibility rotates
// through the household roster. Purchasing is never a resting state: marking
// an item purchased logs the event and immediately resets the item to
// unpurchased with the next assignee.
type ShoppingItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// HouseholdID is the household this item belongs to.
	HouseholdID string `json:"household_id"`

	// Name is the display name of the item (e.g., "Dish soap").
	Name string `json:"name"`

	// Quantity is the amount to buy. Defaults to 1.
	Quantity int `json:"quantity"`

	// Purchased is the transient purchase flag. The purchase flow always
	// resets it to false, so persisted items are effectively always
	// unpurchased; the field exists to mirror the stored record faithfully.
	Purchased bool `json:"purchased"`

	// FlaggedBy is the display name of the member who flagged the item as
	// low stock, or nil when not flagged. Flagging escalates urgency
	// without touching purchase or assignment state. Cleared on purchase.
	FlaggedBy *string `json:"flagged_by,omitempty"`

	// AssignedIndex is the explicit 0-based roster index of the responsible
	// member, or nil when the index is derived positionally from creation
	// order (see rotation.DerivedItemIndex). The first purchase rotation
	// sets it, freezing the item's position against roster resizes.
	AssignedIndex *int `json:"assigned_index,omitempty"`

	// CreatedAt is the Unix timestamp when the item was created. Creation
	// order defines the positional derivation for unassigned items, so new
	// items only ever append to the end of the ordering.
	CreatedAt int64 `json:"created_at"`
}

// Urgent reports whether the item is in the urgent view: flagged as low
// stock while still unpurchased.
func (i ShoppingItem) Urgent() bool {
	return !i.Purchased && i.FlaggedBy != nil
}

// Shopping log actions.
const (
	ShoppingPurchased  = "purchased"
	ShoppingFlaggedLow = "flagged_low"
)

// ShoppingLog is the append-only audit record of shopping activity.
// Item and member are denormalized display strings, not references; they
// survive deletion of the item they describe.
type ShoppingLog struct {
	// ID is the unique identifier for the log entry (UUID format).
	ID string `json:"id"`

	// HouseholdID is the household the activity belongs to.
	HouseholdID string `json:"household_id"`

	// Action is ShoppingPurchased or ShoppingFlaggedLow.
	Action string `json:"action"`

	// ItemName is the denormalized item name at the time of the event.
	ItemName string `json:"item_name"`

	// MemberName is the denormalized display name: the responsible (not
	// necessarily acting) member for purchases, the flagging member for
	// low-stock flags.
	MemberName string `json:"member_name"`

	// CreatedAt is the Unix timestamp of the event.
	CreatedAt int64 `json:"created_at"`
}
